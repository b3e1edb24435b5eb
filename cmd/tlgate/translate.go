package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/tlgate"
	"github.com/ZaguanLabs/tlgate/internal/config"
	"github.com/ZaguanLabs/tlgate/internal/logging"
	"github.com/ZaguanLabs/tlgate/processor"
)

type translateOptions struct {
	target    string
	source    string
	format    string
	output    string
	chunkSize int
	jsonOut   bool
	quiet     bool
	dryRun    bool
}

// JSONOutput is the --json result of the translate command.
type JSONOutput struct {
	Text      string `json:"text"`
	Source    string `json:"source,omitempty"`
	Target    string `json:"target"`
	Format    string `json:"format"`
	Cached    bool   `json:"cached"`
	Chunks    int    `json:"chunks"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// DryRunOutput is the --dry-run --json result of the translate command.
type DryRunOutput struct {
	Input  string   `json:"input"`
	Format string   `json:"format"`
	Units  []string `json:"units"`
}

func newTranslateCmd() *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a file or stdin through the gateway pipeline",
		Long: `Translate a file, or stdin when no file is given, with the same
chunking, cache and provider settings the server uses.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "to", "t", "", "Target language code (required)")
	cmd.Flags().StringVarP(&opts.source, "from", "f", "", "Source language code (default: detected by the provider)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Content format: text or html (default: from the file extension)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "Characters per provider call (default: CHUNK_SIZE)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output result as JSON")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be sent to the provider without calling it")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, opts translateOptions) error {
	stderr := cmd.ErrOrStderr()

	input, inputName, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	format := resolveFormat(opts.format, inputName)
	if format != tlgate.FormatText && format != tlgate.FormatHTML {
		return fmt.Errorf("unsupported format %q (want text or html)", opts.format)
	}

	if opts.dryRun {
		chunkSize := opts.chunkSize
		if chunkSize <= 0 {
			chunkSize = tlgate.DefaultChunkSize
		}
		return runDryRun(cmd.OutOrStdout(), input, inputName, format, chunkSize, opts.jsonOut)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.chunkSize > 0 {
		cfg.ChunkSize = opts.chunkSize
	}

	logger, err := logging.NewWithWriter(stderr, cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprintf(stderr, "Translating %s to %s...\n", inputName, opts.target)
	}

	start := time.Now()
	result, err := a.translator.Translate(cmd.Context(), tlgate.TranslationRequest{
		Text:   input,
		Source: opts.source,
		Target: opts.target,
		Format: format,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(JSONOutput{
			Text:      result.Text,
			Source:    opts.source,
			Target:    opts.target,
			Format:    string(format),
			Cached:    result.Cached,
			Chunks:    result.Chunks,
			ElapsedMs: elapsed.Milliseconds(),
		})
	}

	fmt.Fprint(out, result.Text)

	if !opts.quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Characters:     %d\n", utf8.RuneCountInString(input))
		fmt.Fprintf(stderr, "  Provider calls: %d\n", result.Chunks)
	}
	return nil
}

func readInput(stdin io.Reader, args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(args[0]), nil
}

// resolveFormat returns the requested format, or guesses it from the input
// name when none was given.
func resolveFormat(requested, inputName string) tlgate.Format {
	if requested = strings.ToLower(strings.TrimSpace(requested)); requested != "" {
		return tlgate.Format(requested)
	}
	switch strings.ToLower(filepath.Ext(inputName)) {
	case ".html", ".htm":
		return tlgate.FormatHTML
	default:
		return tlgate.FormatText
	}
}

// runDryRun lists the units that would be sent to the provider: text
// chunks, or unique text nodes for HTML.
func runDryRun(w io.Writer, input, inputName string, format tlgate.Format, chunkSize int, jsonOut bool) error {
	var units []string
	if format == tlgate.FormatHTML {
		_, nodes, err := processor.NewHTMLProcessor().Extract(input)
		if err != nil {
			return err
		}
		for _, node := range nodes {
			units = append(units, node.Text)
		}
	} else {
		for _, chunk := range tlgate.SplitText(input, chunkSize) {
			units = append(units, chunk.Text)
		}
	}

	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(DryRunOutput{
			Input:  inputName,
			Format: string(format),
			Units:  units,
		})
	}

	fmt.Fprintf(w, "Dry run: %s (%s), %d provider call(s)\n", inputName, format, len(units))
	for i, unit := range units {
		fmt.Fprintf(w, "\n[%d] %d chars\n%s\n", i+1, utf8.RuneCountInString(unit), unit)
	}
	return nil
}

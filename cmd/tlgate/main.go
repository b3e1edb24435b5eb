// Command tlgate runs the translation gateway and translates files from the
// command line.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/tlgate"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = tlgate.Version
	commit    = tlgate.GitCommit
	buildDate = tlgate.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           tlgate.Name,
		Short:         tlgate.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("env"))
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to the .env file")

	root.AddCommand(
		newServeCmd(),
		newTranslateCmd(),
		newLanguagesCmd(),
		newVersionCmd(),
	)
	return root
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing default file is ignored; a file named
// explicitly must exist.
func loadEnvFile(path string, explicit bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", tlgate.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", buildDate)
			}
		},
	}
}

func newLanguagesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = os.Getenv("LANGUAGES_FILE")
			}
			langs, err := tlgate.LoadLanguages(file)
			if err != nil {
				return err
			}
			for _, lang := range langs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", lang.Code, lang.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Languages YAML file (default: LANGUAGES_FILE or the built-in list)")
	return cmd
}

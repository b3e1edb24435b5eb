package tlgate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// DefaultMaxTextLength is the largest request text accepted, in characters.
const DefaultMaxTextLength = 5000

// Translator runs the request pipeline: admission, validation, cache
// lookup, chunked translation and cache store.
type Translator struct {
	provider      Provider
	cache         TranslationCache
	limiter       RateLimiter
	processors    map[Format]ContentProcessor
	maxTextLength int
	chunkSize     int
	logger        zerolog.Logger
}

// Provider is the interface for translation backends. One call translates
// one chunk.
type Provider interface {
	Translate(ctx context.Context, req ChunkRequest) (string, error)
}

// ChunkRequest contains the parameters for a single provider call.
type ChunkRequest struct {
	Text       string
	SourceLang string // Empty when the request did not name a source language
	TargetLang string
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor is the interface for structured content formats.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error)
	ContentType() string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithRateLimiter sets the admission limiter.
func WithRateLimiter(limiter RateLimiter) TranslatorOption {
	return func(t *Translator) {
		t.limiter = limiter
	}
}

// WithProcessor registers a content processor for its content type.
func WithProcessor(processor ContentProcessor) TranslatorOption {
	return func(t *Translator) {
		t.processors[Format(processor.ContentType())] = processor
	}
}

// WithMaxTextLength sets the maximum accepted text length in characters.
func WithMaxTextLength(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.maxTextLength = n
		}
	}
}

// WithChunkSize sets the maximum characters sent per provider call.
func WithChunkSize(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.chunkSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// NewTranslator creates a new Translator for the given provider.
// Without WithCache or WithRateLimiter, caching and admission control are
// disabled.
func NewTranslator(provider Provider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		provider:      provider,
		processors:    make(map[Format]ContentProcessor),
		maxTextLength: DefaultMaxTextLength,
		chunkSize:     DefaultChunkSize,
		logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate handles one request. It returns ErrRateLimited, a
// *ValidationError, or a *TranslationError wrapping the provider or parse
// failure of the first chunk that failed. Nothing is cached on failure.
// Failures are returned, not logged; callers log them with their own
// request context.
func (t *Translator) Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error) {
	if t.limiter != nil && !t.limiter.Allow() {
		t.logger.Debug().Msg("request rejected by rate limiter")
		return nil, ErrRateLimited
	}

	if err := t.validate(req); err != nil {
		return nil, err
	}

	format := normalizeFormat(req.Format)
	key := CacheKeyForFormat(format, req.Source, req.Target, req.Text)

	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			t.logger.Debug().
				Str("target", req.Target).
				Str("format", string(format)).
				Msg("translation cache hit")
			return &TranslationResult{Text: cached, Cached: true}, nil
		}
	}

	var (
		text  string
		calls int
		err   error
	)
	if format == FormatText {
		text, calls, err = t.translateText(ctx, req.Text, req.Source, req.Target)
	} else {
		text, calls, err = t.translateContent(ctx, t.processors[format], req)
	}
	if err != nil {
		return nil, err
	}

	if t.cache != nil {
		if err := t.cache.Set(key, text); err != nil {
			t.logger.Warn().Err(err).Msg("cache store failed")
		}
	}

	t.logger.Debug().
		Str("target", req.Target).
		Str("format", string(format)).
		Int("provider_calls", calls).
		Msg("translation completed")

	return &TranslationResult{Text: text, Cached: false, Chunks: calls}, nil
}

// validate checks the request in order and reports the first violation.
func (t *Translator) validate(req TranslationRequest) error {
	length := utf8.RuneCountInString(req.Text)
	if length == 0 {
		return &ValidationError{
			Reason:  ReasonEmptyText,
			Message: "text must not be empty",
		}
	}
	if length > t.maxTextLength {
		return &ValidationError{
			Reason:  ReasonTextTooLong,
			Message: fmt.Sprintf("text exceeds the maximum length of %d characters", t.maxTextLength),
			Limit:   t.maxTextLength,
		}
	}
	if strings.TrimSpace(req.Target) == "" {
		return &ValidationError{
			Reason:  ReasonEmptyTarget,
			Message: "target language must not be empty",
		}
	}

	format := normalizeFormat(req.Format)
	if format != FormatText {
		if _, ok := t.processors[format]; !ok {
			return &ValidationError{
				Reason:  ReasonUnsupportedFormat,
				Message: fmt.Sprintf("unsupported format %q", req.Format),
			}
		}
	}
	return nil
}

// translateText splits text into chunks and translates them in order.
// Empty chunks are kept in place without a provider call. It stops at the
// first failing chunk and returns the number of provider calls made.
func (t *Translator) translateText(ctx context.Context, text, source, target string) (string, int, error) {
	chunks := SplitText(text, t.chunkSize)
	parts := make([]string, 0, len(chunks))
	calls := 0

	for _, chunk := range chunks {
		if chunk.Text == "" {
			parts = append(parts, "")
			continue
		}

		calls++
		translated, err := t.provider.Translate(ctx, ChunkRequest{
			Text:       chunk.Text,
			SourceLang: source,
			TargetLang: target,
		})
		if err != nil {
			return "", calls, &TranslationError{
				Chunk: chunk.Index,
				Total: len(chunks),
				Cause: err,
			}
		}
		parts = append(parts, translated)
	}

	return JoinChunks(parts), calls, nil
}

// translateContent translates the text nodes of structured content, each
// through the chunked text pipeline, and writes the results back.
func (t *Translator) translateContent(ctx context.Context, processor ContentProcessor, req TranslationRequest) (string, int, error) {
	parsed, nodes, err := processor.Extract(req.Text)
	if err != nil {
		return "", 0, err
	}

	calls := 0
	translations := make(map[string]string, len(nodes))
	for _, node := range nodes {
		if _, done := translations[node.Hash]; done {
			continue
		}
		translated, n, err := t.translateText(ctx, node.Text, req.Source, req.Target)
		calls += n
		if err != nil {
			return "", calls, err
		}
		translations[node.Hash] = translated
	}

	result, err := processor.Apply(parsed, nodes, translations)
	if err != nil {
		return "", calls, err
	}

	if processor.ContentType() == string(FormatHTML) {
		result = setHTMLAttributes(result, req.Target)
	}
	return result, calls, nil
}

// setHTMLAttributes sets lang and dir attributes on the <html> tag. Fragments
// without one are returned unchanged.
func setHTMLAttributes(html, target string) string {
	if !strings.Contains(strings.ToLower(html), "<html") {
		return html
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(target))
		htmlTag.SetAttr("dir", GetDirection(target))
	}

	result, err := doc.Html()
	if err != nil {
		return html
	}

	return result
}

// MaxTextLength returns the maximum accepted text length.
func (t *Translator) MaxTextLength() int {
	return t.maxTextLength
}

// ChunkSize returns the maximum characters sent per provider call.
func (t *Translator) ChunkSize() int {
	return t.chunkSize
}

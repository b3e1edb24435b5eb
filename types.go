package tlgate

// Format selects how the text of a request is interpreted.
type Format string

const (
	// FormatText treats the request text as plain text. This is the default.
	FormatText Format = "text"
	// FormatHTML translates the visible text nodes of an HTML document.
	FormatHTML Format = "html"
)

// TranslationRequest is one inbound translation request.
type TranslationRequest struct {
	Text   string // Text to translate (required, bounded by the max text length)
	Source string // Source language code; empty lets the provider detect it
	Target string // Target language code (required)
	Format Format // Content format (default: FormatText)
}

// TranslationResult is the outcome of a successful request.
type TranslationResult struct {
	Text   string // Translated content
	Cached bool   // Whether the result was served from the cache
	Chunks int    // Number of provider calls made (0 on a cache hit)
}

// Chunk is a provider-sized slice of the original text.
type Chunk struct {
	Index int    // Position of the chunk in the original text
	Text  string // Chunk content
}

// TextNode represents a translatable unit extracted from structured content.
type TextNode struct {
	ID       string            // Node identifier within the document
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	Metadata map[string]string // Additional info (parent tag, etc.)
}

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

func normalizeFormat(f Format) Format {
	if f == "" {
		return FormatText
	}
	return f
}

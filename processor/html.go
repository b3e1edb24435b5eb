package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/tlgate"
	"golang.org/x/net/html"
)

// noTranslateAttr marks an element whose subtree is left untouched.
const noTranslateAttr = "data-no-translate"

// HTMLProcessor extracts and applies translations to HTML content.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: tlgate.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// parsedHTML holds the parsed document between Extract and Apply.
type parsedHTML struct {
	doc *goquery.Document

	// fragment is set when the input had no document structure, so Apply
	// returns only the body contents the parser wrapped it in.
	fragment bool
}

// Extract parses HTML and returns its unique translatable text nodes in
// document order.
func (p *HTMLProcessor) Extract(content string) (interface{}, []tlgate.TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &tlgate.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: p.ContentType(),
		}
	}

	var nodes []tlgate.TextNode
	seen := make(map[string]bool)

	p.walk(doc, func(n *html.Node, trimmed string) {
		hash := tlgate.HashText(trimmed)
		if seen[hash] {
			return
		}
		seen[hash] = true

		node := tlgate.TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			Metadata: map[string]string{},
		}
		if n.Parent != nil && n.Parent.Type == html.ElementNode {
			node.Metadata["parent_tag"] = n.Parent.Data
		}
		nodes = append(nodes, node)
	})

	return &parsedHTML{doc: doc, fragment: isFragment(content)}, nodes, nil
}

// Apply writes translations back into the document. Every text node whose
// trimmed text hashes to a translated entry is replaced, keeping its
// surrounding whitespace.
func (p *HTMLProcessor) Apply(parsed interface{}, nodes []tlgate.TextNode, translations map[string]string) (string, error) {
	ph, ok := parsed.(*parsedHTML)
	if !ok {
		return "", &tlgate.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: p.ContentType(),
		}
	}

	p.walk(ph.doc, func(n *html.Node, trimmed string) {
		if translated, ok := translations[tlgate.HashText(trimmed)]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	sel := ph.doc.Selection
	if ph.fragment {
		sel = ph.doc.Find("body")
	}
	out, err := sel.Html()
	if err != nil {
		return "", &tlgate.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: p.ContentType(),
		}
	}

	return out, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return string(tlgate.FormatHTML)
}

// walk visits every non-blank text node outside ignored and
// data-no-translate subtrees.
func (p *HTMLProcessor) walk(doc *goquery.Document, visit func(n *html.Node, trimmed string)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if p.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == noTranslateAttr {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				visit(n, trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}

	for _, n := range doc.Nodes {
		rec(n)
	}
}

// isFragment reports whether content lacks its own document structure.
func isFragment(content string) bool {
	lower := strings.ToLower(content)
	for _, marker := range []string{"<!doctype", "<html", "<head", "<body"} {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}

// Verify HTMLProcessor implements ContentProcessor
var _ ContentProcessor = (*HTMLProcessor)(nil)

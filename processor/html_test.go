package processor

import (
	"errors"
	"strings"
	"testing"

	"github.com/ZaguanLabs/tlgate"
)

func TestHTMLProcessor_Extract_Basic(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div><h1>Hello World</h1><p>Welcome to our site.</p></div>`
	parsed, nodes, err := p.Extract(html)

	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if parsed == nil {
		t.Fatal("parsed should not be nil")
	}

	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}

	if nodes[0].Text != "Hello World" {
		t.Errorf("Expected 'Hello World', got %q", nodes[0].Text)
	}
	if nodes[0].Hash != tlgate.HashText("Hello World") {
		t.Errorf("Hash = %q, want HashText of the node text", nodes[0].Hash)
	}
	if nodes[0].ID != "node-0" {
		t.Errorf("ID = %q, want node-0", nodes[0].ID)
	}
	if nodes[0].Metadata["parent_tag"] != "h1" {
		t.Errorf("parent_tag = %q, want h1", nodes[0].Metadata["parent_tag"])
	}

	if nodes[1].Text != "Welcome to our site." {
		t.Errorf("Expected 'Welcome to our site.', got %q", nodes[1].Text)
	}
}

func TestHTMLProcessor_Extract_IgnoredTags(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div>
		<p>Translate me</p>
		<script>doNotTranslate();</script>
		<style>.class { color: red; }</style>
		<code>const x = 1;</code>
		<pre>preformatted</pre>
		<textarea>form input</textarea>
	</div>`

	_, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node (only 'Translate me'), got %d", len(nodes))
	}

	if nodes[0].Text != "Translate me" {
		t.Errorf("Expected 'Translate me', got %q", nodes[0].Text)
	}
}

func TestHTMLProcessor_Extract_CustomIgnoredTags(t *testing.T) {
	p := NewHTMLProcessorWithIgnoredTags([]string{"EM"})

	_, nodes, err := p.Extract(`<p>Keep <em>skip</em></p>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Text != "Keep" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
}

func TestHTMLProcessor_Extract_DataNoTranslate(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div>
		<p data-no-translate>Keep <b>this</b></p>
		<p>Translate this</p>
	</div>`

	_, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}

	if nodes[0].Text != "Translate this" {
		t.Errorf("Expected 'Translate this', got %q", nodes[0].Text)
	}
}

func TestHTMLProcessor_Extract_Deduplication(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div>
		<p>Hello</p>
		<p>Hello</p>
		<p>Hello</p>
	</div>`

	_, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 unique node, got %d", len(nodes))
	}
}

func TestHTMLProcessor_Apply(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div><p>Hello</p><p>World</p></div>`
	parsed, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	translations := make(map[string]string)
	for _, node := range nodes {
		switch node.Text {
		case "Hello":
			translations[node.Hash] = "Hola"
		case "World":
			translations[node.Hash] = "Mundo"
		}
	}

	result, err := p.Apply(parsed, nodes, translations)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := `<div><p>Hola</p><p>Mundo</p></div>`
	if result != want {
		t.Errorf("Apply returned %q, want %q", result, want)
	}
}

func TestHTMLProcessor_Apply_FullDocument(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<!DOCTYPE html><html><head><title>Hello</title></head><body><p>World</p></body></html>`
	parsed, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}

	translations := map[string]string{
		tlgate.HashText("Hello"): "Hola",
		tlgate.HashText("World"): "Mundo",
	}

	result, err := p.Apply(parsed, nodes, translations)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !strings.HasPrefix(result, "<!DOCTYPE html><html>") {
		t.Errorf("document structure should be kept, got %q", result)
	}
	if !strings.Contains(result, "<title>Hola</title>") || !strings.Contains(result, "<p>Mundo</p>") {
		t.Errorf("translations missing from %q", result)
	}
}

func TestHTMLProcessor_Apply_PreservesWhitespace(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<p>  Hello  </p>`
	parsed, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	translations := map[string]string{
		nodes[0].Hash: "Hola",
	}

	result, err := p.Apply(parsed, nodes, translations)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if result != "<p>  Hola  </p>" {
		t.Errorf("Result should preserve whitespace, got: %s", result)
	}
}

func TestHTMLProcessor_Apply_DuplicateTexts(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div><p>Hello</p><p>Hello</p></div>`
	parsed, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}

	translations := map[string]string{
		nodes[0].Hash: "Hola",
	}

	result, err := p.Apply(parsed, nodes, translations)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	count := strings.Count(result, "Hola")
	if count != 2 {
		t.Errorf("Expected 2 instances of 'Hola', got %d in: %s", count, result)
	}
}

func TestHTMLProcessor_Apply_LeavesIgnoredTags(t *testing.T) {
	p := NewHTMLProcessor()

	html := `<div><p>Hello</p><code>Hello</code></div>`
	parsed, nodes, err := p.Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	result, err := p.Apply(parsed, nodes, map[string]string{nodes[0].Hash: "Hola"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := `<div><p>Hola</p><code>Hello</code></div>`
	if result != want {
		t.Errorf("Apply returned %q, want %q", result, want)
	}
}

func TestHTMLProcessor_Apply_InvalidParsed(t *testing.T) {
	p := NewHTMLProcessor()

	_, err := p.Apply("not parsed", nil, nil)
	var procErr *tlgate.ProcessorError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *tlgate.ProcessorError, got %T", err)
	}
	if procErr.ContentType != "html" {
		t.Errorf("ContentType = %q, want html", procErr.ContentType)
	}
}

func TestHTMLProcessor_ContentType(t *testing.T) {
	p := NewHTMLProcessor()
	if p.ContentType() != "html" {
		t.Errorf("Expected 'html', got %q", p.ContentType())
	}
}

func TestPreserveWhitespace(t *testing.T) {
	tests := []struct {
		original   string
		translated string
		expected   string
	}{
		{"Hello", "Hola", "Hola"},
		{"  Hello", "Hola", "  Hola"},
		{"Hello  ", "Hola", "Hola  "},
		{"  Hello  ", "Hola", "  Hola  "},
		{"\n\tHello\n", "Hola", "\n\tHola\n"},
	}

	for _, tt := range tests {
		result := preserveWhitespace(tt.original, tt.translated)
		if result != tt.expected {
			t.Errorf("preserveWhitespace(%q, %q) = %q, want %q",
				tt.original, tt.translated, result, tt.expected)
		}
	}
}

func TestIsFragment(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{`<p>Hello</p>`, true},
		{`plain text`, true},
		{`<!doctype html><p>x</p>`, false},
		{`<HTML><p>x</p></HTML>`, false},
		{`<body><p>x</p></body>`, false},
	}

	for _, tt := range tests {
		if got := isFragment(tt.content); got != tt.want {
			t.Errorf("isFragment(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestHTMLProcessor_EmptyContent(t *testing.T) {
	p := NewHTMLProcessor()

	_, nodes, err := p.Extract(`<div></div>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 0 {
		t.Errorf("Expected 0 nodes for empty content, got %d", len(nodes))
	}
}

func TestHTMLProcessor_WhitespaceOnlyContent(t *testing.T) {
	p := NewHTMLProcessor()

	_, nodes, err := p.Extract(`<div>   </div>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 0 {
		t.Errorf("Expected 0 nodes for whitespace-only content, got %d", len(nodes))
	}
}

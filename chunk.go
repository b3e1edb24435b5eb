package tlgate

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the maximum number of characters sent to the
// provider in a single call.
const DefaultChunkSize = 800

const (
	paragraphSeparator = "\n\n"
	chunkJoiner        = "\n"
)

// SplitText splits text into chunks of at most maxChars characters.
//
// Text that already fits is returned unchanged as a single chunk. Longer
// text is split on blank lines and consecutive paragraphs are packed
// greedily, rejoined with a blank line. A paragraph that alone exceeds
// maxChars is cut at character boundaries. Lengths count Unicode code
// points, not bytes.
//
// When no paragraph exceeds maxChars, joining the chunk texts with a blank
// line reproduces text exactly. Runs of empty paragraphs can therefore
// yield an empty chunk.
func SplitText(text string, maxChars int) []Chunk {
	if maxChars < 1 {
		maxChars = 1
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return []Chunk{{Index: 0, Text: text}}
	}

	var pieces []string
	var current strings.Builder
	currentLen := 0
	open := false
	sepLen := utf8.RuneCountInString(paragraphSeparator)

	flush := func() {
		if open {
			pieces = append(pieces, current.String())
		}
		current.Reset()
		currentLen = 0
		open = false
	}

	for _, paragraph := range strings.Split(text, paragraphSeparator) {
		paraLen := utf8.RuneCountInString(paragraph)

		if paraLen > maxChars {
			flush()
			pieces = append(pieces, splitRunes(paragraph, maxChars)...)
			continue
		}

		if open && currentLen+sepLen+paraLen > maxChars {
			flush()
		}
		if open {
			current.WriteString(paragraphSeparator)
			currentLen += sepLen
		}
		current.WriteString(paragraph)
		currentLen += paraLen
		open = true
	}
	flush()

	chunks := make([]Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = Chunk{Index: i, Text: piece}
	}
	return chunks
}

// JoinChunks reassembles translated chunks in order, separated by a single
// newline rather than the blank line used when packing.
func JoinChunks(parts []string) string {
	return strings.Join(parts, chunkJoiner)
}

// splitRunes cuts text into pieces of exactly size runes (the last may be
// shorter), ignoring word boundaries.
func splitRunes(text string, size int) []string {
	parts := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	start, count := 0, 0
	for i := range text {
		if count == size {
			parts = append(parts, text[start:i])
			start, count = i, 0
		}
		count++
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

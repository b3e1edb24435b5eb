// Package processor provides content processors for structured request
// formats.
package processor

import "github.com/ZaguanLabs/tlgate"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = tlgate.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = tlgate.TextNode

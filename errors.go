package tlgate

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the rate limiter rejects a request.
// Callers may retry after waiting; the gateway never retries internally.
var ErrRateLimited = errors.New("rate limit exceeded")

// ValidationReason identifies which request check failed.
type ValidationReason string

const (
	ReasonEmptyText         ValidationReason = "empty_text"
	ReasonTextTooLong       ValidationReason = "text_too_long"
	ReasonEmptyTarget       ValidationReason = "empty_target"
	ReasonUnsupportedFormat ValidationReason = "unsupported_format"
)

// ValidationError indicates a request that was rejected before any lookup.
type ValidationError struct {
	Reason  ValidationReason
	Message string
	Limit   int // Maximum text length, set for ReasonTextTooLong
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProviderErrorKind distinguishes transport failures from HTTP failures.
type ProviderErrorKind int

const (
	// ProviderTransport covers network errors, timeouts and unreadable bodies.
	ProviderTransport ProviderErrorKind = iota
	// ProviderHTTP covers replies with a non-success status code.
	ProviderHTTP
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderTransport:
		return "transport"
	case ProviderHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// ProviderError indicates a failed call to the translation provider.
type ProviderError struct {
	Kind       ProviderErrorKind
	Message    string
	StatusCode int    // HTTP status, set for ProviderHTTP
	Body       string // Raw reply body, set for ProviderHTTP
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.Kind == ProviderHTTP {
		return fmt.Sprintf("provider error: status %d: %s", e.StatusCode, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError indicates a provider reply that matched no supported schema.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TranslationError wraps the failure of one chunk and aborts the request.
type TranslationError struct {
	Chunk int // Index of the failed chunk
	Total int // Number of chunks in the request
	Cause error
}

func (e *TranslationError) Error() string {
	if e.Total > 1 {
		return fmt.Sprintf("chunk %d/%d: %v", e.Chunk+1, e.Total, e.Cause)
	}
	return e.Cause.Error()
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// IsClientError reports whether err was caused by the request itself
// rather than by the provider.
func IsClientError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

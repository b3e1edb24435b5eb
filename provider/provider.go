// Package provider defines the translation provider interface, the Ark
// responses-API client and the provider reply parser.
package provider

import "github.com/ZaguanLabs/tlgate"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = tlgate.Provider

// ChunkRequest is an alias to the main package type.
type ChunkRequest = tlgate.ChunkRequest

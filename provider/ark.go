package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/tlgate"
	"golang.org/x/oauth2"
)

const (
	// DefaultArkURL is the Volcengine Ark responses endpoint.
	DefaultArkURL = "https://ark.cn-beijing.volces.com/api/v3/responses"
	// DefaultArkModel is the Doubao translation model.
	DefaultArkModel = "doubao-seed-translation-250915"
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 30 * time.Second

	maxReplyBytes = 8 << 20
)

// ArkProvider implements Provider using the Ark responses API.
// Each call translates one chunk.
type ArkProvider struct {
	client *http.Client
	url    string
	model  string
}

// ArkConfig holds configuration for the Ark provider.
type ArkConfig struct {
	APIKey    string            // Bearer credential
	URL       string            // Endpoint URL (default: DefaultArkURL)
	Model     string            // Model to use (default: DefaultArkModel)
	Timeout   time.Duration     // Per-call timeout (default: 30s)
	Transport http.RoundTripper // Base transport (default: http.DefaultTransport)
}

// NewArkProvider creates a new Ark provider.
func NewArkProvider(cfg ArkConfig) *ArkProvider {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultArkURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultArkModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ArkProvider{
		client: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey}),
				Base:   cfg.Transport,
			},
		},
		url:   url,
		model: model,
	}
}

type arkRequest struct {
	Model string            `json:"model"`
	Input []arkInputMessage `json:"input"`
}

type arkInputMessage struct {
	Role    string       `json:"role"`
	Content []arkContent `json:"content"`
}

type arkContent struct {
	Type               string              `json:"type"`
	Text               string              `json:"text"`
	TranslationOptions *translationOptions `json:"translation_options,omitempty"`
}

type translationOptions struct {
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language"`
}

// Translate sends one chunk to the provider and returns its translation.
func (p *ArkProvider) Translate(ctx context.Context, req ChunkRequest) (string, error) {
	payload, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return "", &tlgate.ProviderError{
			Kind:    tlgate.ProviderTransport,
			Message: "encoding request",
			Cause:   err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", &tlgate.ProviderError{
			Kind:    tlgate.ProviderTransport,
			Message: "building request",
			Cause:   err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", tlgate.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &tlgate.ProviderError{
			Kind:    tlgate.ProviderTransport,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", &tlgate.ProviderError{
			Kind:    tlgate.ProviderTransport,
			Message: "reading response failed",
			Cause:   err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &tlgate.ProviderError{
			Kind:       tlgate.ProviderHTTP,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	reply, err := ParseResponse(body)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (p *ArkProvider) buildRequest(req ChunkRequest) arkRequest {
	return arkRequest{
		Model: p.model,
		Input: []arkInputMessage{{
			Role: "user",
			Content: []arkContent{{
				Type: "input_text",
				Text: req.Text,
				TranslationOptions: &translationOptions{
					SourceLanguage: req.SourceLang,
					TargetLanguage: req.TargetLang,
				},
			}},
		}},
	}
}

// Model returns the configured model identifier.
func (p *ArkProvider) Model() string {
	return p.model
}

// Verify ArkProvider implements Provider
var _ Provider = (*ArkProvider)(nil)

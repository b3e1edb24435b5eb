package provider

import (
	"bytes"
	"encoding/json"

	"github.com/ZaguanLabs/tlgate"
	"github.com/sashabaranov/go-openai"
)

// Schema identifies which reply format a provider body was decoded as.
type Schema int

const (
	// SchemaResponses is the "responses" API shape: a completed status and
	// an output list of typed items.
	SchemaResponses Schema = iota + 1
	// SchemaChatCompletions is the OpenAI chat-completions shape.
	SchemaChatCompletions
)

func (s Schema) String() string {
	switch s {
	case SchemaResponses:
		return "responses"
	case SchemaChatCompletions:
		return "chat_completions"
	default:
		return "unknown"
	}
}

// Reply is a decoded provider reply.
type Reply struct {
	Schema Schema
	Text   string
}

const (
	statusCompleted   = "completed"
	itemTypeMessage   = "message"
	roleAssistant     = "assistant"
	contentOutputText = "output_text"
)

type responsesItem struct {
	Type    string            `json:"type"`
	Role    string            `json:"role"`
	Content []json.RawMessage `json:"content"`
}

type responsesContent struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

// ParseResponse decodes a provider reply body.
//
// A body whose status is "completed" is decoded as a responses-API reply
// and must carry an assistant message with an output_text entry; it never
// falls back to the chat-completions shape. Any other body is decoded as a
// chat completion, taking the first choice's message content verbatim.
func ParseResponse(body []byte) (Reply, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		var probe any
		if json.Unmarshal(body, &probe) == nil {
			return Reply{}, &tlgate.ParseError{Message: "unknown response format"}
		}
		return Reply{}, &tlgate.ParseError{Message: "invalid JSON", Cause: err}
	}

	var status string
	if raw, ok := doc["status"]; ok && json.Unmarshal(raw, &status) == nil && status == statusCompleted {
		text, ok := outputText(doc["output"])
		if !ok {
			return Reply{}, &tlgate.ParseError{Message: "schema A missing output text"}
		}
		return Reply{Schema: SchemaResponses, Text: text}, nil
	}

	if text, ok := choiceContent(doc["choices"]); ok {
		return Reply{Schema: SchemaChatCompletions, Text: text}, nil
	}

	return Reply{}, &tlgate.ParseError{Message: "unknown response format"}
}

type choiceProbe struct {
	Message struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// choiceContent returns the message content of the first choice of a chat
// completion. The content must be present and a JSON string.
func choiceContent(raw json.RawMessage) (string, bool) {
	var choices []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &choices) != nil || len(choices) == 0 {
		return "", false
	}

	var probe choiceProbe
	if json.Unmarshal(choices[0], &probe) != nil {
		return "", false
	}
	content := bytes.TrimSpace(probe.Message.Content)
	if len(content) == 0 || content[0] != '"' {
		return "", false
	}

	var choice openai.ChatCompletionChoice
	if json.Unmarshal(choices[0], &choice) != nil {
		return "", false
	}
	return choice.Message.Content, true
}

// outputText walks the output items of a responses-API reply. Items and
// entries of an unexpected shape are skipped.
func outputText(raw json.RawMessage) (string, bool) {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return "", false
	}

	for _, rawItem := range items {
		var item responsesItem
		if json.Unmarshal(rawItem, &item) != nil {
			continue
		}
		if item.Type != itemTypeMessage || item.Role != roleAssistant {
			continue
		}
		for _, rawContent := range item.Content {
			var content responsesContent
			if json.Unmarshal(rawContent, &content) != nil {
				continue
			}
			if content.Type == contentOutputText && content.Text != nil {
				return *content.Text, true
			}
		}
	}
	return "", false
}

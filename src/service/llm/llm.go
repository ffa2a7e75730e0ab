// Package llm defines the language-model provider interface used by the
// semantic analyzer and the fix generator, with OpenAI-compatible and
// Gemini implementations.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoProvider is returned when no backend is configured
var ErrNoProvider = errors.New("no LLM provider configured: set llm.api_key, OPENAI_API_KEY or GEMINI_API_KEY")

// Request is a single prompt to a provider
type Request struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
	JSON        bool // ask for a JSON object response
}

// Usage reports token consumption for one completion
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a provider completion
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Provider generates text from a prompt
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")

// ExtractJSON pulls a JSON document out of a model response. Bare JSON,
// fenced ```json blocks and JSON surrounded by prose are accepted.
func ExtractJSON(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed, true
	}

	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		if body := strings.TrimSpace(m[1]); body != "" {
			return body, true
		}
	}

	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return "", false
	}
	closer := "}"
	if trimmed[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(trimmed, closer)
	if end <= start {
		return "", false
	}
	return trimmed[start : end+1], true
}

// ExtractList returns the raw entries of a list found in a model response,
// either a bare JSON list or the list under key in a JSON object. Entries
// are left undecoded so that one malformed entry does not lose the rest.
func ExtractList(text, key string) ([]json.RawMessage, error) {
	doc, ok := ExtractJSON(text)
	if !ok {
		return nil, errors.New("no JSON document in response")
	}

	var entries []json.RawMessage
	if strings.HasPrefix(doc, "[") {
		if err := json.Unmarshal([]byte(doc), &entries); err != nil {
			return nil, fmt.Errorf("decoding %s list: %w", key, err)
		}
		return entries, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &wrapper); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	raw, ok := wrapper[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding %s list: %w", key, err)
	}
	return entries, nil
}

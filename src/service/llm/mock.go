package llm

import (
	"context"
	"sync"
)

// MockProvider returns canned responses, for tests
type MockProvider struct {
	Responses []string // returned in order; the last one repeats
	Err       error

	mu       sync.Mutex
	requests []Request
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	return "mock"
}

// Complete records the request and returns the next canned response
func (m *MockProvider) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.Err != nil {
		return nil, m.Err
	}

	text := ""
	if n := len(m.Responses); n > 0 {
		idx := len(m.requests) - 1
		if idx >= n {
			idx = n - 1
		}
		text = m.Responses[idx]
	}
	return &Response{
		Text:  text,
		Model: "mock",
		Usage: Usage{PromptTokens: len(req.Prompt) / 4, CompletionTokens: len(text) / 4, TotalTokens: (len(req.Prompt) + len(text)) / 4},
	}, nil
}

// Requests returns the requests received so far
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

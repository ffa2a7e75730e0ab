package llm

import (
	"context"
	"strings"
	"sync"
)

// price per 1K tokens in USD
type price struct {
	prompt     float64
	completion float64
}

var modelPrices = map[string]price{
	"gpt-4o-mini":      {prompt: 0.00015, completion: 0.0006},
	"gpt-4o":           {prompt: 0.0025, completion: 0.01},
	"gpt-4-turbo":      {prompt: 0.01, completion: 0.03},
	"gpt-3.5-turbo":    {prompt: 0.0005, completion: 0.0015},
	"gemini-2.0-flash": {prompt: 0.0001, completion: 0.0004},
	"gemini-1.5-pro":   {prompt: 0.00125, completion: 0.005},
}

// EstimateCost returns the approximate USD cost of a completion. Unknown
// models match on the longest known prefix and cost zero otherwise.
func EstimateCost(model string, u Usage) float64 {
	p, ok := modelPrices[model]
	if !ok {
		best := ""
		for name, candidate := range modelPrices {
			if strings.HasPrefix(model, name) && len(name) > len(best) {
				best, p = name, candidate
			}
		}
		if best == "" {
			return 0
		}
	}
	return float64(u.PromptTokens)/1000*p.prompt + float64(u.CompletionTokens)/1000*p.completion
}

// UsageStats accumulates usage across requests
type UsageStats struct {
	Requests         int     `json:"requests"`
	Failures         int     `json:"failures"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost_usd"`
}

// Metered wraps a provider and records token usage for every call
type Metered struct {
	Provider

	mu    sync.Mutex
	stats UsageStats
}

// NewMetered creates a new metered provider
func NewMetered(p Provider) *Metered {
	return &Metered{Provider: p}
}

// Complete forwards to the wrapped provider and records the outcome
func (m *Metered) Complete(ctx context.Context, req Request) (*Response, error) {
	resp, err := m.Provider.Complete(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Requests++
	if err != nil {
		m.stats.Failures++
		return nil, err
	}
	m.stats.PromptTokens += resp.Usage.PromptTokens
	m.stats.CompletionTokens += resp.Usage.CompletionTokens
	m.stats.TotalTokens += resp.Usage.TotalTokens
	m.stats.EstimatedCost += EstimateCost(resp.Model, resp.Usage)
	return resp, nil
}

// Stats returns a snapshot of the accumulated usage
func (m *Metered) Stats() UsageStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

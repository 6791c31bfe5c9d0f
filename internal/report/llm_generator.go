package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/aquasafe/internal/llm"
)

// Config tunes report requests.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Generate call including retries. Zero means no
	// extra bound beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
	}
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates an LLMGenerator. A nil logger uses slog.Default.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *LLMGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMGenerator{provider: provider, config: cfg, logger: logger}
}

// Generate asks the model for a report on input. Every failure is returned
// as a *GenerationError.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*Report, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeReport)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      Schema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		g.logger.Warn("report generation failed", "decision", input.Decision, "error", err)
		return nil, &GenerationError{Err: err}
	}

	var r Report
	if err := json.Unmarshal(resp.Content, &r); err != nil {
		return nil, &GenerationError{Err: fmt.Errorf("parse report: %w", err)}
	}
	if r.Classification.Grade == "" {
		return nil, &GenerationError{Err: fmt.Errorf("report has no classification")}
	}

	g.logger.Debug("report generated",
		"grade", r.Classification.Grade,
		"issues", len(r.KeyIssues),
		"treatments", len(r.Treatments),
	)
	return &r, nil
}

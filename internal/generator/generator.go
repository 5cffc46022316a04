// Package generator wraps the Gemini API behind a single-call text
// generation contract with a hard per-request timeout.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// System defines the generation contract: one prompt in, trimmed text out.
// No retries are performed; a single failure surfaces immediately.
type System interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a generation client from the given configuration. A missing
// API key is logged as a warning rather than failing startup; the first
// generation call returns ErrNotConfigured instead.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "generator")

	c := &client{
		model:   cfg.Model,
		timeout: cfg.TimeoutDuration(),
		logger:  logger,
	}

	if cfg.APIKey == "" {
		logger.Warn("generator API key missing; generation calls will fail")
		return c, nil
	}

	gc, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.genai = gc
	logger.Info("generator ready", "model", cfg.Model)
	return c, nil
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.genai == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.genai.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", ErrInvalidResponse
	}

	return text, nil
}

// extractText pulls the concatenated text parts from the first candidate.
// Returns empty when the response shape carries no usable text.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Text())
}

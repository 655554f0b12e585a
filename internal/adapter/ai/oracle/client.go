// Package oracle implements the external answer evaluator on top of an
// OpenAI-compatible chat completions API.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/config"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

const systemPrompt = `You score answers to job application questions.
Reply with a single JSON object and nothing else:
{"score": <number between 0 and the maximum>, "confidence": <number between 0 and 1>, "reasoning": "<one sentence>"}`

// Client implements domain.Evaluator.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	hc      *http.Client
}

// New constructs a client from configuration. Requests carry no timeout of
// their own; the caller's context bounds them.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.OracleBaseURL, "/"),
		apiKey:  cfg.OracleAPIKey,
		model:   cfg.OracleModel,
		timeout: cfg.OracleTimeoutBounded(),
		hc:      &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func (c *Client) backoff() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond
	expo.MaxInterval = 500 * time.Millisecond
	expo.Multiplier = 2
	expo.MaxElapsedTime = c.timeout
	return expo
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Evaluate asks the model to score one answer. 429 and 5xx responses are
// retried until the context ends; other 4xx responses fail immediately.
func (c *Client) Evaluate(ctx domain.Context, req domain.EvaluationRequest) (domain.EvaluationResult, error) {
	if c.apiKey == "" {
		return domain.EvaluationResult{}, fmt.Errorf("%w: ORACLE_API_KEY missing", domain.ErrInvalidArgument)
	}
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   200,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
	})
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("op=oracle.encode: %w", err)
	}

	lg := observability.LoggerFromContext(ctx)
	endpoint := c.baseURL + "/chat/completions"
	rateLimited := false
	var out chatResponse
	op := func() error {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Authorization", "Bearer "+c.apiKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			rateLimited = true
			lg.Debug("oracle rate limited", slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("oracle status %d", resp.StatusCode)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("oracle status %d: %s", resp.StatusCode, snippet(b, 256)))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return fmt.Errorf("oracle status %d", resp.StatusCode)
		}
		rateLimited = false
		if err := json.Unmarshal(b, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: decode chat response: %v", domain.ErrSchemaInvalid, err))
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.backoff(), ctx)); err != nil {
		switch {
		case rateLimited:
			return domain.EvaluationResult{}, fmt.Errorf("op=oracle.evaluate: %w: %v", domain.ErrUpstreamRateLimit, err)
		case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
			return domain.EvaluationResult{}, fmt.Errorf("op=oracle.evaluate: %w: %v", domain.ErrUpstreamTimeout, err)
		default:
			return domain.EvaluationResult{}, fmt.Errorf("op=oracle.evaluate: %w", err)
		}
	}
	if len(out.Choices) == 0 {
		return domain.EvaluationResult{}, fmt.Errorf("op=oracle.evaluate: %w: empty choices", domain.ErrSchemaInvalid)
	}
	res, err := parseVerdict(out.Choices[0].Message.Content)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("op=oracle.evaluate: %w", err)
	}
	return res, nil
}

func userPrompt(req domain.EvaluationRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question (%s): %s\n", req.Type, req.QuestionText)
	if len(req.Options) > 0 {
		sb.WriteString("Options and points:\n")
		for _, o := range req.Options {
			fmt.Fprintf(&sb, "- %s: %g\n", o.Text, o.Points)
		}
	}
	if req.ContextHint != "" {
		fmt.Fprintf(&sb, "Context: %s\n", req.ContextHint)
	}
	fmt.Fprintf(&sb, "Maximum points: %g\n", req.MaxPoints)
	fmt.Fprintf(&sb, "Answer: %s\n", req.Answer)
	return sb.String()
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

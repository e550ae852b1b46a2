package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/observability"
)

// ErrUnavailable is returned whenever a suggestion cannot be produced,
// regardless of the underlying cause. Callers surface it as a degraded
// mode, never as a hard failure.
var ErrUnavailable = errors.New("classification unavailable")

// Classifier proposes a category and priority for a ticket description.
type Classifier interface {
	Classify(ctx context.Context, description string) (*domain.Suggestion, error)
}

const classifyPrompt = `You are an expert support ticket classifier for a software company.
Analyze the customer's support ticket description and classify it into exactly one category and one priority level.

CATEGORIES (pick exactly one):
- "billing": Payment issues, invoices, charges, refunds, subscription plans, pricing questions
- "technical": Bugs, errors, crashes, performance issues, feature not working, integration problems
- "account": Login issues, password resets, account access, profile changes, permissions, account deletion
- "general": General inquiries, feature requests, feedback, documentation questions, anything that doesn't fit above

PRIORITY LEVELS (pick exactly one):
- "low": General questions, minor cosmetic issues, feature requests, non-urgent inquiries
- "medium": Issues affecting workflow but with workarounds available, moderate impact
- "high": Significant functionality broken, no workaround, affecting business operations
- "critical": Complete service outage, data loss risk, security vulnerability, widespread impact

Respond with a JSON object containing exactly these two fields:
{
  "suggested_category": "<one of: billing, technical, account, general>",
  "suggested_priority": "<one of: low, medium, high, critical>"
}

Customer's ticket description:
"""
%s
"""
`

// Config carries the Gemini connection parameters. All values are
// fixed at construction; the gateway never reads the environment.
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int
}

// Gemini implements Classifier against the Gemini generateContent API.
type Gemini struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewGemini constructs the gateway. An empty APIKey is a valid state:
// every Classify call then fails fast without touching the network.
func NewGemini(cfg Config, logger *zap.Logger, metrics *observability.Metrics) *Gemini {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 150
	}
	return &Gemini{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Gemini generateContent wire format.
type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

type suggestionPayload struct {
	SuggestedCategory string `json:"suggested_category"`
	SuggestedPriority string `json:"suggested_priority"`
}

// Classify sends one classification request and validates the model's
// answer against the closed enums. Ticket text never reaches the logs.
func (g *Gemini) Classify(ctx context.Context, description string) (*domain.Suggestion, error) {
	if g.cfg.APIKey == "" {
		g.logger.Warn("classification skipped: no API key configured")
		return nil, ErrUnavailable
	}

	wireRequest := generateRequest{
		Contents: []generateContent{{
			Parts: []generatePart{{Text: fmt.Sprintf(classifyPrompt, description)}},
		}},
		GenerationConfig: generationConfig{
			Temperature:      g.cfg.Temperature,
			MaxOutputTokens:  g.cfg.MaxOutputTokens,
			ResponseMIMEType: "application/json",
		},
	}

	body, err := json.Marshal(wireRequest)
	if err != nil {
		return nil, g.fail("marshal request", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model)

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, g.fail("build request", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("x-goog-api-key", g.cfg.APIKey)

	httpResponse, err := g.httpClient.Do(httpRequest)
	if err != nil {
		return nil, g.fail("send request", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))
		g.logger.Warn("classification request rejected",
			zap.Int("status", httpResponse.StatusCode),
			zap.String("body", string(snippet)))
		g.metrics.RecordClassification("error")
		return nil, ErrUnavailable
	}

	var wireResponse generateResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wireResponse); err != nil {
		return nil, g.fail("decode response", err)
	}

	text := candidateText(wireResponse)
	if text == "" {
		return nil, g.fail("empty response", errors.New("no candidate text"))
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		return nil, g.fail("parse suggestion", err)
	}

	category, err := domain.ParseCategory(payload.SuggestedCategory)
	if err != nil {
		return nil, g.fail("validate suggestion", err)
	}
	priority, err := domain.ParsePriority(payload.SuggestedPriority)
	if err != nil {
		return nil, g.fail("validate suggestion", err)
	}

	g.metrics.RecordClassification("ok")
	return &domain.Suggestion{Category: category, Priority: priority}, nil
}

func (g *Gemini) fail(stage string, err error) error {
	g.logger.Warn("classification failed", zap.String("stage", stage), zap.Error(err))
	g.metrics.RecordClassification("error")
	return ErrUnavailable
}

func candidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

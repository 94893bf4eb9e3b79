package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/hal9000y/compose-mcp/internal/tone"
)

// ErrEmptyContent is returned when there is no text to analyze.
var ErrEmptyContent = errors.New("content is required")

type AnalyzeToneRequest struct {
	Content string `json:"content" jsonschema:"the email draft to analyze"`
}

type AnalyzeToneResponse struct {
	Analysis       tone.Result `json:"analysis" jsonschema:"the tone analysis"`
	Mode           tone.Mode   `json:"mode" jsonschema:"remote, local or rate_limited"`
	Notice         string      `json:"notice,omitempty" jsonschema:"why a local analysis was returned"`
	CallsRemaining int         `json:"calls_remaining" jsonschema:"model calls left for this draft"`
	MaxCalls       int         `json:"max_calls" jsonschema:"model calls allowed per draft"`
}

type ResetToneBudgetRequest struct{}

type ResetToneBudgetResponse struct {
	CallsRemaining int `json:"calls_remaining" jsonschema:"model calls left for this draft"`
}

type toneAnalyzer interface {
	Analyze(ctx context.Context, budget *tone.Budget, text string) tone.Analysis
}

func NewAnalyzeTone(analyzer toneAnalyzer, budgets *tone.Budgets, rec recorder, logger *zap.Logger) *AnalyzeTone {
	return &AnalyzeTone{
		analyzer: analyzer,
		budgets:  budgets,
		rec:      rec,
		logger:   logger,
	}
}

type AnalyzeTone struct {
	analyzer toneAnalyzer
	budgets  *tone.Budgets
	rec      recorder
	logger   *zap.Logger
}

func (t *AnalyzeTone) AnalyzeTone(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AnalyzeToneRequest,
) (*mcp.CallToolResult, AnalyzeToneResponse, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, AnalyzeToneResponse{}, ErrEmptyContent
	}

	session := sessionKey(req)
	budget := t.budgets.For(session)
	if budget.Track(input.Content) {
		t.logger.Debug("tone budget reset for new draft", zap.String("session", session))
	}

	analysis := t.analyzer.Analyze(ctx, budget, input.Content)
	t.rec.ToneAnalysis(string(analysis.Mode))

	return nil, AnalyzeToneResponse{
		Analysis:       analysis.Result,
		Mode:           analysis.Mode,
		Notice:         notice(analysis, budget.Max()),
		CallsRemaining: budget.Remaining(),
		MaxCalls:       budget.Max(),
	}, nil
}

func (t *AnalyzeTone) ResetToneBudget(
	_ context.Context,
	req *mcp.CallToolRequest,
	_ ResetToneBudgetRequest,
) (*mcp.CallToolResult, ResetToneBudgetResponse, error) {
	budget := t.budgets.For(sessionKey(req))
	budget.Reset()

	return nil, ResetToneBudgetResponse{CallsRemaining: budget.Remaining()}, nil
}

func notice(a tone.Analysis, maxCalls int) string {
	switch {
	case a.Mode == tone.ModeRemote:
		return ""
	case errors.Is(a.Reason, tone.ErrBudgetExhausted):
		return fmt.Sprintf("Rate limit reached (%d calls per email), showing local analysis. "+
			"Edit the draft or call reset_tone_budget to use the model again", maxCalls)
	case errors.Is(a.Reason, tone.ErrRemoteUnconfigured):
		return "No model configured, showing local analysis"
	default:
		return "Model analysis failed, showing local analysis"
	}
}

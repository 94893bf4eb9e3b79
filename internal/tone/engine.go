package tone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hal9000y/compose-mcp/internal/tokens"
)

// Remote produces a structured tone analysis for text. Timeouts and
// transport failures surface as errors.
type Remote interface {
	AnalyzeTone(ctx context.Context, text string) (RemoteReply, error)
}

// Mode tells how an Analysis was produced.
type Mode string

const (
	// ModeRemote means the remote model answered and its reply was valid.
	ModeRemote Mode = "remote"
	// ModeLocal means the lexical analyzer served the call after a remote failure
	// or because no remote model is configured.
	ModeLocal Mode = "local"
	// ModeRateLimited means the session budget was exhausted.
	ModeRateLimited Mode = "rate_limited"
)

// Analysis wraps a Result with the path that produced it.
type Analysis struct {
	Result Result
	Mode   Mode
	// Reason explains a non-remote Mode; nil for ModeRemote.
	Reason error
}

// Engine runs budgeted remote analyses with local fallback.
type Engine struct {
	remote Remote
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil remote serves every call locally.
func NewEngine(remote Remote, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{remote: remote, logger: logger}
}

// Analyze assesses text, spending one attempt from budget when a remote call
// is made. It never fails: every error path degrades to a local Result.
func (e *Engine) Analyze(ctx context.Context, budget *Budget, text string) Analysis {
	if e.remote == nil {
		return e.local(text, ModeLocal, ErrRemoteUnconfigured)
	}

	if !budget.Acquire() {
		return e.local(text, ModeRateLimited, ErrBudgetExhausted)
	}

	reply, err := e.remote.AnalyzeTone(ctx, text)
	if err != nil {
		return e.local(text, ModeLocal, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err))
	}

	result, err := ParseRemote(reply.Text)
	if err != nil {
		return e.local(text, ModeLocal, err)
	}

	result.InputTokens = tokens.Pick(reply.InputTokens, tokens.Estimate(text))
	result.OutputTokens = tokens.Pick(reply.OutputTokens, estimateSerialized(result))

	return Analysis{Result: result, Mode: ModeRemote}
}

func (e *Engine) local(text string, mode Mode, reason error) Analysis {
	if !errors.Is(reason, ErrRemoteUnconfigured) {
		e.logger.Warn("tone analysis served locally",
			zap.String("mode", string(mode)),
			zap.Error(reason),
		)
	}

	return Analysis{Result: AnalyzeLocal(text), Mode: mode, Reason: reason}
}

// estimateSerialized estimates output tokens from the serialized analysis.
func estimateSerialized(r Result) int {
	b, err := json.Marshal(struct {
		Tone        string    `json:"tone"`
		Formality   Formality `json:"formality"`
		Sentiment   Sentiment `json:"sentiment"`
		Clarity     Clarity   `json:"clarity"`
		Confidence  float64   `json:"confidence"`
		Suggestions []string  `json:"suggestions"`
	}{r.Tone, r.Formality, r.Sentiment, r.Clarity, r.Confidence, r.Suggestions})
	if err != nil {
		return 0
	}
	return tokens.Estimate(string(b))
}

package tone

import (
	"fmt"
	"strings"

	"github.com/hal9000y/compose-mcp/internal/format"
)

// RemoteReply is the raw answer of a remote tone model.
// Token counts are zero when the provider did not report them.
type RemoteReply struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

type remotePayload struct {
	Tone        string   `json:"tone"`
	Formality   string   `json:"formality"`
	Sentiment   string   `json:"sentiment"`
	Clarity     string   `json:"clarity"`
	Confidence  *float64 `json:"confidence"`
	Suggestions []string `json:"suggestions"`
}

// ParseRemote validates a model reply and converts it to a Result without
// token counts. Every failure wraps ErrMalformedResponse.
func ParseRemote(text string) (Result, error) {
	raw, err := format.ExtractJSONObject(text)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	var p remotePayload
	if err := format.DecodeJSON(raw, &p); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	formality, ok := parseFormality(normalize(p.Formality))
	if !ok {
		return Result{}, fmt.Errorf("%w: formality %q", ErrMalformedResponse, p.Formality)
	}
	sentiment, ok := parseSentiment(normalize(p.Sentiment))
	if !ok {
		return Result{}, fmt.Errorf("%w: sentiment %q", ErrMalformedResponse, p.Sentiment)
	}
	clarity, ok := parseClarity(normalize(p.Clarity))
	if !ok {
		return Result{}, fmt.Errorf("%w: clarity %q", ErrMalformedResponse, p.Clarity)
	}

	confidence := DefaultRemoteConfidence
	if p.Confidence != nil {
		confidence = *p.Confidence
		if confidence < 0 || confidence > 1 {
			return Result{}, fmt.Errorf("%w: confidence %v out of range", ErrMalformedResponse, confidence)
		}
	}

	label := strings.TrimSpace(p.Tone)
	if label == "" {
		label = Label(formality, sentiment)
	}

	suggestions := make([]string, 0, len(p.Suggestions))
	for _, s := range p.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, suggestGenericCheck)
	}

	return Result{
		Tone:        label,
		Formality:   formality,
		Sentiment:   sentiment,
		Clarity:     clarity,
		Confidence:  confidence,
		Suggestions: suggestions,
	}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

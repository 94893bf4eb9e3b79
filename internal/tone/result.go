// Package tone analyzes the register and sentiment of email text.
//
// Analysis is delegated to a remote model within a per-session call budget
// and falls back to a deterministic lexical analyzer whenever the model is
// exhausted, unreachable or returns something unusable.
package tone

// Formality classifies the register of a text.
type Formality string

const (
	FormalityFormal  Formality = "formal"
	FormalityNeutral Formality = "neutral"
	FormalityCasual  Formality = "casual"
)

// Sentiment classifies the emotional polarity of a text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Clarity classifies readability from sentence length.
type Clarity string

const (
	ClarityClear         Clarity = "clear"
	ClaritySomewhatClear Clarity = "somewhat clear"
	ClarityUnclear       Clarity = "unclear"
)

const (
	// LocalConfidence is reported by every lexical analysis.
	LocalConfidence = 0.75
	// LocalOutputTokens is the output cost charged for a lexical analysis.
	LocalOutputTokens = 50
	// DefaultRemoteConfidence is used when the model omits a confidence.
	DefaultRemoteConfidence = 0.9
)

const (
	suggestSoften       = "Consider softening the negative tone while maintaining formality"
	suggestConcise      = "Your casual email is quite long. Consider being more concise"
	suggestShorter      = "Try using shorter, clearer sentences to improve readability"
	suggestBreakUp      = "Break up very long sentences to improve clarity"
	suggestAffirmation  = "Your email has a good tone and clarity"
	suggestGenericCheck = "Consider reviewing your email for clarity and tone"
)

// Result is one tone assessment. It is built fresh per call and never mutated.
type Result struct {
	Tone         string    `json:"tone" jsonschema:"overall tone label"`
	Formality    Formality `json:"formality" jsonschema:"formal, neutral or casual"`
	Sentiment    Sentiment `json:"sentiment" jsonschema:"positive, neutral or negative"`
	Clarity      Clarity   `json:"clarity" jsonschema:"clear, somewhat clear or unclear"`
	Confidence   float64   `json:"confidence" jsonschema:"confidence between 0 and 1"`
	Suggestions  []string  `json:"suggestions" jsonschema:"suggestions to improve the tone"`
	InputTokens  int       `json:"input_tokens" jsonschema:"input tokens spent"`
	OutputTokens int       `json:"output_tokens" jsonschema:"output tokens spent"`
}

var toneLabels = map[Formality]map[Sentiment]string{
	FormalityFormal: {
		SentimentPositive: "professional positive",
		SentimentNegative: "formal critical",
	},
	FormalityCasual: {
		SentimentPositive: "friendly",
		SentimentNegative: "casual concerned",
	},
}

// Label maps a (formality, sentiment) pair to its tone label, "neutral" when unmapped.
func Label(f Formality, s Sentiment) string {
	if label, ok := toneLabels[f][s]; ok {
		return label
	}
	return "neutral"
}

func parseFormality(s string) (Formality, bool) {
	switch f := Formality(s); f {
	case FormalityFormal, FormalityNeutral, FormalityCasual:
		return f, true
	}
	return "", false
}

func parseSentiment(s string) (Sentiment, bool) {
	switch v := Sentiment(s); v {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return v, true
	}
	return "", false
}

func parseClarity(s string) (Clarity, bool) {
	switch c := Clarity(s); c {
	case ClarityClear, ClaritySomewhatClear, ClarityUnclear:
		return c, true
	}
	return "", false
}

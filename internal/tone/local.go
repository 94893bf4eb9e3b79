package tone

import (
	"strings"

	"github.com/hal9000y/compose-mcp/internal/tokens"
)

var (
	formalMarkers   = []string{"therefore", "furthermore", "consequently", "regards", "sincerely", "request", "inquire"}
	casualMarkers   = []string{"hey", "thanks", "cool", "awesome", "btw", "yeah", "sure"}
	negativeMarkers = []string{"unfortunately", "regret", "sorry", "issue", "problem", "concern", "disappointed"}
	positiveMarkers = []string{"pleased", "happy", "delighted", "thank", "appreciate", "excited", "opportunity"}
)

const (
	clearBelowWords   = 15
	unclearAboveWords = 25
	longSentenceWords = 30
	longCasualChars   = 500
)

// AnalyzeLocal assesses text with fixed marker lists and sentence statistics.
// It performs no I/O and returns identical results for identical input.
func AnalyzeLocal(text string) Result {
	lower := strings.ToLower(text)

	formality := compare(countMarkers(lower, formalMarkers), countMarkers(lower, casualMarkers),
		FormalityFormal, FormalityCasual, FormalityNeutral)
	sentiment := compare(countMarkers(lower, positiveMarkers), countMarkers(lower, negativeMarkers),
		SentimentPositive, SentimentNegative, SentimentNeutral)

	wordCounts := sentenceWordCounts(text)
	clarity := clarityOf(average(wordCounts))

	var suggestions []string
	if formality == FormalityFormal && sentiment == SentimentNegative {
		suggestions = append(suggestions, suggestSoften)
	}
	if formality == FormalityCasual && len([]rune(text)) > longCasualChars {
		suggestions = append(suggestions, suggestConcise)
	}
	if clarity == ClarityUnclear {
		suggestions = append(suggestions, suggestShorter)
	}
	for _, n := range wordCounts {
		if n > longSentenceWords {
			suggestions = append(suggestions, suggestBreakUp)
			break
		}
	}
	if len(suggestions) == 0 {
		if clarity == ClarityClear && sentiment == SentimentPositive {
			suggestions = append(suggestions, suggestAffirmation)
		} else {
			suggestions = append(suggestions, suggestGenericCheck)
		}
	}

	return Result{
		Tone:         Label(formality, sentiment),
		Formality:    formality,
		Sentiment:    sentiment,
		Clarity:      clarity,
		Confidence:   LocalConfidence,
		Suggestions:  suggestions,
		InputTokens:  tokens.Estimate(text),
		OutputTokens: LocalOutputTokens,
	}
}

// countMarkers counts distinct markers occurring as substrings of lower.
func countMarkers(lower string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(lower, m) {
			n++
		}
	}
	return n
}

func compare[T any](a, b int, aWins, bWins, tie T) T {
	switch {
	case a > b:
		return aWins
	case b > a:
		return bWins
	default:
		return tie
	}
}

// sentenceWordCounts splits text on runs of '.', '!' and '?' and counts
// whitespace-separated words in each non-blank sentence.
func sentenceWordCounts(text string) []int {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	counts := make([]int, 0, len(sentences))
	for _, s := range sentences {
		if n := len(strings.Fields(s)); n > 0 {
			counts = append(counts, n)
		}
	}
	return counts
}

func average(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sum := 0
	for _, n := range counts {
		sum += n
	}
	return float64(sum) / float64(len(counts))
}

func clarityOf(avgWords float64) Clarity {
	switch {
	case avgWords < clearBelowWords:
		return ClarityClear
	case avgWords > unclearAboveWords:
		return ClarityUnclear
	default:
		return ClaritySomewhatClear
	}
}

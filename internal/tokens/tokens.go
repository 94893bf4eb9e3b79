// Package tokens holds token accounting shared by the model-backed components.
package tokens

import "unicode/utf8"

// Usage reports input and output token counts for one model round trip.
type Usage struct {
	InputTokens  int `json:"input_tokens" jsonschema:"prompt tokens"`
	OutputTokens int `json:"output_tokens" jsonschema:"completion tokens"`
	TotalTokens  int `json:"total_tokens" jsonschema:"input plus output tokens"`
}

// NewUsage builds a Usage with the total filled in.
func NewUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// Estimate approximates the token count of s as ceil(chars/4).
func Estimate(s string) int {
	n := utf8.RuneCountInString(s)
	return (n + 3) / 4
}

// Pick returns reported when the provider supplied a positive count, otherwise estimated.
func Pick(reported, estimated int) int {
	if reported > 0 {
		return reported
	}
	return estimated
}

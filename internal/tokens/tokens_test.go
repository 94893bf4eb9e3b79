package tokens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hal9000y/compose-mcp/internal/tokens"
)

func TestEstimate(t *testing.T) {
	cases := []struct {
		in       string
		expected int
	}{
		{in: "", expected: 0},
		{in: "a", expected: 1},
		{in: "abcd", expected: 1},
		{in: "abcde", expected: 2},
		{in: "héllo wörld", expected: 3},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, tokens.Estimate(tc.in))
		})
	}
}

func TestPickAndUsage(t *testing.T) {
	assert.Equal(t, 12, tokens.Pick(12, 3))
	assert.Equal(t, 3, tokens.Pick(0, 3))

	u := tokens.NewUsage(10, 50)
	assert.Equal(t, tokens.Usage{InputTokens: 10, OutputTokens: 50, TotalTokens: 60}, u)
}

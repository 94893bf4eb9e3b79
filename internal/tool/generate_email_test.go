package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/compose-mcp/internal/compose"
	"github.com/hal9000y/compose-mcp/internal/tokens"
	"github.com/hal9000y/compose-mcp/internal/tool"
)

func TestGenerateEmail(t *testing.T) {
	req := compose.Request{
		Sender:   "Ann Lee",
		Receiver: "Bob Stone",
		Subject:  "Partnership",
		Tone:     "friendly",
	}

	cases := []struct {
		name             string
		model            compose.Model
		req              compose.Request
		expected         tool.GenerateEmailResponse
		expectedFallback []bool
		expectedErr      string
	}{
		{
			name: "model answer",
			model: &modelMock{GenerateEmailFunc: func(_ context.Context, prompt string) (compose.Reply, error) {
				if !assert.Contains(t, prompt, "Partnership") {
					return compose.Reply{}, errors.New("unexpected prompt")
				}
				return compose.Reply{Text: "Hi Bob,\n\nLet's team up.\n\nAnn", InputTokens: 120, OutputTokens: 15}, nil
			}},
			req: req,
			expected: tool.GenerateEmailResponse{
				Email: "Hi Bob,\n\nLet's team up.\n\nAnn",
				Usage: tokens.NewUsage(120, 15),
			},
			expectedFallback: []bool{false},
		},
		{
			name: "model failure",
			model: &modelMock{GenerateEmailFunc: func(context.Context, string) (compose.Reply, error) {
				return compose.Reply{}, errors.New("simulated outage")
			}},
			req: req,
			expected: tool.GenerateEmailResponse{
				Email:    compose.FallbackEmail(req),
				Fallback: true,
				Notice:   "The model could not write this email, a generic draft was returned",
			},
			expectedFallback: []bool{true},
		},
		{
			name:        "missing fields",
			model:       nil,
			req:         compose.Request{Sender: "Ann"},
			expectedErr: "missing required field: receiver, subject",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := newDeps(t, nil, tc.model)
			rec := deps.Metrics.(*recorderMock)
			session := connect(t, tool.NewServer(deps))

			result := call(t, session, "generate_email", tc.req)
			if tc.expectedErr != "" {
				require.True(t, result.IsError)
				assert.Contains(t, errorText(result), tc.expectedErr)
				assert.Empty(t, rec.generations)
				return
			}

			assert.Equal(t, tc.expected, decode[tool.GenerateEmailResponse](t, result))
			assert.Equal(t, tc.expectedFallback, rec.generations)
		})
	}
}

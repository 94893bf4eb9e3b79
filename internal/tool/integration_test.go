package tool_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/compose-mcp/internal/compose"
	"github.com/hal9000y/compose-mcp/internal/gservice"
	"github.com/hal9000y/compose-mcp/internal/tone"
	"github.com/hal9000y/compose-mcp/internal/tool"
)

func TestIntegrationGemini(t *testing.T) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			t.Logf("Warning: could not load env file %s: %v", envFile, err)
		}
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gemini, err := gservice.NewGemini(ctx, apiKey, os.Getenv("GEMINI_MODEL"))
	require.NoError(t, err)

	deps := newDeps(t, nil, nil)
	deps.Tone = tone.NewEngine(gemini, nil)
	deps.Generator = compose.NewGenerator(gemini, nil)
	session := connect(t, tool.NewServer(deps))

	analysis := decode[tool.AnalyzeToneResponse](t, call(t, session, "analyze_tone", tool.AnalyzeToneRequest{
		Content: "Dear team, I regret to inform you that the release is delayed. Please review the revised plan.",
	}))
	t.Logf("tone: %+v mode=%s notice=%q", analysis.Analysis, analysis.Mode, analysis.Notice)
	assert.Equal(t, tone.ModeRemote, analysis.Mode)
	assert.Positive(t, analysis.Analysis.InputTokens)
	assert.NotEmpty(t, analysis.Analysis.Suggestions)

	email := decode[tool.GenerateEmailResponse](t, call(t, session, "generate_email", compose.Request{
		Sender:   "Ann Lee",
		Receiver: "Bob Stone",
		Subject:  "Quarterly review meeting",
		Tone:     "formal",
		Length:   "short",
	}))
	t.Logf("email (%d tokens):\n%s", email.Usage.TotalTokens, email.Email)
	assert.False(t, email.Fallback, email.Notice)
	assert.NotEmpty(t, email.Email)
}

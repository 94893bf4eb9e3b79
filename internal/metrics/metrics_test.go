package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/compose-mcp/internal/metrics"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.ToneAnalysis("remote")
	r.ToneAnalysis("remote")
	r.ToneAnalysis("rate_limited")
	r.EmailGeneration(false)
	r.EmailGeneration(true)
	r.EmailGeneration(true)

	expected := `
# HELP compose_email_generations_total Email generations by outcome.
# TYPE compose_email_generations_total counter
compose_email_generations_total{outcome="fallback"} 2
compose_email_generations_total{outcome="model"} 1
# HELP compose_tone_analyses_total Tone analyses by the path that produced them.
# TYPE compose_tone_analyses_total counter
compose_tone_analyses_total{mode="rate_limited"} 1
compose_tone_analyses_total{mode="remote"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}

func TestRecorderWithoutRegistry(t *testing.T) {
	r := metrics.NewRecorder(nil)

	assert.NotPanics(t, func() { r.ToneAnalysis("local") })
}

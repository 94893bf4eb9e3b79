// Package metrics exposes Prometheus counters for the compose tools.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts tone analyses and email generations.
type Recorder struct {
	toneAnalyses     *prometheus.CounterVec
	emailGenerations *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		toneAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compose",
			Name:      "tone_analyses_total",
			Help:      "Tone analyses by the path that produced them.",
		}, []string{"mode"}),
		emailGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compose",
			Name:      "email_generations_total",
			Help:      "Email generations by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(r.toneAnalyses, r.emailGenerations)
	}

	return r
}

// ToneAnalysis records one analysis served in mode.
func (r *Recorder) ToneAnalysis(mode string) {
	r.toneAnalyses.WithLabelValues(mode).Inc()
}

// EmailGeneration records one generation; fallback marks canned output.
func (r *Recorder) EmailGeneration(fallback bool) {
	outcome := "model"
	if fallback {
		outcome = "fallback"
	}
	r.emailGenerations.WithLabelValues(outcome).Inc()
}

// Package learning closes the loop on detection quality: it records how
// resolved cases actually turned out and distills per-category insights and
// overall accuracy metrics from the history. Everything lives in memory for
// the life of the recorder.
package learning

import (
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

// Minimum history before any insight is worth generating, and the minimum
// cases a single category needs to be analyzed on its own.
const (
	minCaseHistory   = 10
	minCategoryCases = 3
)

// Outcome is the recorded result of one resolved alert.
type Outcome struct {
	AlertID           string               `json:"alert_id"`
	Category          domain.AlertCategory `json:"category"`
	PredictedRecovery decimal.Decimal      `json:"predicted_recovery"`
	ActualRecovery    decimal.Decimal      `json:"actual_recovery"`
	Confidence        float64              `json:"confidence"`
	Accurate          bool                 `json:"accurate"`
	ResolutionDays    int                  `json:"resolution_days"`
}

// Insight is a per-category pattern distilled from the outcome history.
type Insight struct {
	ID                string               `json:"id"`
	Category          domain.AlertCategory `json:"category"`
	Description       string               `json:"description"`
	Occurrences       int                  `json:"occurrences"`
	SuccessRate       float64              `json:"success_rate"`
	AvgRecovery       decimal.Decimal      `json:"avg_recovery"`
	AvgResolutionDays float64              `json:"avg_resolution_days"`
}

// Metrics summarizes detection quality over the whole history.
type Metrics struct {
	ResolvedCases      int             `json:"resolved_cases"`
	PredictionAccuracy float64         `json:"prediction_accuracy"` // percent of accurate predictions
	TotalRecovered     decimal.Decimal `json:"total_recovered"`
	RecoveryAccuracy   float64         `json:"recovery_accuracy"` // actual vs predicted, percent
	Insights           int             `json:"insights"`
	AvgResolutionDays  float64         `json:"avg_resolution_days"`
}

// Recorder accumulates case outcomes. Safe for concurrent use.
type Recorder struct {
	logger *logrus.Logger

	mu       sync.Mutex
	outcomes []Outcome
	insights []Insight
}

// NewRecorder creates an outcome recorder.
func NewRecorder(logger *logrus.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// RecordOutcome adds one resolved case to the history.
func (r *Recorder) RecordOutcome(alert domain.Alert, actualRecovery decimal.Decimal, resolutionDays int, accurate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes = append(r.outcomes, Outcome{
		AlertID:           alert.ID,
		Category:          alert.Category,
		PredictedRecovery: alert.RecoveryEstimate,
		ActualRecovery:    actualRecovery,
		Confidence:        alert.Confidence,
		Accurate:          accurate,
		ResolutionDays:    resolutionDays,
	})

	r.logger.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"category": alert.Category,
		"accurate": accurate,
	}).Debug("Recorded case outcome")
}

// GenerateInsights analyzes the history and appends one insight per category
// with enough cases. Below the history minimum it returns nothing; categories
// are visited in declaration order so repeated generation is deterministic.
func (r *Recorder) GenerateInsights() []Insight {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.outcomes) < minCaseHistory {
		return nil
	}

	byCategory := make(map[domain.AlertCategory][]Outcome)
	for _, o := range r.outcomes {
		byCategory[o.Category] = append(byCategory[o.Category], o)
	}

	var generated []Insight
	for _, cat := range domain.AllCategories() {
		cases := byCategory[cat]
		if len(cases) < minCategoryCases {
			continue
		}

		accurate := 0
		total := decimal.Zero
		days := 0
		for _, c := range cases {
			if c.Accurate {
				accurate++
			}
			total = total.Add(c.ActualRecovery)
			days += c.ResolutionDays
		}

		insight := Insight{
			ID:                fmt.Sprintf("INS%04d", len(r.insights)+1),
			Category:          cat,
			Description:       fmt.Sprintf("Pattern analysis for %s alerts", cat),
			Occurrences:       len(cases),
			SuccessRate:       round3(float64(accurate) / float64(len(cases))),
			AvgRecovery:       total.Div(decimal.NewFromInt(int64(len(cases)))).Round(2),
			AvgResolutionDays: round1(float64(days) / float64(len(cases))),
		}
		r.insights = append(r.insights, insight)
		generated = append(generated, insight)
	}

	r.logger.WithField("insights", len(generated)).Info("Generated learning insights")
	return generated
}

// LearningMetrics computes overall accuracy over the recorded history. An
// empty history yields the zero value.
func (r *Recorder) LearningMetrics() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.outcomes) == 0 {
		return Metrics{TotalRecovered: decimal.Zero}
	}

	accurate := 0
	days := 0
	predicted := decimal.Zero
	actual := decimal.Zero
	for _, o := range r.outcomes {
		if o.Accurate {
			accurate++
		}
		days += o.ResolutionDays
		predicted = predicted.Add(o.PredictedRecovery)
		actual = actual.Add(o.ActualRecovery)
	}

	m := Metrics{
		ResolvedCases:      len(r.outcomes),
		PredictionAccuracy: round1(float64(accurate) / float64(len(r.outcomes)) * 100),
		TotalRecovered:     actual.Round(2),
		Insights:           len(r.insights),
		AvgResolutionDays:  round1(float64(days) / float64(len(r.outcomes))),
	}
	if predicted.IsPositive() {
		ratio, _ := actual.Div(predicted).Float64()
		m.RecoveryAccuracy = round1(ratio * 100)
	}
	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

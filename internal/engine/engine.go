// Package engine runs the rule catalog over a patient population and collects
// the firing rules into alerts. The engine is a stateless pure function of
// its inputs: given the same patients and the same ruleset it emits the same
// alerts in the same order (patient order x claim order x rule order), so
// independent runs can execute concurrently without coordination.
package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
	"github.com/cob-agent/internal/rules"
)

// Engine evaluates detection rules against claims. The priority thresholds
// are fixed at construction so every alert's high-priority flag is derived
// the moment the alert is created and the alert stays immutable afterwards.
type Engine struct {
	logger         *logrus.Logger
	highConfidence float64
	highRecovery   decimal.Decimal
}

// New creates a detection engine with the run's priority thresholds.
func New(logger *logrus.Logger, cfg domain.Config) *Engine {
	return &Engine{
		logger:         logger,
		highConfidence: cfg.HighPriorityConfidence,
		highRecovery:   decimal.NewFromFloat(cfg.HighPriorityRecovery),
	}
}

// Detect evaluates every rule against every claim of every patient. A claim
// matching no rule contributes nothing, which is an expected state rather
// than an error. A rule producing an estimate above the claim's billed
// amount or a confidence outside [0,1] is a rule-authoring bug and aborts
// the run with an InvariantViolationError.
func (e *Engine) Detect(patients []*domain.Patient, ruleset []rules.Rule) ([]domain.Alert, error) {
	alerts := make([]domain.Alert, 0)

	for _, p := range patients {
		for _, c := range p.Claims {
			for _, r := range ruleset {
				finding, fired := r.Evaluate(p, c)
				if !fired {
					continue
				}

				if finding.Recovery.GreaterThan(c.BilledAmount) {
					return nil, &domain.InvariantViolationError{
						RuleCode: r.Code,
						ClaimID:  c.ID,
						Detail: "recovery estimate " + finding.Recovery.StringFixed(2) +
							" exceeds billed amount " + c.BilledAmount.StringFixed(2),
					}
				}
				if finding.Confidence < 0 || finding.Confidence > 1 {
					return nil, &domain.InvariantViolationError{
						RuleCode: r.Code,
						ClaimID:  c.ID,
						Detail:   "confidence outside [0,1]",
					}
				}

				alert := domain.Alert{
					ID:                alertID(c.ID, r.Code),
					RuleCode:          r.Code,
					Category:          r.Category,
					Severity:          r.Severity,
					PatientID:         p.ID,
					ClaimID:           c.ID,
					Confidence:        finding.Confidence,
					RecoveryEstimate:  finding.Recovery,
					Description:       finding.Description,
					RecommendedAction: finding.RecommendedAction,
					HighPriority: finding.Confidence >= e.highConfidence &&
						finding.Recovery.GreaterThanOrEqual(e.highRecovery),
				}

				e.logger.WithFields(logrus.Fields{
					"rule":     r.Code,
					"claim_id": c.ID,
					"category": r.Category,
				}).Debug("Rule fired")

				alerts = append(alerts, alert)
			}
		}
	}

	e.logger.WithFields(logrus.Fields{
		"patients": len(patients),
		"alerts":   len(alerts),
	}).Info("Completed claim detection")

	return alerts, nil
}

// alertID derives a stable alert identifier from the (claim, rule) pair, so
// reruns of the same population produce identical IDs.
func alertID(claimID, ruleCode string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cob://alert/"+claimID+"/"+ruleCode)).String()
}

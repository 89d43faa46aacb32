// Package report assembles the immutable analysis result handed across the
// system boundary. Assembly is pure composition; every number in the report
// was computed upstream.
package report

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

// Assembler packages generator and aggregator output into one AnalysisReport.
type Assembler struct {
	logger *logrus.Logger
}

// NewAssembler creates a report assembler.
func NewAssembler(logger *logrus.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble bundles a run's population, alerts, and aggregate view into the
// final report. The run ID derives from the configuration, so identical runs
// carry identical IDs.
func (a *Assembler) Assemble(cfg domain.Config, patients []*domain.Patient, alerts []domain.Alert,
	view domain.AggregateView, risks []domain.ClaimRiskScore) *domain.AnalysisReport {

	claimCount := 0
	for _, p := range patients {
		claimCount += len(p.Claims)
	}

	r := &domain.AnalysisReport{
		RunID:      runID(cfg),
		Config:     cfg,
		Patients:   patients,
		ClaimCount: claimCount,
		Alerts:     alerts,
		Aggregate:  view,
		RiskScores: risks,
	}

	a.logger.WithFields(logrus.Fields{
		"run_id":   r.RunID,
		"patients": len(patients),
		"claims":   claimCount,
		"alerts":   len(alerts),
	}).Info("Assembled analysis report")

	return r
}

func runID(cfg domain.Config) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cob://run/"+cfg.Key())).String()
}

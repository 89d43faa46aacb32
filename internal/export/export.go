// Package export serializes analysis reports for downstream consumers: a CSV
// alert worklist for billing staff and a full JSON dump of the report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

var csvHeader = []string{
	"alert_id", "rule_code", "category", "severity", "patient_id", "claim_id",
	"confidence", "recovery_estimate", "high_priority", "description", "recommended_action",
}

// Exporter writes reports to external formats.
type Exporter struct {
	logger *logrus.Logger
}

// New creates an exporter.
func New(logger *logrus.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// WriteCSV writes the report's alerts as a CSV worklist, one row per alert in
// detection order.
func (e *Exporter) WriteCSV(w io.Writer, r *domain.AnalysisReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, alert := range r.Alerts {
		row := []string{
			alert.ID,
			alert.RuleCode,
			string(alert.Category),
			string(alert.Severity),
			alert.PatientID,
			alert.ClaimID,
			strconv.FormatFloat(alert.Confidence, 'f', 2, 64),
			alert.RecoveryEstimate.StringFixed(2),
			strconv.FormatBool(alert.HighPriority),
			alert.Description,
			alert.RecommendedAction,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for alert %s: %w", alert.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	e.logger.WithField("alerts", len(r.Alerts)).Info("Exported alert worklist CSV")
	return nil
}

// WriteJSON writes the complete report as indented JSON. Output is
// byte-stable for a given report: map keys are sorted and decimals render as
// fixed strings.
func (e *Exporter) WriteJSON(w io.Writer, r *domain.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report JSON: %w", err)
	}

	e.logger.WithField("run_id", r.RunID).Info("Exported report JSON")
	return nil
}

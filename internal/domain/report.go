package domain

import (
	"github.com/shopspring/decimal"
)

// RedFlagAccount is the per-patient rollup of everything detected on that
// patient's claims. Accounts with unusually high total recovery warrant
// manual review.
type RedFlagAccount struct {
	PatientID     string          `json:"patient_id"`
	PatientName   string          `json:"patient_name"`
	MRN           string          `json:"mrn"`
	AlertCount    int             `json:"alert_count"`
	TotalRecovery decimal.Decimal `json:"total_recovery"`
	TopCategory   AlertCategory   `json:"top_category"`
}

// ClaimRiskScore is a 0-100 composite of severity and confidence across all
// alerts on one claim.
type ClaimRiskScore struct {
	ClaimID string  `json:"claim_id"`
	Score   float64 `json:"score"`
}

// AggregateView is the Aggregator's output: summary statistics plus the two
// ranked views. CategoryCounts always contains every declared category, even
// at zero, and money totals are exact decimal sums.
type AggregateView struct {
	TotalAlerts        int                   `json:"total_alerts"`
	HighPriorityAlerts int                   `json:"high_priority_alerts"`
	CategoryCounts     map[AlertCategory]int `json:"category_counts"`
	TotalRecovery      decimal.Decimal       `json:"total_recovery"`
	TopAlerts          []Alert               `json:"top_alerts"`
	RedFlagAccounts    []RedFlagAccount      `json:"red_flag_accounts"`
}

// AnalysisReport is the single value exposed across the system boundary.
// It is immutable once assembled and owned solely by the caller that
// requested the run; it deliberately carries no timestamps so that identical
// inputs produce byte-identical reports.
type AnalysisReport struct {
	RunID      string           `json:"run_id"`
	Config     Config           `json:"config"`
	Patients   []*Patient       `json:"patients"`
	ClaimCount int              `json:"claim_count"`
	Alerts     []Alert          `json:"alerts"`
	Aggregate  AggregateView    `json:"aggregate"`
	RiskScores []ClaimRiskScore `json:"risk_scores"`
}

// PatientByID looks up a patient in the report's population.
func (r *AnalysisReport) PatientByID(id string) (*Patient, bool) {
	for _, p := range r.Patients {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ClaimByID looks up a claim across the report's population.
func (r *AnalysisReport) ClaimByID(id string) (*Claim, bool) {
	for _, p := range r.Patients {
		for _, c := range p.Claims {
			if c.ID == id {
				return c, true
			}
		}
	}
	return nil, false
}

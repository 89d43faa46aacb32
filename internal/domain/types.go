// Package domain contains core business entities and types for Coordination
// of Benefits (COB) analysis: determining which of multiple eligible payers
// should have been billed first for a claim, and flagging claims where the
// wrong payer was billed.
package domain

import (
	"github.com/shopspring/decimal"
)

// AlertCategory identifies the kind of COB irregularity a rule detects.
type AlertCategory string

const (
	MSP_VIOLATION                AlertCategory = "MSP_VIOLATION"
	WRONG_PRIMARY_ORDER          AlertCategory = "WRONG_PRIMARY_ORDER"
	MISSING_SECONDARY            AlertCategory = "MISSING_SECONDARY"
	DEPENDENT_AGE_OUT            AlertCategory = "DEPENDENT_AGE_OUT"
	AUTO_LIABILITY_PRIMARY       AlertCategory = "AUTO_LIABILITY_PRIMARY"
	WORKERS_COMP_PRIMARY         AlertCategory = "WORKERS_COMP_PRIMARY"
	COORDINATION_PERIOD_MISMATCH AlertCategory = "COORDINATION_PERIOD_MISMATCH"
	SECONDARY_NOT_BILLED         AlertCategory = "SECONDARY_NOT_BILLED"
)

// AllCategories returns every declared category in fixed order. Aggregate
// views key their per-category counts off this list so that categories with
// zero alerts are still present.
func AllCategories() []AlertCategory {
	return []AlertCategory{
		MSP_VIOLATION,
		WRONG_PRIMARY_ORDER,
		MISSING_SECONDARY,
		DEPENDENT_AGE_OUT,
		AUTO_LIABILITY_PRIMARY,
		WORKERS_COMP_PRIMARY,
		COORDINATION_PERIOD_MISMATCH,
		SECONDARY_NOT_BILLED,
	}
}

// IsValid reports whether the category is one of the declared COB categories.
func (c AlertCategory) IsValid() bool {
	switch c {
	case MSP_VIOLATION, WRONG_PRIMARY_ORDER, MISSING_SECONDARY, DEPENDENT_AGE_OUT,
		AUTO_LIABILITY_PRIMARY, WORKERS_COMP_PRIMARY, COORDINATION_PERIOD_MISMATCH,
		SECONDARY_NOT_BILLED:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c AlertCategory) String() string {
	return string(c)
}

// Severity represents the operational urgency of an alert.
type Severity string

const (
	HIGH   Severity = "HIGH"
	MEDIUM Severity = "MEDIUM"
	LOW    Severity = "LOW"
)

// IsValid validates the severity level.
func (s Severity) IsValid() bool {
	switch s {
	case HIGH, MEDIUM, LOW:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Weight returns the severity weight used by the per-claim risk score.
func (s Severity) Weight() float64 {
	switch s {
	case HIGH:
		return 10
	case MEDIUM:
		return 5
	case LOW:
		return 2
	default:
		return 0
	}
}

// InsuranceType classifies a coverage by payer kind. The type drives the COB
// ordering rules: auto and workers comp carriers are primary for accident and
// work injuries, group health is primary over Medicare for working patients.
type InsuranceType string

const (
	COMMERCIAL         InsuranceType = "COMMERCIAL"
	MEDICARE           InsuranceType = "MEDICARE"
	MEDICAID           InsuranceType = "MEDICAID"
	MEDICARE_ADVANTAGE InsuranceType = "MEDICARE_ADVANTAGE"
	AUTO_INSURANCE     InsuranceType = "AUTO_INSURANCE"
	WORKERS_COMP       InsuranceType = "WORKERS_COMP"
)

// IsValid validates the insurance type.
func (t InsuranceType) IsValid() bool {
	switch t {
	case COMMERCIAL, MEDICARE, MEDICAID, MEDICARE_ADVANTAGE, AUTO_INSURANCE, WORKERS_COMP:
		return true
	default:
		return false
	}
}

// IsHealthPlan reports whether the coverage is a health plan as opposed to a
// liability carrier (auto, workers comp).
func (t InsuranceType) IsHealthPlan() bool {
	switch t {
	case COMMERCIAL, MEDICARE, MEDICAID, MEDICARE_ADVANTAGE:
		return true
	default:
		return false
	}
}

// ClaimStatus represents the adjudication state of a claim.
type ClaimStatus string

const (
	PAID    ClaimStatus = "PAID"
	DENIED  ClaimStatus = "DENIED"
	PENDING ClaimStatus = "PENDING"
)

// IsValid validates the claim status.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case PAID, DENIED, PENDING:
		return true
	default:
		return false
	}
}

// DenialReason records why a payer denied a claim.
type DenialReason string

const (
	DENIAL_NONE                  DenialReason = ""
	DENIAL_MSP                   DenialReason = "MSP_VIOLATION"
	DENIAL_WRONG_PRIMARY         DenialReason = "WRONG_PRIMARY"
	DENIAL_DEPENDENT_ELIGIBILITY DenialReason = "DEPENDENT_ELIGIBILITY"
	DENIAL_AUTO_LIABILITY        DenialReason = "AUTO_LIABILITY"
	DENIAL_OTHER                 DenialReason = "OTHER"
)

// Insurance is one coverage on a patient's account. Day fields are offsets in
// days before the analysis run; the run itself is day zero. Offsets keep the
// generated population independent of the wall clock, which the byte-for-byte
// reproducibility contract requires.
type Insurance struct {
	ID                 string        `json:"id"`
	PayerName          string        `json:"payer_name"`
	Type               InsuranceType `json:"type"`
	PolicyNumber       string        `json:"policy_number"`
	GroupNumber        string        `json:"group_number,omitempty"`
	EffectiveDaysAgo   int           `json:"effective_days_ago"`
	TerminationDaysAgo int           `json:"termination_days_ago,omitempty"` // zero means still active
	Priority           int           `json:"priority"`                       // 1 = billed primary, 2 = secondary
}

// ActiveOn reports whether the coverage was in force on the given day offset.
func (i Insurance) ActiveOn(daysAgo int) bool {
	if daysAgo > i.EffectiveDaysAgo {
		return false
	}
	if i.TerminationDaysAgo > 0 && daysAgo <= i.TerminationDaysAgo {
		return false
	}
	return true
}

// Patient is one member of the generated population. Patients are frozen once
// the generator returns them; rules only ever read them.
type Patient struct {
	ID               string      `json:"id"`
	MRN              string      `json:"mrn"`
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	Age              int         `json:"age"`
	Sex              string      `json:"sex"`
	EmploymentStatus string      `json:"employment_status"`
	SpouseEmployment string      `json:"spouse_employment,omitempty"`
	Coverage         []Insurance `json:"coverage"`
	Claims           []*Claim    `json:"claims"`
}

// Name returns the patient's display name.
func (p *Patient) Name() string {
	return p.FirstName + " " + p.LastName
}

// Employed reports whether the patient is currently employed.
func (p *Patient) Employed() bool {
	return p.EmploymentStatus == "Employed"
}

// InsuranceByID looks up a coverage on the patient's account.
func (p *Patient) InsuranceByID(id string) (Insurance, bool) {
	for _, ins := range p.Coverage {
		if ins.ID == id {
			return ins, true
		}
	}
	return Insurance{}, false
}

// ActiveCoverage returns the coverages in force on the given day offset, in
// account order.
func (p *Patient) ActiveCoverage(daysAgo int) []Insurance {
	var active []Insurance
	for _, ins := range p.Coverage {
		if ins.ActiveOn(daysAgo) {
			active = append(active, ins)
		}
	}
	return active
}

// Claim is a single billed encounter. Immutable once generated.
type Claim struct {
	ID                   string          `json:"id"`
	PatientID            string          `json:"patient_id"`
	ServiceDaysAgo       int             `json:"service_days_ago"`
	DiagnosisCodes       []string        `json:"diagnosis_codes"`
	ProcedureCodes       []string        `json:"procedure_codes"`
	BilledAmount         decimal.Decimal `json:"billed_amount"`
	PaidAmount           decimal.Decimal `json:"paid_amount"`
	PrimaryInsuranceID   string          `json:"primary_insurance_id,omitempty"`
	SecondaryInsuranceID string          `json:"secondary_insurance_id,omitempty"`
	Status               ClaimStatus     `json:"status"`
	DenialReason         DenialReason    `json:"denial_reason,omitempty"`
	Emergency            bool            `json:"emergency"`
	AccidentRelated      bool            `json:"accident_related"`
	WorkRelated          bool            `json:"work_related"`
	ThirdPartyLiability  bool            `json:"third_party_liability"`
}

// PatientResponsibility returns the balance left to the patient after the
// primary payer's payment.
func (c *Claim) PatientResponsibility() decimal.Decimal {
	return c.BilledAmount.Sub(c.PaidAmount)
}

// Alert is a single COB detection: one rule firing on one claim. An alert
// always references exactly one claim and, through it, exactly one patient.
type Alert struct {
	ID                string          `json:"id"`
	RuleCode          string          `json:"rule_code"`
	Category          AlertCategory   `json:"category"`
	Severity          Severity        `json:"severity"`
	PatientID         string          `json:"patient_id"`
	ClaimID           string          `json:"claim_id"`
	Confidence        float64         `json:"confidence"`
	RecoveryEstimate  decimal.Decimal `json:"recovery_estimate"`
	Description       string          `json:"description"`
	RecommendedAction string          `json:"recommended_action"`
	HighPriority      bool            `json:"high_priority"`
}

// Package aggregate computes summary statistics and ranked views over a run's
// alerts: counts by category, exact-decimal recovery totals, the top-K alerts
// by recovery value, and per-patient red-flag rollups.
package aggregate

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

// Aggregator computes aggregate views. It holds only the view sizing knobs
// and is safe to reuse across runs.
type Aggregator struct {
	logger    *logrus.Logger
	topK      int
	tableSize int
}

// New creates an aggregator with the configured view sizes.
func New(logger *logrus.Logger, cfg domain.Config) *Aggregator {
	return &Aggregator{
		logger:    logger,
		topK:      cfg.TopKAlerts,
		tableSize: cfg.RedFlagTableSize,
	}
}

// Aggregate computes the full aggregate view. Zero alerts is a valid state
// producing a well-formed view with zero counts and empty rankings. Money is
// summed with exact decimal arithmetic so hundreds of alerts cannot drift
// by cents.
func (a *Aggregator) Aggregate(patients []*domain.Patient, alerts []domain.Alert) domain.AggregateView {
	view := domain.AggregateView{
		TotalAlerts:     len(alerts),
		CategoryCounts:  make(map[domain.AlertCategory]int, len(domain.AllCategories())),
		TotalRecovery:   decimal.Zero.Round(2),
		TopAlerts:       make([]domain.Alert, 0),
		RedFlagAccounts: make([]domain.RedFlagAccount, 0),
	}

	// Every declared category is present, even at zero.
	for _, cat := range domain.AllCategories() {
		view.CategoryCounts[cat] = 0
	}

	for _, alert := range alerts {
		view.CategoryCounts[alert.Category]++
		view.TotalRecovery = view.TotalRecovery.Add(alert.RecoveryEstimate)
		if alert.HighPriority {
			view.HighPriorityAlerts++
		}
	}

	view.TopAlerts = a.topAlerts(alerts)
	view.RedFlagAccounts = a.redFlagAccounts(patients, alerts)

	a.logger.WithFields(logrus.Fields{
		"total_alerts":   view.TotalAlerts,
		"high_priority":  view.HighPriorityAlerts,
		"total_recovery": view.TotalRecovery.StringFixed(2),
	}).Info("Aggregated alerts")

	return view
}

// alertLess is the full ranking order: descending recovery estimate, then
// descending confidence, then ascending patient ID; claim ID and rule code
// complete the chain so the order is total.
func alertLess(a, b domain.Alert) bool {
	if cmp := a.RecoveryEstimate.Cmp(b.RecoveryEstimate); cmp != 0 {
		return cmp > 0
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.PatientID != b.PatientID {
		return a.PatientID < b.PatientID
	}
	if a.ClaimID != b.ClaimID {
		return a.ClaimID < b.ClaimID
	}
	return a.RuleCode < b.RuleCode
}

func (a *Aggregator) topAlerts(alerts []domain.Alert) []domain.Alert {
	ranked := make([]domain.Alert, len(alerts))
	copy(ranked, alerts)
	sort.Slice(ranked, func(i, j int) bool { return alertLess(ranked[i], ranked[j]) })

	if len(ranked) > a.topK {
		ranked = ranked[:a.topK]
	}
	return ranked
}

func (a *Aggregator) redFlagAccounts(patients []*domain.Patient, alerts []domain.Alert) []domain.RedFlagAccount {
	byPatient := make(map[string][]domain.Alert)
	for _, alert := range alerts {
		byPatient[alert.PatientID] = append(byPatient[alert.PatientID], alert)
	}

	patientIndex := make(map[string]*domain.Patient, len(patients))
	for _, p := range patients {
		patientIndex[p.ID] = p
	}

	accounts := make([]domain.RedFlagAccount, 0, len(byPatient))
	for patientID, patientAlerts := range byPatient {
		total := decimal.Zero.Round(2)
		top := patientAlerts[0]
		for _, alert := range patientAlerts {
			total = total.Add(alert.RecoveryEstimate)
			if alertLess(alert, top) {
				top = alert
			}
		}

		account := domain.RedFlagAccount{
			PatientID:     patientID,
			AlertCount:    len(patientAlerts),
			TotalRecovery: total,
			TopCategory:   top.Category,
		}
		if p, ok := patientIndex[patientID]; ok {
			account.PatientName = p.Name()
			account.MRN = p.MRN
		}
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		if cmp := accounts[i].TotalRecovery.Cmp(accounts[j].TotalRecovery); cmp != 0 {
			return cmp > 0
		}
		return accounts[i].PatientID < accounts[j].PatientID
	})

	if len(accounts) > a.tableSize {
		accounts = accounts[:a.tableSize]
	}
	return accounts
}

// RiskScores computes a 0-100 composite risk score per claim from that
// claim's alerts: severity weight times confidence, normalized against the
// maximum possible (every alert HIGH at full confidence). Claims without
// alerts carry no score.
func (a *Aggregator) RiskScores(alerts []domain.Alert) []domain.ClaimRiskScore {
	byClaim := make(map[string][]domain.Alert)
	for _, alert := range alerts {
		byClaim[alert.ClaimID] = append(byClaim[alert.ClaimID], alert)
	}

	scores := make([]domain.ClaimRiskScore, 0, len(byClaim))
	for claimID, claimAlerts := range byClaim {
		var total float64
		for _, alert := range claimAlerts {
			total += alert.Severity.Weight() * alert.Confidence
		}
		maxPossible := float64(len(claimAlerts)) * domain.HIGH.Weight()
		score := math.Min(100, total/maxPossible*100)
		scores = append(scores, domain.ClaimRiskScore{
			ClaimID: claimID,
			Score:   math.Round(score*100) / 100,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].ClaimID < scores[j].ClaimID
	})

	return scores
}

// Package rules implements the COB detection rule catalog: a fixed, ordered
// set of pure predicates over (patient, claim) that each produce a scored
// finding when they match. Rules never mutate their inputs and never fail on
// well-formed data; a claim missing the fields a rule needs simply does not
// fire it.
package rules

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

// Finding is the payload a rule produces when it fires: how sure the rule is,
// how much money is recoverable, and what staff should do about it. The
// engine combines it with the rule's static attributes to build an alert.
type Finding struct {
	Confidence        float64
	Recovery          decimal.Decimal
	Description       string
	RecommendedAction string
}

// Rule pairs a detection predicate with the static attributes of the issue
// it detects. Evaluate returns (finding, true) when the rule fires.
type Rule struct {
	Code     string
	Name     string
	Category domain.AlertCategory
	Severity domain.Severity
	Evaluate func(p *domain.Patient, c *domain.Claim) (Finding, bool)
}

// Catalog is the ordered rule set. Order does not affect which rules fire,
// but it fixes alert ordering within one claim's results, which keeps top-K
// tie-breaks reproducible.
type Catalog struct {
	logger *logrus.Logger
	rules  []Rule
}

// NewCatalog builds the catalog with all eight COB rules registered in their
// fixed R001-R008 order.
func NewCatalog(logger *logrus.Logger) *Catalog {
	c := &Catalog{logger: logger}

	c.rules = []Rule{
		mspViolationRule(),
		wrongPrimaryOrderRule(),
		missingSecondaryRule(),
		dependentAgeOutRule(),
		autoLiabilityRule(),
		workersCompRule(),
		coordinationPeriodRule(),
		secondaryNotBilledRule(),
	}

	logger.WithField("rule_count", len(c.rules)).Info("Initialized COB rule catalog")
	return c
}

// Rules returns the catalog in evaluation order.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// Rule looks up a single rule by code.
func (c *Catalog) Rule(code string) (Rule, bool) {
	for _, r := range c.rules {
		if r.Code == code {
			return r, true
		}
	}
	return Rule{}, false
}

// Len returns the number of registered rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// clampRecovery enforces the structural bound that a detection can never
// claim more than was billed.
func clampRecovery(estimate, billed decimal.Decimal) decimal.Decimal {
	if estimate.GreaterThan(billed) {
		return billed
	}
	return estimate
}

// clamp01 bounds a confidence score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Package synthdata deterministically synthesizes a patient population with
// embedded COB irregularities. Given the same generator count and seed the
// output is byte-for-byte identical: every field is drawn from a single
// caller-owned pseudo-random stream in a fixed order, so the draw order is
// part of the package contract and reordering draws is a breaking change.
package synthdata

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

// scenario tags a patient with the COB situation embedded in their account.
// The engine never sees scenarios; they only steer generation.
type scenario string

const (
	scenarioNormal           scenario = "normal"
	scenarioMissingSecondary scenario = "missing_secondary"
	scenarioMSPViolation     scenario = "msp_violation"
	scenarioWrongPrimary     scenario = "wrong_primary_order"
	scenarioDependentAgeOut  scenario = "dependent_age_out"
	scenarioDualCoverage     scenario = "dual_coverage"
	scenarioAutoAccident     scenario = "auto_accident"
	scenarioWorkersComp      scenario = "workers_comp"
)

// Scenario mix, calibrated for roughly two alerts per patient on the default
// population size. Flagged scenarios get the floor of count*share; the
// normal block absorbs the remainder.
var scenarioShares = []struct {
	scenario scenario
	share    float64
}{
	{scenarioMissingSecondary, 0.08},
	{scenarioMSPViolation, 0.06},
	{scenarioWrongPrimary, 0.05},
	{scenarioDependentAgeOut, 0.03},
	{scenarioDualCoverage, 0.03},
	{scenarioAutoAccident, 0.025},
	{scenarioWorkersComp, 0.025},
}

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer",
	"Michael", "Linda", "William", "Elizabeth", "David", "Barbara",
	"Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
	"Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson",
	"Martin", "Lee", "Thompson", "White", "Harris", "Clark",
}

var payersByType = map[domain.InsuranceType][]string{
	domain.COMMERCIAL: {
		"Blue Cross Blue Shield", "Aetna", "UnitedHealthcare",
		"Cigna", "Humana", "Anthem",
	},
	domain.MEDICARE: {"Medicare"},
	domain.MEDICAID: {"Medicaid"},
	domain.MEDICARE_ADVANTAGE: {
		"Humana Medicare Advantage", "UHC Medicare Advantage",
		"Aetna Medicare Advantage",
	},
	domain.AUTO_INSURANCE: {
		"State Farm Auto", "Geico Auto", "Progressive Auto", "Allstate Auto",
	},
	domain.WORKERS_COMP: {
		"State Workers Comp Fund", "Liberty Mutual WC", "Hartford WC",
	},
}

var diagnosisPools = map[string][]string{
	"routine":     {"Z00.00", "Z23", "I10", "E11.9", "J45.909"},
	"accident":    {"S06.0X0A", "S82.001A", "V43.52XA", "W01.0XXA"},
	"work_injury": {"S61.001A", "M54.5", "S93.401A"},
	"emergency":   {"I21.9", "J18.9", "K35.80", "S06.5X0A"},
}

// Coverage history baseline: coverage became effective a year before the run,
// and aged-out dependents lost it two months before.
const (
	coverageEffectiveDaysAgo = 365
	ageOutTerminationDaysAgo = 60
)

// Generator synthesizes patient populations. It holds no generation state;
// the pseudo-random stream is passed per call.
type Generator struct {
	logger *logrus.Logger
}

// New creates a population generator.
func New(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate produces count patients, each with 1-4 claims, drawn from rng.
// The caller owns rng (never ambient or global state), so concurrent runs
// with different seeds cannot interfere.
func (g *Generator) Generate(rng *rand.Rand, count int) ([]*domain.Patient, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: patient count must be positive, got %d", domain.ErrInvalidConfiguration, count)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", domain.ErrInvalidConfiguration)
	}

	plan := scenarioPlan(count)

	patients := make([]*domain.Patient, 0, count)
	claimCounter := 1
	for i, sc := range plan {
		p := g.generatePatient(rng, i+1, sc)

		numClaims := rng.Intn(4) + 1
		for j := 0; j < numClaims; j++ {
			p.Claims = append(p.Claims, generateClaim(rng, p, claimCounter, sc))
			claimCounter++
		}
		patients = append(patients, p)
	}

	g.logger.WithFields(logrus.Fields{
		"patients": len(patients),
		"claims":   claimCounter - 1,
	}).Info("Generated synthetic population")

	return patients, nil
}

// scenarioPlan assigns a scenario to each patient index: the normal block
// first, then each flagged scenario block in fixed order.
func scenarioPlan(count int) []scenario {
	plan := make([]scenario, 0, count)

	flagged := 0
	blocks := make([]int, len(scenarioShares))
	for i, s := range scenarioShares {
		blocks[i] = int(float64(count) * s.share)
		flagged += blocks[i]
	}

	for i := 0; i < count-flagged; i++ {
		plan = append(plan, scenarioNormal)
	}
	for i, s := range scenarioShares {
		for j := 0; j < blocks[i]; j++ {
			plan = append(plan, s.scenario)
		}
	}
	return plan
}

func (g *Generator) generatePatient(rng *rand.Rand, num int, sc scenario) *domain.Patient {
	p := &domain.Patient{
		ID:        fmt.Sprintf("PAT%06d", num),
		MRN:       fmt.Sprintf("MRN%08d", num),
		FirstName: firstNames[rng.Intn(len(firstNames))],
		LastName:  lastNames[rng.Intn(len(lastNames))],
	}

	if rng.Intn(2) == 0 {
		p.Sex = "F"
	} else {
		p.Sex = "M"
	}

	switch sc {
	case scenarioMSPViolation:
		p.Age = 65 + rng.Intn(21)
	case scenarioDependentAgeOut:
		p.Age = 26 // the dependent-coverage cutoff age
	default:
		p.Age = 18 + rng.Intn(58)
	}

	if p.Age < 65 && rng.Float64() > 0.2 {
		p.EmploymentStatus = "Employed"
	} else {
		p.EmploymentStatus = "Retired"
	}

	spouseThreshold := 0.35
	if sc == scenarioMissingSecondary {
		spouseThreshold = 0.5
	}
	if rng.Float64() < spouseThreshold {
		p.SpouseEmployment = "Employed"
	}

	p.Coverage = generateCoverage(rng, sc)
	return p
}

// generateCoverage builds the insurance stack for the patient's scenario.
// Priority 1 is the coverage the provider billed as primary, which for the
// flagged scenarios is deliberately the wrong one.
func generateCoverage(rng *rand.Rand, sc scenario) []domain.Insurance {
	switch sc {
	case scenarioWrongPrimary:
		// Medicare billed first while an employer plan sits secondary.
		return []domain.Insurance{
			newInsurance(rng, domain.MEDICARE, 0, 1),
			newInsurance(rng, domain.COMMERCIAL, 0, 2),
		}
	case scenarioMSPViolation:
		return []domain.Insurance{
			newInsurance(rng, domain.MEDICARE, 0, 1),
		}
	case scenarioDependentAgeOut:
		return []domain.Insurance{
			newInsurance(rng, domain.COMMERCIAL, ageOutTerminationDaysAgo, 1),
		}
	case scenarioDualCoverage:
		return []domain.Insurance{
			newInsurance(rng, domain.COMMERCIAL, 0, 1),
			newInsurance(rng, domain.COMMERCIAL, 0, 2),
		}
	case scenarioAutoAccident:
		// Health plan billed first; the auto carrier on file should lead.
		return []domain.Insurance{
			newInsurance(rng, domain.COMMERCIAL, 0, 1),
			newInsurance(rng, domain.AUTO_INSURANCE, 0, 2),
		}
	default:
		// normal, missing_secondary, workers_comp: single commercial plan.
		return []domain.Insurance{
			newInsurance(rng, domain.COMMERCIAL, 0, 1),
		}
	}
}

func newInsurance(rng *rand.Rand, t domain.InsuranceType, terminationDaysAgo, priority int) domain.Insurance {
	ins := domain.Insurance{
		ID:                 fmt.Sprintf("INS%08X", rng.Uint32()),
		PayerName:          payersByType[t][rng.Intn(len(payersByType[t]))],
		Type:               t,
		PolicyNumber:       fmt.Sprintf("POL%06d", 100000+rng.Intn(900000)),
		EffectiveDaysAgo:   coverageEffectiveDaysAgo,
		TerminationDaysAgo: terminationDaysAgo,
		Priority:           priority,
	}
	if t == domain.COMMERCIAL {
		ins.GroupNumber = fmt.Sprintf("GRP%04d", 1000+rng.Intn(9000))
	}
	return ins
}

func generateClaim(rng *rand.Rand, p *domain.Patient, num int, sc scenario) *domain.Claim {
	c := &domain.Claim{
		ID:              fmt.Sprintf("CLM%09d", num),
		PatientID:       p.ID,
		Emergency:       sc == scenarioAutoAccident,
		AccidentRelated: sc == scenarioAutoAccident,
		WorkRelated:     sc == scenarioWorkersComp,
	}
	c.ThirdPartyLiability = c.AccidentRelated || c.WorkRelated

	if sc == scenarioDependentAgeOut {
		// Service falls after the dependent coverage terminated.
		c.ServiceDaysAgo = 1 + rng.Intn(ageOutTerminationDaysAgo-1)
	} else {
		c.ServiceDaysAgo = 1 + rng.Intn(90)
	}

	c.DiagnosisCodes = sampleDiagnoses(rng, sc)

	numProcs := rng.Intn(4) + 1
	for i := 0; i < numProcs; i++ {
		c.ProcedureCodes = append(c.ProcedureCodes, fmt.Sprintf("CPT%05d", 10000+rng.Intn(90000)))
	}

	c.BilledAmount = drawAmount(rng, sc)

	if len(p.Coverage) > 0 {
		c.PrimaryInsuranceID = p.Coverage[0].ID
	}
	// Dual-coverage accounts are the red flag itself: the secondary exists
	// on file but was never put on the claim.
	if len(p.Coverage) > 1 && sc != scenarioDualCoverage {
		c.SecondaryInsuranceID = p.Coverage[1].ID
	}

	switch sc {
	case scenarioMSPViolation:
		c.Status = domain.DENIED
		c.DenialReason = domain.DENIAL_MSP
	case scenarioWrongPrimary:
		c.Status = domain.DENIED
		c.DenialReason = domain.DENIAL_WRONG_PRIMARY
	case scenarioDependentAgeOut:
		c.Status = domain.DENIED
		c.DenialReason = domain.DENIAL_DEPENDENT_ELIGIBILITY
	case scenarioAutoAccident:
		c.Status = domain.DENIED
		c.DenialReason = domain.DENIAL_AUTO_LIABILITY
	case scenarioWorkersComp:
		c.Status = domain.DENIED
		c.DenialReason = domain.DENIAL_WRONG_PRIMARY
	case scenarioMissingSecondary, scenarioDualCoverage:
		c.Status = domain.PAID
	default:
		if rng.Float64() > 0.3 {
			c.Status = domain.PAID
		} else {
			c.Status = domain.DENIED
			c.DenialReason = domain.DENIAL_OTHER
		}
	}

	if c.Status == domain.PAID {
		// Primary payers reimburse roughly 70 cents on the billed dollar.
		c.PaidAmount = c.BilledAmount.Mul(decimal.NewFromFloat(0.7)).Round(2)
	} else {
		c.PaidAmount = decimal.Zero.Round(2)
	}

	return c
}

// sampleDiagnoses draws two distinct codes from the scenario's pool.
func sampleDiagnoses(rng *rand.Rand, sc scenario) []string {
	var pool []string
	switch sc {
	case scenarioAutoAccident:
		pool = diagnosisPools["accident"]
	case scenarioWorkersComp:
		pool = diagnosisPools["work_injury"]
	default:
		pool = diagnosisPools["routine"]
	}

	i := rng.Intn(len(pool))
	j := rng.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	return []string{pool[i], pool[j]}
}

// drawAmount draws a billed amount in whole cents from the scenario's band.
// Flagged scenarios skew expensive so the top-K alert view mixes categories
// instead of being dominated by a single one.
func drawAmount(rng *rand.Rand, sc scenario) decimal.Decimal {
	var minCents, maxCents int
	switch sc {
	case scenarioAutoAccident, scenarioWorkersComp:
		minCents, maxCents = 1_500_000, 5_000_000
	case scenarioMSPViolation:
		minCents, maxCents = 2_000_000, 7_000_000
	case scenarioWrongPrimary:
		minCents, maxCents = 1_500_000, 5_500_000
	case scenarioDependentAgeOut:
		minCents, maxCents = 1_800_000, 6_000_000
	case scenarioMissingSecondary:
		minCents, maxCents = 500_000, 3_500_000
	case scenarioDualCoverage:
		minCents, maxCents = 1_000_000, 4_000_000
	default:
		minCents, maxCents = 50_000, 500_000
	}
	cents := minCents + rng.Intn(maxCents-minCents+1)
	return decimal.New(int64(cents), -2)
}

package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cob-agent/internal/domain"
)

// Category-specific recovery rate assumptions. Auto and workers comp claims
// typically recover in full from the liability carrier; rebilled health
// claims recover most but not all of the billed amount.
var (
	rateMSP            = decimal.NewFromFloat(0.80)
	rateWrongPrimary   = decimal.NewFromFloat(0.75)
	rateAgeOut         = decimal.NewFromFloat(0.80)
	ratePeriodMismatch = decimal.NewFromFloat(0.75)
	rateMissingSecond  = decimal.NewFromFloat(0.50)
	rateSecondNotBill  = decimal.NewFromFloat(0.60)
)

// mspViolationRule (R001) flags Medicare billed as primary when another payer
// should lead. Confidence climbs with each corroborating signal: commercial
// coverage on file, active employment, or an MSP denial code already on the
// claim.
func mspViolationRule() Rule {
	return Rule{
		Code:     "R001",
		Name:     "Medicare Secondary Payer (MSP) Violation",
		Category: domain.MSP_VIOLATION,
		Severity: domain.HIGH,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			primary, ok := p.InsuranceByID(c.PrimaryInsuranceID)
			if !ok || primary.Type != domain.MEDICARE {
				return Finding{}, false
			}

			hasCommercial := false
			for _, ins := range p.ActiveCoverage(c.ServiceDaysAgo) {
				if ins.Type == domain.COMMERCIAL || ins.Type == domain.MEDICARE_ADVANTAGE {
					hasCommercial = true
					break
				}
			}
			employed := p.Employed()

			var confidence float64
			var reason string
			switch {
			case hasCommercial && employed:
				confidence = 0.95
				reason = fmt.Sprintf("Patient has active commercial insurance (employer) that should be primary. Age: %d, employed.", p.Age)
			case hasCommercial:
				confidence = 0.90
				reason = fmt.Sprintf("Patient has active commercial insurance that should be primary. Age: %d.", p.Age)
			case c.DenialReason == domain.DENIAL_MSP:
				confidence = 0.85
				reason = "Payer denied the claim with an MSP code; other primary coverage is on record with the payer."
			case p.Age < 65 && employed:
				confidence = 0.80
				reason = fmt.Sprintf("Patient under 65 with Medicare (likely disability entitlement) is employed; employer coverage should be primary. Age: %d.", p.Age)
			case p.Age >= 65 && p.Age <= 70 && employed:
				confidence = 0.75
				reason = fmt.Sprintf("Working senior (age %d) likely has employer coverage that should be primary.", p.Age)
			default:
				return Finding{}, false
			}

			return Finding{
				Confidence:        clamp01(confidence),
				Recovery:          clampRecovery(c.BilledAmount.Mul(rateMSP).Round(2), c.BilledAmount),
				Description:       reason,
				RecommendedAction: "Verify employer/commercial coverage and rebill with Medicare as secondary",
			}, true
		},
	}
}

// wrongPrimaryOrderRule (R002) flags claims denied because the payer priority
// on the account is inverted and a commercial plan sits in the secondary slot.
func wrongPrimaryOrderRule() Rule {
	return Rule{
		Code:     "R002",
		Name:     "Wrong Primary Payer Order",
		Category: domain.WRONG_PRIMARY_ORDER,
		Severity: domain.HIGH,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			if c.DenialReason != domain.DENIAL_WRONG_PRIMARY {
				return Finding{}, false
			}

			active := p.ActiveCoverage(c.ServiceDaysAgo)
			if len(active) < 2 {
				return Finding{}, false
			}

			var correctPrimary *domain.Insurance
			for i := range active {
				if active[i].Priority == 2 && active[i].Type == domain.COMMERCIAL {
					correctPrimary = &active[i]
					break
				}
			}
			if correctPrimary == nil {
				return Finding{}, false
			}

			return Finding{
				Confidence: 0.90,
				Recovery:   clampRecovery(c.BilledAmount.Mul(rateWrongPrimary).Round(2), c.BilledAmount),
				Description: fmt.Sprintf("Claim denied due to wrong primary payer. Should bill %s as primary.",
					correctPrimary.PayerName),
				RecommendedAction: fmt.Sprintf("Rebill claim with %s as primary payer", correctPrimary.PayerName),
			}, true
		},
	}
}

// missingSecondaryRule (R003) flags paid claims on single-coverage accounts
// where the remaining patient balance suggests unreported secondary coverage.
// An employed spouse is the corroborating signal that lifts confidence.
func missingSecondaryRule() Rule {
	return Rule{
		Code:     "R003",
		Name:     "Missing Secondary Coverage",
		Category: domain.MISSING_SECONDARY,
		Severity: domain.MEDIUM,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			if c.Status != domain.PAID {
				return Finding{}, false
			}
			if len(p.Coverage) != 1 {
				return Finding{}, false
			}

			responsibility := c.PatientResponsibility()
			spouseEmployed := p.SpouseEmployment == "Employed"
			highResponsibility := responsibility.GreaterThan(c.BilledAmount.Mul(decimal.NewFromFloat(0.2)))

			if !spouseEmployed && !highResponsibility {
				return Finding{}, false
			}

			confidence := 0.50
			if spouseEmployed {
				confidence = 0.70
			}

			return Finding{
				Confidence: clamp01(confidence),
				Recovery:   clampRecovery(responsibility.Mul(rateMissingSecond).Round(2), c.BilledAmount),
				Description: fmt.Sprintf("Patient likely has unreported secondary coverage. Patient responsibility: $%s.",
					responsibility.StringFixed(2)),
				RecommendedAction: "Contact patient to verify whether they have other insurance coverage",
			}, true
		},
	}
}

// dependentAgeOutRule (R004) flags dependents whose coverage terminated at
// the age-26 cutoff with claims dated after the termination.
func dependentAgeOutRule() Rule {
	return Rule{
		Code:     "R004",
		Name:     "Dependent Age-Out",
		Category: domain.DEPENDENT_AGE_OUT,
		Severity: domain.HIGH,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			if p.Age < 25 || p.Age > 27 {
				return Finding{}, false
			}
			if len(p.Coverage) == 0 {
				return Finding{}, false
			}

			primary := p.Coverage[0]
			if primary.TerminationDaysAgo == 0 {
				return Finding{}, false
			}
			// Service must postdate the termination.
			if c.ServiceDaysAgo >= primary.TerminationDaysAgo {
				return Finding{}, false
			}

			return Finding{
				Confidence: 0.95,
				Recovery:   clampRecovery(c.BilledAmount.Mul(rateAgeOut).Round(2), c.BilledAmount),
				Description: fmt.Sprintf("Dependent coverage terminated at age 26; claim service date is %d days after termination.",
					primary.TerminationDaysAgo-c.ServiceDaysAgo),
				RecommendedAction: "Verify patient has obtained new coverage and collect current insurance information",
			}, true
		},
	}
}

// autoLiabilityRule (R005) flags accident-related claims billed to a health
// plan when an auto or liability carrier should pay first. An auto policy
// already on file corroborates the detection.
func autoLiabilityRule() Rule {
	return Rule{
		Code:     "R005",
		Name:     "Auto/Liability Should Be Primary",
		Category: domain.AUTO_LIABILITY_PRIMARY,
		Severity: domain.HIGH,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			if !c.AccidentRelated {
				return Finding{}, false
			}

			primary, ok := p.InsuranceByID(c.PrimaryInsuranceID)
			if !ok || !primary.Type.IsHealthPlan() {
				return Finding{}, false
			}

			hasAuto := false
			for _, ins := range p.Coverage {
				if ins.Type == domain.AUTO_INSURANCE {
					hasAuto = true
					break
				}
			}

			confidence := 0.70
			if hasAuto {
				confidence = 0.85
			}

			return Finding{
				Confidence: clamp01(confidence),
				// Liability carriers typically cover accident claims in full.
				Recovery:          clampRecovery(c.BilledAmount, c.BilledAmount),
				Description:       "Accident-related claim billed to health insurance; auto/liability insurance should be primary.",
				RecommendedAction: "Obtain auto insurance information from patient and rebill to auto carrier as primary",
			}, true
		},
	}
}

// workersCompRule (R006) flags work-related injuries billed to a health plan
// instead of the workers compensation carrier.
func workersCompRule() Rule {
	return Rule{
		Code:     "R006",
		Name:     "Workers Comp Should Be Primary",
		Category: domain.WORKERS_COMP_PRIMARY,
		Severity: domain.HIGH,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			if !c.WorkRelated {
				return Finding{}, false
			}

			primary, ok := p.InsuranceByID(c.PrimaryInsuranceID)
			if !ok || primary.Type == domain.WORKERS_COMP {
				return Finding{}, false
			}

			return Finding{
				Confidence:        0.90,
				Recovery:          clampRecovery(c.BilledAmount, c.BilledAmount),
				Description:       "Work-related injury billed to health insurance; workers compensation should be primary.",
				RecommendedAction: "Contact patient/employer for workers comp carrier details and file a workers comp claim",
			}, true
		},
	}
}

// coordinationPeriodRule (R007) flags claims whose service date falls outside
// the billed coverage's effective period.
func coordinationPeriodRule() Rule {
	return Rule{
		Code:     "R007",
		Name:     "Coordination Period Mismatch",
		Category: domain.COORDINATION_PERIOD_MISMATCH,
		Severity: domain.HIGH,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			primary, ok := p.InsuranceByID(c.PrimaryInsuranceID)
			if !ok {
				return Finding{}, false
			}
			if primary.ActiveOn(c.ServiceDaysAgo) {
				return Finding{}, false
			}

			var detail string
			if c.ServiceDaysAgo > primary.EffectiveDaysAgo {
				detail = fmt.Sprintf("service predates coverage start by %d days", c.ServiceDaysAgo-primary.EffectiveDaysAgo)
			} else {
				detail = fmt.Sprintf("service falls %d days after coverage ended", primary.TerminationDaysAgo-c.ServiceDaysAgo)
			}

			return Finding{
				Confidence:        0.95,
				Recovery:          clampRecovery(c.BilledAmount.Mul(ratePeriodMismatch).Round(2), c.BilledAmount),
				Description:       fmt.Sprintf("Claim service date outside coverage period: %s.", detail),
				RecommendedAction: "Verify other active coverage during the service date and update the claim's insurance information",
			}, true
		},
	}
}

// secondaryNotBilledRule (R008) flags paid claims where an active secondary
// coverage on file was never billed for the remaining balance.
func secondaryNotBilledRule() Rule {
	meaningfulBalance := decimal.NewFromInt(100)

	return Rule{
		Code:     "R008",
		Name:     "Dual Coverage Not Utilized",
		Category: domain.SECONDARY_NOT_BILLED,
		Severity: domain.MEDIUM,
		Evaluate: func(p *domain.Patient, c *domain.Claim) (Finding, bool) {
			if c.Status != domain.PAID {
				return Finding{}, false
			}
			if c.SecondaryInsuranceID != "" {
				return Finding{}, false
			}

			active := p.ActiveCoverage(c.ServiceDaysAgo)
			if len(active) < 2 {
				return Finding{}, false
			}

			responsibility := c.PatientResponsibility()
			if !responsibility.GreaterThan(meaningfulBalance) {
				return Finding{}, false
			}

			return Finding{
				Confidence: 0.80,
				Recovery:   clampRecovery(responsibility.Mul(rateSecondNotBill).Round(2), c.BilledAmount),
				Description: fmt.Sprintf("Patient has active secondary coverage (%s) that was not billed. Open balance: $%s.",
					active[1].PayerName, responsibility.StringFixed(2)),
				RecommendedAction: "Bill secondary insurance for the remaining patient responsibility",
			}, true
		},
	}
}

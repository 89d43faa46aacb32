package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertCategoryIsValid(t *testing.T) {
	tests := []struct {
		name     string
		category AlertCategory
		valid    bool
	}{
		{"MSP violation", MSP_VIOLATION, true},
		{"wrong primary order", WRONG_PRIMARY_ORDER, true},
		{"missing secondary", MISSING_SECONDARY, true},
		{"dependent age out", DEPENDENT_AGE_OUT, true},
		{"auto liability", AUTO_LIABILITY_PRIMARY, true},
		{"workers comp", WORKERS_COMP_PRIMARY, true},
		{"coordination period", COORDINATION_PERIOD_MISMATCH, true},
		{"secondary not billed", SECONDARY_NOT_BILLED, true},
		{"unknown", AlertCategory("SOMETHING_ELSE"), false},
		{"empty", AlertCategory(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.category.IsValid())
		})
	}
}

func TestAllCategoriesCoversEveryDeclaredCategory(t *testing.T) {
	cats := AllCategories()
	require.Len(t, cats, 8)

	seen := make(map[AlertCategory]bool)
	for _, cat := range cats {
		assert.True(t, cat.IsValid(), "category %s should be valid", cat)
		assert.False(t, seen[cat], "category %s listed twice", cat)
		seen[cat] = true
	}
}

func TestAllCategoriesOrderIsStable(t *testing.T) {
	assert.Equal(t, AllCategories(), AllCategories())
	assert.Equal(t, MSP_VIOLATION, AllCategories()[0])
}

func TestSeverityWeight(t *testing.T) {
	tests := []struct {
		severity Severity
		weight   float64
	}{
		{HIGH, 10},
		{MEDIUM, 5},
		{LOW, 2},
		{Severity("UNKNOWN"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.weight, tt.severity.Weight())
		})
	}
}

func TestInsuranceTypeIsHealthPlan(t *testing.T) {
	tests := []struct {
		insType    InsuranceType
		healthPlan bool
	}{
		{COMMERCIAL, true},
		{MEDICARE, true},
		{MEDICAID, true},
		{MEDICARE_ADVANTAGE, true},
		{AUTO_INSURANCE, false},
		{WORKERS_COMP, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.insType), func(t *testing.T) {
			assert.True(t, tt.insType.IsValid())
			assert.Equal(t, tt.healthPlan, tt.insType.IsHealthPlan())
		})
	}
}

func TestInsuranceActiveOn(t *testing.T) {
	tests := []struct {
		name    string
		ins     Insurance
		daysAgo int
		active  bool
	}{
		{
			name:    "within open-ended coverage",
			ins:     Insurance{EffectiveDaysAgo: 365},
			daysAgo: 30,
			active:  true,
		},
		{
			name:    "service predates coverage start",
			ins:     Insurance{EffectiveDaysAgo: 365},
			daysAgo: 400,
			active:  false,
		},
		{
			name:    "service after termination",
			ins:     Insurance{EffectiveDaysAgo: 365, TerminationDaysAgo: 60},
			daysAgo: 30,
			active:  false,
		},
		{
			name:    "service before termination",
			ins:     Insurance{EffectiveDaysAgo: 365, TerminationDaysAgo: 60},
			daysAgo: 90,
			active:  true,
		},
		{
			name:    "effective day itself",
			ins:     Insurance{EffectiveDaysAgo: 365},
			daysAgo: 365,
			active:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, tt.ins.ActiveOn(tt.daysAgo))
		})
	}
}

func TestPatientHelpers(t *testing.T) {
	p := &Patient{
		FirstName:        "Maria",
		LastName:         "Garcia",
		EmploymentStatus: "Employed",
		Coverage: []Insurance{
			{ID: "INS00000001", Type: MEDICARE, EffectiveDaysAgo: 365, Priority: 1},
			{ID: "INS00000002", Type: COMMERCIAL, EffectiveDaysAgo: 365, TerminationDaysAgo: 60, Priority: 2},
		},
	}

	assert.Equal(t, "Maria Garcia", p.Name())
	assert.True(t, p.Employed())

	ins, ok := p.InsuranceByID("INS00000002")
	require.True(t, ok)
	assert.Equal(t, COMMERCIAL, ins.Type)

	_, ok = p.InsuranceByID("INS99999999")
	assert.False(t, ok)

	// Day 30 falls after the commercial plan terminated.
	active := p.ActiveCoverage(30)
	require.Len(t, active, 1)
	assert.Equal(t, MEDICARE, active[0].Type)

	// Day 90 both plans are in force.
	assert.Len(t, p.ActiveCoverage(90), 2)
}

func TestClaimPatientResponsibility(t *testing.T) {
	c := &Claim{
		BilledAmount: decimal.RequireFromString("1000.00"),
		PaidAmount:   decimal.RequireFromString("700.00"),
	}
	assert.True(t, c.PatientResponsibility().Equal(decimal.RequireFromString("300.00")))

	unpaid := &Claim{
		BilledAmount: decimal.RequireFromString("250.50"),
		PaidAmount:   decimal.Zero,
	}
	assert.True(t, unpaid.PatientResponsibility().Equal(decimal.RequireFromString("250.50")))
}

package rules

import (
	"fmt"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cob-agent/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCatalogRegistersAllRulesInOrder(t *testing.T) {
	catalog := NewCatalog(testLogger())
	require.Equal(t, 8, catalog.Len())

	expectedCodes := []string{"R001", "R002", "R003", "R004", "R005", "R006", "R007", "R008"}
	for i, r := range catalog.Rules() {
		assert.Equal(t, expectedCodes[i], r.Code)
		assert.NotEmpty(t, r.Name)
		assert.True(t, r.Category.IsValid())
		assert.True(t, r.Severity.IsValid())
		assert.NotNil(t, r.Evaluate)
	}
}

func TestCatalogCoversEveryCategoryExactlyOnce(t *testing.T) {
	catalog := NewCatalog(testLogger())

	seen := make(map[domain.AlertCategory]int)
	for _, r := range catalog.Rules() {
		seen[r.Category]++
	}

	for _, cat := range domain.AllCategories() {
		assert.Equal(t, 1, seen[cat], "category %s should have exactly one rule", cat)
	}
}

func TestCatalogRuleLookup(t *testing.T) {
	catalog := NewCatalog(testLogger())

	r, ok := catalog.Rule("R004")
	require.True(t, ok)
	assert.Equal(t, domain.DEPENDENT_AGE_OUT, r.Category)

	_, ok = catalog.Rule("R999")
	assert.False(t, ok)
}

func TestClampRecovery(t *testing.T) {
	billed := decimal.RequireFromString("1000.00")

	assert.True(t, clampRecovery(decimal.RequireFromString("800.00"), billed).Equal(decimal.RequireFromString("800.00")))
	assert.True(t, clampRecovery(decimal.RequireFromString("1200.00"), billed).Equal(billed))
	assert.True(t, clampRecovery(billed, billed).Equal(billed))
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, out float64
	}{
		{0.5, 0.5},
		{-0.1, 0},
		{1.3, 1},
		{0, 0},
		{1, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.out, clamp01(tt.in))
		})
	}
}

package synthdata

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"testing"

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

func TestGenerateRejectsInvalidInput(t *testing.T) {
	g := New(testLogger())

	_, err := g.Generate(rand.New(rand.NewSource(42)), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))

	_, err = g.Generate(rand.New(rand.NewSource(42)), -10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))

	_, err = g.Generate(nil, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := New(testLogger()).Generate(rand.New(rand.NewSource(42)), 50)
	require.NoError(t, err)

	second, err := New(testLogger()).Generate(rand.New(rand.NewSource(42)), 50)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON, "same seed must reproduce the population byte for byte")
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	g := New(testLogger())

	first, err := g.Generate(rand.New(rand.NewSource(1)), 50)
	require.NoError(t, err)
	second, err := g.Generate(rand.New(rand.NewSource(2)), 50)
	require.NoError(t, err)

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.NotEqual(t, firstJSON, secondJSON)
}

func TestGeneratePopulationShape(t *testing.T) {
	patients, err := New(testLogger()).Generate(rand.New(rand.NewSource(42)), 100)
	require.NoError(t, err)
	require.Len(t, patients, 100)

	patientIDs := make(map[string]bool)
	claimIDs := make(map[string]bool)
	for _, p := range patients {
		assert.False(t, patientIDs[p.ID], "duplicate patient ID %s", p.ID)
		patientIDs[p.ID] = true

		assert.NotEmpty(t, p.FirstName)
		assert.NotEmpty(t, p.LastName)
		assert.NotEmpty(t, p.MRN)
		assert.GreaterOrEqual(t, p.Age, 18)
		assert.LessOrEqual(t, p.Age, 85)
		assert.NotEmpty(t, p.Coverage, "every patient carries at least one coverage")

		require.GreaterOrEqual(t, len(p.Claims), 1)
		require.LessOrEqual(t, len(p.Claims), 4)

		for _, c := range p.Claims {
			assert.False(t, claimIDs[c.ID], "duplicate claim ID %s", c.ID)
			claimIDs[c.ID] = true

			assert.Equal(t, p.ID, c.PatientID)
			assert.True(t, c.BilledAmount.IsPositive())
			assert.True(t, c.Status.IsValid())
			assert.Len(t, c.DiagnosisCodes, 2)
			assert.NotEqual(t, c.DiagnosisCodes[0], c.DiagnosisCodes[1])
			assert.GreaterOrEqual(t, len(c.ProcedureCodes), 1)
			assert.LessOrEqual(t, len(c.ProcedureCodes), 4)
			assert.GreaterOrEqual(t, c.ServiceDaysAgo, 1)
			assert.LessOrEqual(t, c.ServiceDaysAgo, 90)

			if c.Status == domain.PAID {
				assert.True(t, c.PaidAmount.IsPositive())
				assert.True(t, c.PaidAmount.LessThan(c.BilledAmount))
			} else {
				assert.True(t, c.PaidAmount.IsZero())
			}
		}
	}
}

func TestScenarioPlanCoversExactlyCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"single patient", 1},
		{"small", 7},
		{"default", 100},
		{"large", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := scenarioPlan(tt.count)
			assert.Len(t, plan, tt.count)
		})
	}
}

func TestScenarioPlanMixAtDefaultSize(t *testing.T) {
	plan := scenarioPlan(100)

	counts := make(map[scenario]int)
	for _, sc := range plan {
		counts[sc]++
	}

	assert.Equal(t, 8, counts[scenarioMissingSecondary])
	assert.Equal(t, 6, counts[scenarioMSPViolation])
	assert.Equal(t, 5, counts[scenarioWrongPrimary])
	assert.Equal(t, 3, counts[scenarioDependentAgeOut])
	assert.Equal(t, 3, counts[scenarioDualCoverage])
	assert.Equal(t, 2, counts[scenarioAutoAccident])
	assert.Equal(t, 2, counts[scenarioWorkersComp])
	assert.Equal(t, 71, counts[scenarioNormal])
}

func TestFlaggedScenariosEmbedTheirSignal(t *testing.T) {
	patients, err := New(testLogger()).Generate(rand.New(rand.NewSource(42)), 100)
	require.NoError(t, err)

	var mspDenials, wrongPrimaryDenials, accidentClaims, workClaims, ageOutTerminated int
	for _, p := range patients {
		for _, ins := range p.Coverage {
			if ins.TerminationDaysAgo > 0 {
				ageOutTerminated++
			}
		}
		for _, c := range p.Claims {
			switch {
			case c.DenialReason == domain.DENIAL_MSP:
				mspDenials++
			case c.DenialReason == domain.DENIAL_WRONG_PRIMARY:
				wrongPrimaryDenials++
			}
			if c.AccidentRelated {
				accidentClaims++
			}
			if c.WorkRelated {
				workClaims++
			}
		}
	}

	assert.Positive(t, mspDenials, "MSP scenario patients should carry MSP denials")
	assert.Positive(t, wrongPrimaryDenials)
	assert.Positive(t, accidentClaims)
	assert.Positive(t, workClaims)
	assert.Positive(t, ageOutTerminated, "age-out scenario coverage should be terminated")
}

func TestClaimsReferencePatientCoverage(t *testing.T) {
	patients, err := New(testLogger()).Generate(rand.New(rand.NewSource(7)), 60)
	require.NoError(t, err)

	for _, p := range patients {
		for _, c := range p.Claims {
			require.NotEmpty(t, c.PrimaryInsuranceID)
			_, ok := p.InsuranceByID(c.PrimaryInsuranceID)
			assert.True(t, ok, "claim %s references unknown primary coverage", c.ID)

			if c.SecondaryInsuranceID != "" {
				_, ok := p.InsuranceByID(c.SecondaryInsuranceID)
				assert.True(t, ok, "claim %s references unknown secondary coverage", c.ID)
			}
		}
	}
}

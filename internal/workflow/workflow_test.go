package workflow

import (
	"io"
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

func TestCreateUsesCategorySteps(t *testing.T) {
	tracker := NewTracker(testLogger())

	tests := []struct {
		category domain.AlertCategory
		steps    int
	}{
		{domain.MSP_VIOLATION, 5},
		{domain.WRONG_PRIMARY_ORDER, 4},
		{domain.AUTO_LIABILITY_PRIMARY, 5},
		{domain.DEPENDENT_AGE_OUT, 4},
		// No dedicated sequence, falls back to the generic investigation.
		{domain.MISSING_SECONDARY, 4},
		{domain.WORKERS_COMP_PRIMARY, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			w := tracker.Create(domain.Alert{ID: "alert-1", Category: tt.category})

			require.Len(t, w.Steps, tt.steps)
			assert.Equal(t, IN_PROGRESS, w.Status)
			assert.Equal(t, 0, w.CompletedStep)
			assert.Equal(t, 0.0, w.Progress())
			assert.Equal(t, tt.steps*5, w.EstimatedMinutes())
		})
	}
}

func TestWorkflowIDIsStablePerAlert(t *testing.T) {
	tracker := NewTracker(testLogger())

	a := tracker.Create(domain.Alert{ID: "alert-1", Category: domain.MSP_VIOLATION})
	b := tracker.Create(domain.Alert{ID: "alert-1", Category: domain.MSP_VIOLATION})
	c := tracker.Create(domain.Alert{ID: "alert-2", Category: domain.MSP_VIOLATION})

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestAdvanceWalksToCompletion(t *testing.T) {
	tracker := NewTracker(testLogger())
	w := tracker.Create(domain.Alert{ID: "alert-1", Category: domain.WRONG_PRIMARY_ORDER})
	require.Len(t, w.Steps, 4)

	for i := 1; i <= 4; i++ {
		require.NoError(t, tracker.Advance(w))
		assert.Equal(t, i, w.CompletedStep)
	}

	assert.Equal(t, COMPLETED, w.Status)
	assert.Equal(t, 1.0, w.Progress())
	assert.Equal(t, 0, w.EstimatedMinutes())

	// A completed workflow cannot advance further.
	err := tracker.Advance(w)
	require.Error(t, err)
	assert.Equal(t, 4, w.CompletedStep)
}

func TestProgressMidway(t *testing.T) {
	tracker := NewTracker(testLogger())
	w := tracker.Create(domain.Alert{ID: "alert-1", Category: domain.MSP_VIOLATION})

	require.NoError(t, tracker.Advance(w))
	require.NoError(t, tracker.Advance(w))

	assert.Equal(t, 0.4, w.Progress())
	assert.Equal(t, IN_PROGRESS, w.Status)
	assert.Equal(t, 15, w.EstimatedMinutes())
}

func TestCreateCopiesStepTemplates(t *testing.T) {
	tracker := NewTracker(testLogger())

	w := tracker.Create(domain.Alert{ID: "alert-1", Category: domain.MSP_VIOLATION})
	w.Steps[0] = "mutated"

	fresh := tracker.Create(domain.Alert{ID: "alert-2", Category: domain.MSP_VIOLATION})
	assert.NotEqual(t, "mutated", fresh.Steps[0], "step templates must not be shared between workflows")
}

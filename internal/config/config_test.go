package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerDefaults(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	s := m.Settings()
	require.NotNil(t, s)

	assert.Equal(t, 100, s.Analysis.PatientCount)
	assert.Equal(t, int64(42), s.Analysis.Seed)
	assert.Equal(t, 0.85, s.Analysis.HighPriorityConfidence)
	assert.Equal(t, 10, s.Analysis.TopKAlerts)
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "text", s.Logging.Format)

	assert.NoError(t, m.Validate())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("COB_ANALYSIS_PATIENT_COUNT", "250")
	t.Setenv("COB_ANALYSIS_SEED", "7")
	t.Setenv("COB_LOGGING_LEVEL", "debug")

	m, err := NewManager()
	require.NoError(t, err)

	s := m.Settings()
	assert.Equal(t, 250, s.Analysis.PatientCount)
	assert.Equal(t, int64(7), s.Analysis.Seed)
	assert.Equal(t, "debug", s.Logging.Level)

	assert.NoError(t, m.Validate())
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero patients", func(s *Settings) { s.Analysis.PatientCount = 0 }},
		{"bad log level", func(s *Settings) { s.Logging.Level = "verbose" }},
		{"bad log format", func(s *Settings) { s.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager()
			require.NoError(t, err)

			tt.modify(m.Settings())
			assert.Error(t, m.Validate())
		})
	}
}

func TestValidateAcceptsCaseInsensitiveLevels(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	m.Settings().Logging.Level = "DEBUG"
	m.Settings().Logging.Format = "JSON"
	assert.NoError(t, m.Validate())
}

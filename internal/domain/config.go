package domain

import (
	"fmt"
)

// Default analysis parameters. Every option has a documented default so the
// demo runs with zero configuration.
const (
	DefaultPatientCount           = 100
	DefaultSeed                   = 42
	DefaultHighPriorityConfidence = 0.85
	DefaultHighPriorityRecovery   = 5000
	DefaultTopKAlerts             = 10
	DefaultRedFlagTableSize       = 15
)

// Config holds every analysis option. It replaces the original demo's
// positional (count, seed) launch parameters with an explicit struct.
type Config struct {
	// PatientCount is the size of the synthetic population.
	PatientCount int `mapstructure:"patient_count" json:"patient_count"`

	// Seed drives the single pseudo-random stream used for generation.
	// The same (PatientCount, Seed) pair always yields a byte-identical
	// report.
	Seed int64 `mapstructure:"seed" json:"seed"`

	// HighPriorityConfidence and HighPriorityRecovery are the thresholds an
	// alert must meet on both axes to be flagged high priority.
	HighPriorityConfidence float64 `mapstructure:"high_priority_confidence" json:"high_priority_confidence"`
	HighPriorityRecovery   float64 `mapstructure:"high_priority_recovery" json:"high_priority_recovery"`

	// TopKAlerts is the length of the ranked top-alert view.
	TopKAlerts int `mapstructure:"top_k_alerts" json:"top_k_alerts"`

	// RedFlagTableSize is the length of the per-patient rollup table.
	RedFlagTableSize int `mapstructure:"red_flag_table_size" json:"red_flag_table_size"`
}

// DefaultConfig returns the documented default analysis configuration.
func DefaultConfig() Config {
	return Config{
		PatientCount:           DefaultPatientCount,
		Seed:                   DefaultSeed,
		HighPriorityConfidence: DefaultHighPriorityConfidence,
		HighPriorityRecovery:   DefaultHighPriorityRecovery,
		TopKAlerts:             DefaultTopKAlerts,
		RedFlagTableSize:       DefaultRedFlagTableSize,
	}
}

// Validate fails fast before any generation happens. All failures wrap
// ErrInvalidConfiguration.
func (c Config) Validate() error {
	if c.PatientCount <= 0 {
		return fmt.Errorf("%w: patient count must be positive, got %d", ErrInvalidConfiguration, c.PatientCount)
	}
	if c.HighPriorityConfidence < 0 || c.HighPriorityConfidence > 1 {
		return fmt.Errorf("%w: high priority confidence must be in [0,1], got %g", ErrInvalidConfiguration, c.HighPriorityConfidence)
	}
	if c.HighPriorityRecovery < 0 {
		return fmt.Errorf("%w: high priority recovery threshold must be non-negative, got %g", ErrInvalidConfiguration, c.HighPriorityRecovery)
	}
	if c.TopKAlerts <= 0 {
		return fmt.Errorf("%w: top-K size must be positive, got %d", ErrInvalidConfiguration, c.TopKAlerts)
	}
	if c.RedFlagTableSize <= 0 {
		return fmt.Errorf("%w: red flag table size must be positive, got %d", ErrInvalidConfiguration, c.RedFlagTableSize)
	}
	return nil
}

// Key returns a stable identity for the configuration, used for report
// memoization and for deriving the deterministic run ID.
func (c Config) Key() string {
	return fmt.Sprintf("n=%d;seed=%d;hpc=%g;hpr=%g;topk=%d;redflag=%d",
		c.PatientCount, c.Seed, c.HighPriorityConfidence, c.HighPriorityRecovery,
		c.TopKAlerts, c.RedFlagTableSize)
}

// Package config loads runtime settings for the demo binary: analysis
// parameters plus logging. Sources are layered viper-style: built-in
// defaults, an optional config.yaml, then COB_-prefixed environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cob-agent/internal/domain"
)

// LoggingConfig controls log output of the demo binary.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Settings is everything the demo binary consumes.
type Settings struct {
	Analysis domain.Config `mapstructure:"analysis"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// Manager loads and validates settings.
type Manager struct {
	settings *Settings
}

// NewManager loads configuration from defaults, file, and environment.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) load() error {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("COB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// A config file is optional; defaults and env vars suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.settings = settings
	return nil
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultConfig()
	v.SetDefault("analysis.patient_count", def.PatientCount)
	v.SetDefault("analysis.seed", def.Seed)
	v.SetDefault("analysis.high_priority_confidence", def.HighPriorityConfidence)
	v.SetDefault("analysis.high_priority_recovery", def.HighPriorityRecovery)
	v.SetDefault("analysis.top_k_alerts", def.TopKAlerts)
	v.SetDefault("analysis.red_flag_table_size", def.RedFlagTableSize)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Settings returns the loaded settings.
func (m *Manager) Settings() *Settings {
	return m.settings
}

// Validate checks everything the demo needs before running.
func (m *Manager) Validate() error {
	if err := m.settings.Analysis.Validate(); err != nil {
		return err
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(m.settings.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", m.settings.Logging.Level)
	}

	switch strings.ToLower(m.settings.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", m.settings.Logging.Format)
	}

	return nil
}

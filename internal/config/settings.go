// Package config exposes the SLA configuration read from the taskpulse
// config file. Values are handed to the policy resolver as raw strings;
// anything missing or malformed falls back to defaults there.
package config

import (
	"context"

	"github.com/spf13/viper"

	"github.com/ihavespoons/taskpulse/internal/storage"
)

// ViperSettings reads global SLA settings from the viper configuration
// (config.yaml keys sla.hours and sla.thresholds, or the TASKPULSE_SLA_*
// environment variables).
type ViperSettings struct{}

// NewViperSettings creates a settings source backed by the process-wide
// viper configuration.
func NewViperSettings() *ViperSettings {
	return &ViperSettings{}
}

// SlaSettings returns the configured SLA hours and thresholds blob.
// Missing keys come back as empty strings.
func (s *ViperSettings) SlaSettings(ctx context.Context) (string, string, error) {
	return viper.GetString("sla.hours"), viper.GetString("sla.thresholds"), nil
}

// StaticSettings is a fixed in-memory settings source, used by the daemon
// once at startup and by tests.
type StaticSettings struct {
	Hours      string
	Thresholds string
}

// SlaSettings returns the fixed values.
func (s StaticSettings) SlaSettings(ctx context.Context) (string, string, error) {
	return s.Hours, s.Thresholds, nil
}

var (
	_ storage.SettingsRepository = (*ViperSettings)(nil)
	_ storage.SettingsRepository = StaticSettings{}
)

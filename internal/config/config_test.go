package config

import (
	"strings"
	"testing"

	"runcoach/internal/analysis"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test athlete defaults
	if cfg.Athlete.RestingHR != 50 {
		t.Errorf("Athlete.RestingHR = %v, want 50", cfg.Athlete.RestingHR)
	}
	if cfg.Athlete.MaxHR != 185 {
		t.Errorf("Athlete.MaxHR = %v, want 185", cfg.Athlete.MaxHR)
	}

	// Tunables ship at the current version with the standard thresholds
	if cfg.Tunables.Version != analysis.TunablesVersion {
		t.Errorf("Tunables.Version = %d, want %d", cfg.Tunables.Version, analysis.TunablesVersion)
	}
	if cfg.Tunables.MinValidPoints != 5 {
		t.Errorf("Tunables.MinValidPoints = %d, want 5", cfg.Tunables.MinValidPoints)
	}

	// Strava config should be empty by default
	if cfg.Strava.ClientID != "" {
		t.Errorf("Strava.ClientID should be empty, got %q", cfg.Strava.ClientID)
	}
	if cfg.Strava.ClientSecret != "" {
		t.Errorf("Strava.ClientSecret should be empty, got %q", cfg.Strava.ClientSecret)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Strava: StravaConfig{
			ClientID:     "12345",
			ClientSecret: "abc123secret",
		},
		Athlete: AthleteConfig{
			RestingHR: 50,
			MaxHR:     185,
			BirthDate: "1985-01-01",
		},
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "empty client ID",
			mutate:      func(c *Config) { c.Strava.ClientID = "" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client ID",
			mutate:      func(c *Config) { c.Strava.ClientID = "YOUR_CLIENT_ID" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "empty client secret",
			mutate:      func(c *Config) { c.Strava.ClientSecret = "" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "placeholder client secret",
			mutate:      func(c *Config) { c.Strava.ClientSecret = "YOUR_CLIENT_SECRET" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "resting at or above max",
			mutate:      func(c *Config) { c.Athlete.RestingHR = 185 },
			expectError: true,
			errContains: "resting_hr",
		},
		{
			name:        "missing birth date",
			mutate:      func(c *Config) { c.Athlete.BirthDate = "" },
			expectError: true,
			errContains: "birth_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

package sla

import (
	"testing"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

func TestResolve_Defaults(t *testing.T) {
	policy := Resolve(nil, RawSettings{})
	if policy != DefaultPolicy() {
		t.Errorf("Resolve(nil, empty) = %+v, want defaults %+v", policy, DefaultPolicy())
	}
}

func TestResolve_GlobalSettings(t *testing.T) {
	policy := Resolve(nil, RawSettings{Hours: "72", Thresholds: `{"amber": 8, "red": 1}`})
	if policy.Hours != 72 {
		t.Errorf("Hours = %d, want 72", policy.Hours)
	}
	if policy.AmberHours != 8 {
		t.Errorf("AmberHours = %v, want 8", policy.AmberHours)
	}
	if policy.RedHours != 1 {
		t.Errorf("RedHours = %v, want 1", policy.RedHours)
	}
}

func TestResolve_ProjectOverrideWins(t *testing.T) {
	hours := 24
	project := domain.NewProject("Billing")
	project.SlaHours = &hours

	policy := Resolve(project, RawSettings{Hours: "72"})
	if policy.Hours != 24 {
		t.Errorf("Hours = %d, want project override 24", policy.Hours)
	}
}

func TestResolve_MalformedSettingsFallBack(t *testing.T) {
	tests := []struct {
		name string
		raw  RawSettings
	}{
		{"garbage hours", RawSettings{Hours: "forty-eight"}},
		{"negative hours", RawSettings{Hours: "-3"}},
		{"zero hours", RawSettings{Hours: "0"}},
		{"garbage thresholds", RawSettings{Thresholds: "not json"}},
		{"wrong threshold shape", RawSettings{Thresholds: `[4, 0]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := Resolve(nil, tt.raw)
			if policy != DefaultPolicy() {
				t.Errorf("Resolve(nil, %+v) = %+v, want defaults", tt.raw, policy)
			}
		})
	}
}

func TestResolve_PartialThresholds(t *testing.T) {
	policy := Resolve(nil, RawSettings{Thresholds: `{"amber": 6}`})
	if policy.AmberHours != 6 {
		t.Errorf("AmberHours = %v, want 6", policy.AmberHours)
	}
	if policy.RedHours != DefaultRedHours {
		t.Errorf("RedHours = %v, want default %v", policy.RedHours, float64(DefaultRedHours))
	}
}

func TestResolve_InvalidProjectOverrideIgnored(t *testing.T) {
	hours := 0
	project := domain.NewProject("Billing")
	project.SlaHours = &hours

	policy := Resolve(project, RawSettings{Hours: "72"})
	if policy.Hours != 72 {
		t.Errorf("Hours = %d, want global 72 when project override is non-positive", policy.Hours)
	}
}

// Package sla computes SLA compliance for tasks: resolving the effective
// policy for a task and classifying its health at a point in time, with the
// deadline adjusted for accumulated clock pause time.
package sla

import (
	"encoding/json"
	"strconv"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

// Hard defaults used when neither the project nor the global settings
// provide a value.
const (
	DefaultHours      = 48
	DefaultAmberHours = 4
	DefaultRedHours   = 0
)

// Policy is the resolved SLA configuration for one evaluation: the SLA
// window in hours and the remaining-hours thresholds below which a task is
// classified tight (amber) or overdue (red).
type Policy struct {
	Hours      int
	AmberHours float64
	RedHours   float64
}

// DefaultPolicy returns the hard-coded fallback policy.
func DefaultPolicy() Policy {
	return Policy{Hours: DefaultHours, AmberHours: DefaultAmberHours, RedHours: DefaultRedHours}
}

// RawSettings carries the global SLA configuration exactly as the settings
// store provides it: an hours value and a thresholds JSON blob such as
// {"amber": 4, "red": 0}. Either field may be empty or malformed; the
// resolver falls back to defaults rather than failing an evaluation.
type RawSettings struct {
	Hours      string
	Thresholds string
}

// Resolve produces the effective policy for a task, applying precedence
// project override -> global settings -> defaults. It is pure; resolve once
// per batch and reuse the result across tasks.
func Resolve(project *domain.Project, raw RawSettings) Policy {
	policy := DefaultPolicy()

	if hours, err := strconv.Atoi(raw.Hours); err == nil && hours > 0 {
		policy.Hours = hours
	}

	if raw.Thresholds != "" {
		var thresholds struct {
			Amber *float64 `json:"amber"`
			Red   *float64 `json:"red"`
		}
		if err := json.Unmarshal([]byte(raw.Thresholds), &thresholds); err == nil {
			if thresholds.Amber != nil {
				policy.AmberHours = *thresholds.Amber
			}
			if thresholds.Red != nil {
				policy.RedHours = *thresholds.Red
			}
		}
	}

	if project != nil && project.SlaHours != nil && *project.SlaHours > 0 {
		policy.Hours = *project.SlaHours
	}

	return policy
}

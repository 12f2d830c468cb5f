package sla

import (
	"math"
	"time"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

// Health classifies a task's SLA compliance at an instant.
type Health string

const (
	// HealthNormal means the task has comfortable time remaining.
	HealthNormal Health = "normal"

	// HealthTight means remaining time has dropped below the amber threshold.
	HealthTight Health = "tight"

	// HealthOverdue means remaining time has dropped below the red threshold.
	HealthOverdue Health = "overdue"

	// HealthPaused means the SLA clock is currently paused.
	HealthPaused Health = "paused"

	// HealthOnTime means the task finished before its adjusted deadline.
	HealthOnTime Health = "on_time"

	// HealthCompletedLate means the task finished after its adjusted deadline.
	HealthCompletedLate Health = "completed_late"
)

// Level is the display color band carried alongside a health value.
type Level string

const (
	LevelGreen   Level = "green"
	LevelAmber   Level = "amber"
	LevelRed     Level = "red"
	LevelGrey    Level = "grey"
	LevelSuccess Level = "success"
)

// SortOrder returns the dashboard ordering rank for a health value, most
// urgent first: overdue, tight, paused, normal, then finished tasks.
func (h Health) SortOrder() int {
	switch h {
	case HealthOverdue:
		return 0
	case HealthTight:
		return 1
	case HealthPaused:
		return 2
	case HealthNormal:
		return 3
	default:
		return 4
	}
}

// Info is the result of one SLA evaluation. It is purely derived; list
// views, detail views, exports, and the sweep daemon all render from the
// same Info so a task classifies identically everywhere.
type Info struct {
	Health         Health
	Level          Level
	RemainingHours float64
	AdjustedDue    time.Time
	IsPaused       bool
	SortOrder      int
}

// Evaluate computes the SLA state of a task at the given instant.
//
// The effective due time is the task's explicit due date, or creation time
// plus the policy window when none is set. Every second the clock has spent
// paused pushes the deadline back by one second, so the unpaused time
// available to the task is invariant under pausing. A nil clock is treated
// as a clock that has never been paused.
//
// Classification priority: a finished task is on_time or completed_late
// regardless of whether the clock happens to be paused; otherwise paused
// wins over the remaining-time bands.
func Evaluate(task *domain.Task, clock *domain.SlaClock, policy Policy, asOf time.Time) Info {
	effectiveDue := task.Created.Add(time.Duration(policy.Hours) * time.Hour)
	if task.DueAt != nil {
		effectiveDue = *task.DueAt
	}

	var pausedSeconds int64
	isPaused := false
	if clock != nil {
		pausedSeconds = clock.PausedSecondsAsOf(asOf)
		isPaused = clock.IsPaused()
	}

	adjustedDue := effectiveDue.Add(time.Duration(pausedSeconds) * time.Second)
	remainingHours := adjustedDue.Sub(asOf).Hours()

	health := HealthNormal
	level := LevelGreen

	switch {
	case task.Status.IsTerminal():
		doneAt := asOf
		if task.CompletedAt != nil {
			doneAt = *task.CompletedAt
		}
		if !doneAt.After(adjustedDue) {
			health = HealthOnTime
			level = LevelSuccess
		} else {
			health = HealthCompletedLate
			level = LevelRed
		}
		// Remaining time is meaningless once the task is finished.
		remainingHours = 0

	case isPaused:
		health = HealthPaused
		level = LevelGrey

	case remainingHours < policy.RedHours:
		health = HealthOverdue
		level = LevelRed

	case remainingHours < policy.AmberHours:
		health = HealthTight
		level = LevelAmber
	}

	return Info{
		Health:         health,
		Level:          level,
		RemainingHours: roundTenth(remainingHours),
		AdjustedDue:    adjustedDue,
		IsPaused:       isPaused,
		SortOrder:      health.SortOrder(),
	}
}

func roundTenth(hours float64) float64 {
	return math.Round(hours*10) / 10
}

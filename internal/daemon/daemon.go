// Package daemon provides the background SLA sweep: a scheduled pass over
// every task that classifies its compliance and records threshold
// crossings.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/robfig/cron/v3"

	"github.com/ihavespoons/taskpulse/internal/service"
	"github.com/ihavespoons/taskpulse/internal/sla"
)

// DefaultSchedule runs the sweep every five minutes.
const DefaultSchedule = "@every 5m"

// Daemon runs the scheduled SLA sweep.
type Daemon struct {
	client    service.Client
	scheduler *cron.Cron
	logger    hclog.Logger
	schedule  string
	job       cron.EntryID
}

// Config contains daemon configuration.
type Config struct {
	Client service.Client
	Logger hclog.Logger

	// Schedule is a cron expression or @every duration for the sweep.
	Schedule string
}

// NewDaemon creates a new daemon.
func NewDaemon(cfg Config) *Daemon {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}

	return &Daemon{
		client:    cfg.Client,
		scheduler: cron.New(),
		logger:    logger,
		schedule:  schedule,
	}
}

// Start schedules the sweep and runs it once immediately.
func (d *Daemon) Start(ctx context.Context) error {
	d.logger.Info("starting sla sweep daemon", "schedule", d.schedule)

	entryID, err := d.scheduler.AddFunc(d.schedule, func() {
		if err := d.Sweep(context.Background()); err != nil {
			d.logger.Error("sla sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	d.job = entryID

	if err := d.Sweep(ctx); err != nil {
		d.logger.Error("initial sla sweep failed", "error", err)
	}

	d.scheduler.Start()
	d.logger.Info("sla sweep daemon started")
	return nil
}

// Stop stops the scheduler.
func (d *Daemon) Stop() {
	d.logger.Info("stopping sla sweep daemon")
	d.scheduler.Stop()
	d.logger.Info("sla sweep daemon stopped")
}

// Sweep evaluates every task once and records threshold crossings. Each
// crossing is stamped on the task the first time it is seen, so a breach is
// logged exactly once even though the sweep keeps re-evaluating.
func (d *Daemon) Sweep(ctx context.Context) error {
	now := time.Now().UTC()

	results, err := d.client.EvaluateAll(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to evaluate tasks: %w", err)
	}

	var tight, overdue int
	for _, result := range results {
		switch result.Info.Health {
		case sla.HealthTight:
			tight++
		case sla.HealthOverdue:
			overdue++
		}

		if err := d.recordCrossings(ctx, result, now); err != nil {
			d.logger.Error("failed to record sla notice",
				"task", result.Task.ID, "error", err)
		}
	}

	d.logger.Info("sla sweep complete",
		"tasks", len(results), "tight", tight, "overdue", overdue)
	return nil
}

func (d *Daemon) recordCrossings(ctx context.Context, result service.TaskSla, now time.Time) error {
	task, info := result.Task, result.Info
	changed := false

	if info.Health == sla.HealthTight && task.AmberNotedAt == nil {
		task.AmberNotedAt = &now
		changed = true
		d.logger.Warn("task approaching sla deadline",
			"task", task.ID, "title", task.Title,
			"remaining_hours", info.RemainingHours)
	}

	if info.Health == sla.HealthOverdue {
		if task.RedNotedAt == nil {
			task.RedNotedAt = &now
			changed = true
			d.logger.Warn("task crossed red sla threshold",
				"task", task.ID, "title", task.Title,
				"remaining_hours", info.RemainingHours)
		}
		if info.RemainingHours < 0 && task.OverdueNotedAt == nil {
			task.OverdueNotedAt = &now
			changed = true
			d.logger.Error("task overdue",
				"task", task.ID, "title", task.Title,
				"adjusted_due", info.AdjustedDue)
		}
	}

	if !changed {
		return nil
	}
	return d.client.UpdateTask(ctx, task)
}

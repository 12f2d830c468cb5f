package service

import (
	"context"
	"errors"
	"time"

	"github.com/ihavespoons/taskpulse/internal/domain"
	"github.com/ihavespoons/taskpulse/internal/sla"
)

var (
	// ErrInvalidTransition is returned when a requested status change is
	// not legal for the task's category. The task is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrClockContention is returned when a pause/resume keeps losing the
	// clock's compare-and-set race after all retries.
	ErrClockContention = errors.New("sla clock contention, try again")
)

// TaskSla pairs a task with its SLA evaluation for list and export views.
type TaskSla struct {
	Task *domain.Task
	Info sla.Info
}

// Client is the key abstraction the CLI, daemon, and export paths program
// against.
type Client interface {
	ProjectService
	TaskService
	SlaService
}

// ProjectService defines project operations
type ProjectService interface {
	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, project *domain.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// TaskService defines task operations
type TaskService interface {
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	GetTaskBySlug(ctx context.Context, projectSlug, taskSlug string) (*domain.Task, error)
	ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListAllTasks(ctx context.Context) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id string) error

	// ChangeStatus validates and applies a status transition, maintaining
	// the completion timestamp and the clock side effects for blocked
	// statuses.
	ChangeStatus(ctx context.Context, id string, next domain.Status) error

	// AllowedTransitions returns the statuses a task may move to next,
	// for offering choices in a UI without side effects.
	AllowedTransitions(ctx context.Context, id string) ([]domain.Status, error)
}

// SlaService defines SLA clock and evaluation operations
type SlaService interface {
	// PauseClock pauses the task's SLA clock as of now.
	PauseClock(ctx context.Context, taskID string, now time.Time) error

	// ResumeClock resumes the task's SLA clock as of now.
	ResumeClock(ctx context.Context, taskID string, now time.Time) error

	// GetClock loads the task's SLA clock, creating none.
	GetClock(ctx context.Context, taskID string) (*domain.SlaClock, error)

	// EvaluateTask classifies one task's SLA health at the given instant.
	EvaluateTask(ctx context.Context, taskID string, asOf time.Time) (sla.Info, error)

	// EvaluateAll classifies every task at the given instant, resolving
	// the global settings once and reusing them across the batch.
	EvaluateAll(ctx context.Context, asOf time.Time) ([]TaskSla, error)
}

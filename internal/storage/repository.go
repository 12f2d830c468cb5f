package storage

import (
	"context"
	"errors"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

// ErrVersionConflict is returned when a clock write loses a compare-and-set
// race. Callers retry the whole pause/resume operation against fresh state.
var ErrVersionConflict = errors.New("sla clock version conflict")

// ProjectRepository defines operations for storing and retrieving Projects
type ProjectRepository interface {
	// Create stores a new project
	Create(ctx context.Context, project *domain.Project) error

	// Get retrieves a project by ID
	Get(ctx context.Context, id string) (*domain.Project, error)

	// GetBySlug retrieves a project by its slug
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)

	// List returns all projects
	List(ctx context.Context) ([]*domain.Project, error)

	// Update saves changes to an existing project
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project by ID
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines operations for storing and retrieving Tasks
type TaskRepository interface {
	// Create stores a new task
	Create(ctx context.Context, task *domain.Task) error

	// Get retrieves a task by ID
	Get(ctx context.Context, id string) (*domain.Task, error)

	// GetBySlug retrieves a task by its slug within a project
	GetBySlug(ctx context.Context, projectSlug, taskSlug string) (*domain.Task, error)

	// List returns all tasks for a project
	List(ctx context.Context, projectID string) ([]*domain.Task, error)

	// ListAll returns all tasks
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// Update saves changes to an existing task
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID
	Delete(ctx context.Context, id string) error
}

// ClockRepository stores the one-to-one SLA clock for each task.
//
// Get never fails just because a task has no clock yet: clocks are created
// lazily, so an absent record loads as a fresh unpaused clock at version
// zero. Update is a compare-and-set on the clock's Version and returns
// ErrVersionConflict when another writer got there first.
type ClockRepository interface {
	// Get loads the clock for a task, or a fresh zero-version clock if
	// none has been persisted yet.
	Get(ctx context.Context, taskID string) (*domain.SlaClock, error)

	// Update persists the clock if its Version still matches the stored
	// one, bumping the version on success.
	Update(ctx context.Context, clock *domain.SlaClock) error

	// Delete removes the clock for a task, if any.
	Delete(ctx context.Context, taskID string) error
}

// SettingsRepository provides the global SLA configuration as raw values;
// decoding and defaulting live in the policy resolver.
type SettingsRepository interface {
	// SlaSettings returns the configured SLA hours and thresholds blob.
	// Missing values come back empty.
	SlaSettings(ctx context.Context) (hours, thresholds string, err error)
}

// TaskFilter defines filtering options for listing tasks
type TaskFilter struct {
	Status   *domain.Status
	Category *domain.Category
	Priority *domain.Priority
}

// Matches reports whether a task passes every set filter field.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if f.Status != nil && task.Status != *f.Status {
		return false
	}
	if f.Category != nil && task.Category != *f.Category {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	return true
}

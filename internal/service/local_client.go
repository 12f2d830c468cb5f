package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ihavespoons/taskpulse/internal/domain"
	"github.com/ihavespoons/taskpulse/internal/lifecycle"
	"github.com/ihavespoons/taskpulse/internal/sla"
	"github.com/ihavespoons/taskpulse/internal/storage"
	"github.com/ihavespoons/taskpulse/internal/storage/markdown"
)

// clockRetries bounds how often a pause/resume is retried after losing the
// clock's compare-and-set race.
const clockRetries = 3

// LocalClient implements Client directly against the local store.
type LocalClient struct {
	store    *markdown.Store
	settings storage.SettingsRepository
}

// NewLocalClient creates a new local client with direct access to storage
func NewLocalClient(store *markdown.Store, settings storage.SettingsRepository) *LocalClient {
	return &LocalClient{store: store, settings: settings}
}

// Store returns the underlying store for direct access when needed
func (c *LocalClient) Store() *markdown.Store {
	return c.store
}

// ProjectService implementation

func (c *LocalClient) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := c.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (c *LocalClient) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return c.store.Projects().Get(ctx, id)
}

func (c *LocalClient) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return c.store.Projects().GetBySlug(ctx, slug)
}

func (c *LocalClient) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return c.store.Projects().List(ctx)
}

func (c *LocalClient) UpdateProject(ctx context.Context, project *domain.Project) error {
	return c.store.Projects().Update(ctx, project)
}

func (c *LocalClient) DeleteProject(ctx context.Context, id string) error {
	return c.store.Projects().Delete(ctx, id)
}

// TaskService implementation

func (c *LocalClient) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	// A bug created with the generic default status starts over in its
	// own domain.
	lifecycle.NormalizeNewTask(task)
	if err := c.store.Tasks().Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *LocalClient) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return c.store.Tasks().Get(ctx, id)
}

func (c *LocalClient) GetTaskBySlug(ctx context.Context, projectSlug, taskSlug string) (*domain.Task, error) {
	return c.store.Tasks().GetBySlug(ctx, projectSlug, taskSlug)
}

func (c *LocalClient) ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return c.store.Tasks().List(ctx, projectID)
}

func (c *LocalClient) ListAllTasks(ctx context.Context) ([]*domain.Task, error) {
	return c.store.Tasks().ListAll(ctx)
}

func (c *LocalClient) UpdateTask(ctx context.Context, task *domain.Task) error {
	return c.store.Tasks().Update(ctx, task)
}

func (c *LocalClient) DeleteTask(ctx context.Context, id string) error {
	return c.store.Tasks().Delete(ctx, id)
}

// ChangeStatus validates the transition for the task's category, applies
// it together with the completion timestamp bookkeeping, and pauses or
// resumes the SLA clock when the task enters or leaves the blocked status.
// An illegal transition returns ErrInvalidTransition with the task left
// untouched.
func (c *LocalClient) ChangeStatus(ctx context.Context, id string, next domain.Status) error {
	task, err := c.store.Tasks().Get(ctx, id)
	if err != nil {
		return err
	}

	current := task.Status
	if !lifecycle.ValidateTransition(task.Category, current, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}

	now := time.Now().UTC()
	task.Status = next
	task.MarkCompleted(now)

	if err := c.store.Tasks().Update(ctx, task); err != nil {
		return err
	}

	// Blocked time doesn't count against the SLA.
	if next == domain.StatusBlocked && current != domain.StatusBlocked {
		return c.PauseClock(ctx, id, now)
	}
	if current == domain.StatusBlocked && next != domain.StatusBlocked {
		return c.ResumeClock(ctx, id, now)
	}
	return nil
}

func (c *LocalClient) AllowedTransitions(ctx context.Context, id string) ([]domain.Status, error) {
	task, err := c.store.Tasks().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return lifecycle.AllowedNextStatuses(task.Category, task.Status), nil
}

// SlaService implementation

func (c *LocalClient) GetClock(ctx context.Context, taskID string) (*domain.SlaClock, error) {
	return c.store.Clocks().Get(ctx, taskID)
}

// PauseClock pauses the task's SLA clock, retrying the read-modify-write
// when a concurrent mutation wins the version race.
func (c *LocalClient) PauseClock(ctx context.Context, taskID string, now time.Time) error {
	return c.mutateClock(ctx, taskID, func(clock *domain.SlaClock) {
		clock.Pause(now)
	})
}

// ResumeClock resumes the task's SLA clock, folding the closed pause window
// into the accumulated total.
func (c *LocalClient) ResumeClock(ctx context.Context, taskID string, now time.Time) error {
	return c.mutateClock(ctx, taskID, func(clock *domain.SlaClock) {
		clock.Resume(now)
	})
}

func (c *LocalClient) mutateClock(ctx context.Context, taskID string, mutate func(*domain.SlaClock)) error {
	var lastErr error
	for attempt := 0; attempt < clockRetries; attempt++ {
		clock, err := c.store.Clocks().Get(ctx, taskID)
		if err != nil {
			return err
		}

		mutate(clock)

		err = c.store.Clocks().Update(ctx, clock)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrClockContention, lastErr)
}

func (c *LocalClient) EvaluateTask(ctx context.Context, taskID string, asOf time.Time) (sla.Info, error) {
	task, err := c.store.Tasks().Get(ctx, taskID)
	if err != nil {
		return sla.Info{}, err
	}

	clock, err := c.store.Clocks().Get(ctx, taskID)
	if err != nil {
		return sla.Info{}, err
	}

	project, err := c.store.Projects().Get(ctx, task.ProjectID)
	if err != nil {
		return sla.Info{}, err
	}

	policy, err := c.resolvePolicy(ctx, project)
	if err != nil {
		return sla.Info{}, err
	}

	return sla.Evaluate(task, clock, policy, asOf), nil
}

// EvaluateAll classifies every task at the given instant, resolving the
// global settings once and the per-project policy once per project. The
// result is ordered most urgent first.
func (c *LocalClient) EvaluateAll(ctx context.Context, asOf time.Time) ([]TaskSla, error) {
	projects, err := c.store.Projects().List(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.rawSettings(ctx)
	if err != nil {
		return nil, err
	}

	var results []TaskSla
	for _, project := range projects {
		policy := sla.Resolve(project, raw)

		tasks, err := c.store.Tasks().List(ctx, project.ID)
		if err != nil {
			return nil, err
		}

		for _, task := range tasks {
			clock, err := c.store.Clocks().Get(ctx, task.ID)
			if err != nil {
				return nil, err
			}
			results = append(results, TaskSla{
				Task: task,
				Info: sla.Evaluate(task, clock, policy, asOf),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Info.SortOrder != results[j].Info.SortOrder {
			return results[i].Info.SortOrder < results[j].Info.SortOrder
		}
		return results[i].Info.RemainingHours < results[j].Info.RemainingHours
	})

	return results, nil
}

func (c *LocalClient) rawSettings(ctx context.Context) (sla.RawSettings, error) {
	if c.settings == nil {
		return sla.RawSettings{}, nil
	}
	hours, thresholds, err := c.settings.SlaSettings(ctx)
	if err != nil {
		// A broken settings source falls back to defaults rather than
		// failing the evaluation.
		return sla.RawSettings{}, nil
	}
	return sla.RawSettings{Hours: hours, Thresholds: thresholds}, nil
}

func (c *LocalClient) resolvePolicy(ctx context.Context, project *domain.Project) (sla.Policy, error) {
	raw, err := c.rawSettings(ctx)
	if err != nil {
		return sla.DefaultPolicy(), nil
	}
	return sla.Resolve(project, raw), nil
}

// Ensure LocalClient implements Client
var _ Client = (*LocalClient)(nil)

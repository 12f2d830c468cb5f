package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ihavespoons/taskpulse/internal/config"
	"github.com/ihavespoons/taskpulse/internal/domain"
	"github.com/ihavespoons/taskpulse/internal/sla"
	"github.com/ihavespoons/taskpulse/internal/storage/markdown"
)

func newTestClient(t *testing.T) (*LocalClient, *domain.Project) {
	t.Helper()

	store := markdown.NewStore(t.TempDir())
	if err := store.Initialize(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	client := NewLocalClient(store, config.StaticSettings{})

	project := domain.NewProject("Platform")
	if _, err := client.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return client, project
}

func createTask(t *testing.T, client *LocalClient, project *domain.Project, title string, category domain.Category) *domain.Task {
	t.Helper()
	task := domain.NewTask(title, project.ID, category)
	created, err := client.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return created
}

func TestCreateTask_BugStartsInNew(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	bug := createTask(t, client, project, "Crash on save", domain.CategoryBug)
	if bug.Status != domain.StatusNew {
		t.Errorf("new bug status = %s, want new", bug.Status)
	}

	loaded, err := client.GetTask(ctx, bug.ID)
	if err != nil {
		t.Fatalf("failed to load bug: %v", err)
	}
	if loaded.Status != domain.StatusNew {
		t.Errorf("stored bug status = %s, want new", loaded.Status)
	}
}

func TestCreateTask_GenericStartsInTodo(t *testing.T) {
	client, project := newTestClient(t)

	task := createTask(t, client, project, "Write docs", domain.CategoryTask)
	if task.Status != domain.StatusTodo {
		t.Errorf("new task status = %s, want todo", task.Status)
	}
}

func TestChangeStatus_LegalBugFlow(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	bug := createTask(t, client, project, "Crash on save", domain.CategoryBug)

	steps := []domain.Status{
		domain.StatusConfirmed,
		domain.StatusFixing,
		domain.StatusVerifying,
		domain.StatusClosed,
	}
	for _, next := range steps {
		if err := client.ChangeStatus(ctx, bug.ID, next); err != nil {
			t.Fatalf("ChangeStatus to %s failed: %v", next, err)
		}
	}

	loaded, err := client.GetTask(ctx, bug.ID)
	if err != nil {
		t.Fatalf("failed to load bug: %v", err)
	}
	if loaded.Status != domain.StatusClosed {
		t.Errorf("status = %s, want closed", loaded.Status)
	}
	if loaded.CompletedAt == nil {
		t.Error("CompletedAt not set after closing")
	}
}

func TestChangeStatus_IllegalTransitionLeavesTaskUntouched(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	bug := createTask(t, client, project, "Crash on save", domain.CategoryBug)

	err := client.ChangeStatus(ctx, bug.ID, domain.StatusClosed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ChangeStatus(new -> closed) error = %v, want ErrInvalidTransition", err)
	}

	loaded, err := client.GetTask(ctx, bug.ID)
	if err != nil {
		t.Fatalf("failed to load bug: %v", err)
	}
	if loaded.Status != domain.StatusNew {
		t.Errorf("status = %s, want unchanged new", loaded.Status)
	}
	if loaded.CompletedAt != nil {
		t.Error("CompletedAt set by a rejected transition")
	}
}

func TestChangeStatus_ReopenClearsCompletedAt(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	task := createTask(t, client, project, "Write docs", domain.CategoryTask)

	if err := client.ChangeStatus(ctx, task.ID, domain.StatusDone); err != nil {
		t.Fatalf("ChangeStatus to done failed: %v", err)
	}
	if err := client.ChangeStatus(ctx, task.ID, domain.StatusTodo); err != nil {
		t.Fatalf("ChangeStatus back to todo failed: %v", err)
	}

	loaded, err := client.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to load task: %v", err)
	}
	if loaded.CompletedAt != nil {
		t.Error("CompletedAt still set after reopening")
	}
}

func TestChangeStatus_BlockedPausesAndResumesClock(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	task := createTask(t, client, project, "Write docs", domain.CategoryTask)

	if err := client.ChangeStatus(ctx, task.ID, domain.StatusBlocked); err != nil {
		t.Fatalf("ChangeStatus to blocked failed: %v", err)
	}

	clock, err := client.GetClock(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to load clock: %v", err)
	}
	if !clock.IsPaused() {
		t.Fatal("clock not paused after entering blocked")
	}

	if err := client.ChangeStatus(ctx, task.ID, domain.StatusInProgress); err != nil {
		t.Fatalf("ChangeStatus to in_progress failed: %v", err)
	}

	clock, err = client.GetClock(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to load clock: %v", err)
	}
	if clock.IsPaused() {
		t.Error("clock still paused after leaving blocked")
	}
}

func TestPauseClock_Idempotent(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	task := createTask(t, client, project, "Write docs", domain.CategoryTask)
	pausedAt := time.Now().UTC().Add(-time.Hour)

	if err := client.PauseClock(ctx, task.ID, pausedAt); err != nil {
		t.Fatalf("PauseClock failed: %v", err)
	}
	if err := client.PauseClock(ctx, task.ID, pausedAt.Add(30*time.Minute)); err != nil {
		t.Fatalf("second PauseClock failed: %v", err)
	}

	clock, err := client.GetClock(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to load clock: %v", err)
	}
	if clock.PausedAt == nil || !clock.PausedAt.Equal(pausedAt) {
		t.Errorf("PausedAt = %v, want original %v", clock.PausedAt, pausedAt)
	}

	if err := client.ResumeClock(ctx, task.ID, pausedAt.Add(time.Hour)); err != nil {
		t.Fatalf("ResumeClock failed: %v", err)
	}

	clock, err = client.GetClock(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to load clock: %v", err)
	}
	if clock.TotalPausedSeconds != 3600 {
		t.Errorf("TotalPausedSeconds = %d, want 3600", clock.TotalPausedSeconds)
	}
}

func TestResumeClock_WithoutPauseIsNoop(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	task := createTask(t, client, project, "Write docs", domain.CategoryTask)

	if err := client.ResumeClock(ctx, task.ID, time.Now().UTC()); err != nil {
		t.Fatalf("ResumeClock failed: %v", err)
	}

	clock, err := client.GetClock(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to load clock: %v", err)
	}
	if clock.TotalPausedSeconds != 0 || clock.IsPaused() {
		t.Errorf("clock mutated by lone resume: %+v", clock)
	}
}

func TestAllowedTransitions(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	bug := createTask(t, client, project, "Crash on save", domain.CategoryBug)

	allowed, err := client.AllowedTransitions(ctx, bug.ID)
	if err != nil {
		t.Fatalf("AllowedTransitions failed: %v", err)
	}
	if len(allowed) != 1 || allowed[0] != domain.StatusConfirmed {
		t.Errorf("AllowedTransitions(new bug) = %v, want [confirmed]", allowed)
	}
}

func TestEvaluateTask_UsesProjectOverride(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	hours := 12
	project.SlaHours = &hours
	if err := client.UpdateProject(ctx, project); err != nil {
		t.Fatalf("failed to update project: %v", err)
	}

	task := createTask(t, client, project, "Write docs", domain.CategoryTask)

	info, err := client.EvaluateTask(ctx, task.ID, task.Created)
	if err != nil {
		t.Fatalf("EvaluateTask failed: %v", err)
	}
	if info.RemainingHours != 12.0 {
		t.Errorf("RemainingHours = %v, want project override 12.0", info.RemainingHours)
	}
}

func TestEvaluateAll_OrdersMostUrgentFirst(t *testing.T) {
	client, project := newTestClient(t)
	ctx := context.Background()

	fresh := createTask(t, client, project, "Fresh work", domain.CategoryTask)

	overdue := domain.NewTask("Stale work", project.ID, domain.CategoryTask)
	overdue.Created = time.Now().UTC().Add(-100 * time.Hour)
	if _, err := client.CreateTask(ctx, overdue); err != nil {
		t.Fatalf("failed to create overdue task: %v", err)
	}

	results, err := client.EvaluateAll(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("EvaluateAll failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("EvaluateAll returned %d results, want 2", len(results))
	}

	if results[0].Task.ID != overdue.ID {
		t.Errorf("first result = %s, want overdue task first", results[0].Task.Title)
	}
	if results[0].Info.Health != sla.HealthOverdue {
		t.Errorf("first result health = %s, want overdue", results[0].Info.Health)
	}
	if results[1].Task.ID != fresh.ID {
		t.Errorf("second result = %s, want fresh task", results[1].Task.Title)
	}
}

func TestEvaluateAll_GlobalSettingsApply(t *testing.T) {
	store := markdown.NewStore(t.TempDir())
	if err := store.Initialize(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	client := NewLocalClient(store, config.StaticSettings{
		Hours:      "10",
		Thresholds: `{"amber": 2, "red": 0}`,
	})
	ctx := context.Background()

	project := domain.NewProject("Platform")
	if _, err := client.CreateProject(ctx, project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	task := createTask(t, client, project, "Write docs", domain.CategoryTask)

	info, err := client.EvaluateTask(ctx, task.ID, task.Created)
	if err != nil {
		t.Fatalf("EvaluateTask failed: %v", err)
	}
	if info.RemainingHours != 10.0 {
		t.Errorf("RemainingHours = %v, want 10.0 from global settings", info.RemainingHours)
	}
}

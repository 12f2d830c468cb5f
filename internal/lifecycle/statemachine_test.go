package lifecycle

import (
	"testing"

	"github.com/ihavespoons/taskpulse/internal/domain"
)

func TestAllowedNextStatuses_Task(t *testing.T) {
	// Generic tasks form a complete graph over their own domain.
	for _, current := range domain.TaskStatuses() {
		got := AllowedNextStatuses(domain.CategoryTask, current)
		if len(got) != len(domain.TaskStatuses()) {
			t.Fatalf("AllowedNextStatuses(task, %s) returned %d statuses, want %d", current, len(got), len(domain.TaskStatuses()))
		}
		for _, want := range domain.TaskStatuses() {
			if !contains(got, want) {
				t.Errorf("AllowedNextStatuses(task, %s) missing %s", current, want)
			}
		}
	}
}

func TestAllowedNextStatuses_Bug(t *testing.T) {
	tests := []struct {
		current domain.Status
		want    []domain.Status
	}{
		{domain.StatusNew, []domain.Status{domain.StatusConfirmed}},
		{domain.StatusConfirmed, []domain.Status{domain.StatusFixing}},
		{domain.StatusFixing, []domain.Status{domain.StatusVerifying}},
		{domain.StatusVerifying, []domain.Status{domain.StatusClosed, domain.StatusFixing}},
		{domain.StatusClosed, []domain.Status{domain.StatusNew, domain.StatusFixing}},

		// Statuses outside the bug domain force a reset to new.
		{domain.StatusTodo, []domain.Status{domain.StatusNew}},
		{domain.StatusInReview, []domain.Status{domain.StatusNew}},
		{domain.Status("bogus"), []domain.Status{domain.StatusNew}},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			got := AllowedNextStatuses(domain.CategoryBug, tt.current)
			if len(got) != len(tt.want) {
				t.Fatalf("AllowedNextStatuses(bug, %s) = %v, want %v", tt.current, got, tt.want)
			}
			for _, want := range tt.want {
				if !contains(got, want) {
					t.Errorf("AllowedNextStatuses(bug, %s) = %v, missing %s", tt.current, got, want)
				}
			}
		})
	}
}

func TestValidateTransition_SelfTransitionAlwaysLegal(t *testing.T) {
	for _, category := range domain.ValidCategories() {
		for _, status := range append(domain.TaskStatuses(), domain.BugStatuses()...) {
			if !ValidateTransition(category, status, status) {
				t.Errorf("ValidateTransition(%s, %s, %s) = false, want true", category, status, status)
			}
		}
	}
}

func TestValidateTransition_Task(t *testing.T) {
	// Any pair within the task domain is legal.
	for _, from := range domain.TaskStatuses() {
		for _, to := range domain.TaskStatuses() {
			if !ValidateTransition(domain.CategoryTask, from, to) {
				t.Errorf("ValidateTransition(task, %s, %s) = false, want true", from, to)
			}
		}
	}

	// Bug-only statuses sit outside the task domain.
	for _, from := range domain.TaskStatuses() {
		if ValidateTransition(domain.CategoryTask, from, domain.StatusNew) {
			t.Errorf("ValidateTransition(task, %s, new) = true, want false", from)
		}
	}
}

func TestValidateTransition_Bug(t *testing.T) {
	tests := []struct {
		from, to domain.Status
		want     bool
	}{
		{domain.StatusNew, domain.StatusConfirmed, true},
		{domain.StatusNew, domain.StatusClosed, false},
		{domain.StatusNew, domain.StatusFixing, false},
		{domain.StatusConfirmed, domain.StatusFixing, true},
		{domain.StatusConfirmed, domain.StatusVerifying, false},
		{domain.StatusFixing, domain.StatusVerifying, true},
		{domain.StatusVerifying, domain.StatusClosed, true},
		{domain.StatusVerifying, domain.StatusFixing, true},
		{domain.StatusVerifying, domain.StatusNew, false},
		{domain.StatusClosed, domain.StatusNew, true},
		{domain.StatusClosed, domain.StatusFixing, true},
		{domain.StatusClosed, domain.StatusVerifying, false},

		// A bug stranded in a task-domain status may only reset to new.
		{domain.StatusTodo, domain.StatusNew, true},
		{domain.StatusTodo, domain.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := ValidateTransition(domain.CategoryBug, tt.from, tt.to); got != tt.want {
				t.Errorf("ValidateTransition(bug, %s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(domain.CategoryBug); got != domain.StatusNew {
		t.Errorf("InitialStatus(bug) = %s, want new", got)
	}
	if got := InitialStatus(domain.CategoryTask); got != domain.StatusTodo {
		t.Errorf("InitialStatus(task) = %s, want todo", got)
	}
}

func TestNormalizeNewTask(t *testing.T) {
	bug := domain.NewTask("Crash on save", "proj-1", domain.CategoryBug)
	NormalizeNewTask(bug)
	if bug.Status != domain.StatusNew {
		t.Errorf("normalized bug status = %s, want new", bug.Status)
	}

	task := domain.NewTask("Write docs", "proj-1", domain.CategoryTask)
	NormalizeNewTask(task)
	if task.Status != domain.StatusTodo {
		t.Errorf("normalized task status = %s, want todo", task.Status)
	}
}

func contains(statuses []domain.Status, want domain.Status) bool {
	for _, s := range statuses {
		if s == want {
			return true
		}
	}
	return false
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task represents a single tracked work item within a project
type Task struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Type      string     `yaml:"type"`
	URL       string     `yaml:"url,omitempty"`
	ProjectID string     `yaml:"project_id"`
	Category  Category   `yaml:"category"`
	Status    Status     `yaml:"status"`
	Priority  Priority   `yaml:"priority"`
	Assignee  string     `yaml:"assignee,omitempty"`
	Tags      []string   `yaml:"tags,omitempty"`
	DueAt     *time.Time `yaml:"due_at,omitempty"`

	// CompletedAt is set when the task enters a terminal status and
	// cleared again if the task is reopened.
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`

	// Breach notice timestamps, stamped by the SLA sweep daemon so each
	// threshold crossing is recorded exactly once.
	AmberNotedAt   *time.Time `yaml:"amber_noted_at,omitempty"`
	RedNotedAt     *time.Time `yaml:"red_noted_at,omitempty"`
	OverdueNotedAt *time.Time `yaml:"overdue_noted_at,omitempty"`

	Timestamps

	// Content holds the markdown body (not stored in frontmatter)
	Content string `yaml:"-"`
}

// NewTask creates a new Task with generated ID and timestamps. The status
// starts at the todo default; callers creating a bug are expected to apply
// lifecycle.InitialStatus so a fresh bug never sits in a task-domain status.
func NewTask(title, projectID string, category Category) *Task {
	t := &Task{
		ID:        fmt.Sprintf("task-%s", uuid.New().String()[:8]),
		Title:     title,
		Type:      "task",
		ProjectID: projectID,
		Category:  category,
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		Tags:      []string{},
	}
	t.SetCreated()
	return t
}

// Slug returns a URL-safe identifier derived from the title
func (t *Task) Slug() string {
	slug := strings.ToLower(t.Title)
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Validate checks if the task has all required fields
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID is required")
	}
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.Type != "task" {
		return fmt.Errorf("task type must be 'task', got '%s'", t.Type)
	}
	if t.ProjectID == "" {
		return fmt.Errorf("task project_id is required")
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("task category must be one of %v, got '%s'", ValidCategories(), t.Category)
	}
	if t.CompletedAt != nil && t.CompletedAt.Before(t.Created) {
		return fmt.Errorf("task completed_at cannot precede created timestamp")
	}
	return nil
}

// IsComplete returns true if the task is in a terminal status
func (t *Task) IsComplete() bool {
	return t.Status.IsTerminal()
}

// IsBlocked returns true if the task is blocked
func (t *Task) IsBlocked() bool {
	return t.Status == StatusBlocked
}

// MarkCompleted stamps CompletedAt if the task just entered a terminal
// status, or clears it when the task left one.
func (t *Task) MarkCompleted(now time.Time) {
	if t.Status.IsTerminal() {
		if t.CompletedAt == nil {
			at := now.UTC()
			t.CompletedAt = &at
		}
	} else {
		t.CompletedAt = nil
	}
}

// HasTag returns true if the task has the specified tag
func (t *Task) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// AddTag adds a tag if it doesn't already exist
func (t *Task) AddTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
	t.UpdateTimestamp()
}

package domain

import "time"

// Category determines which status domain and transition rules apply to a task.
type Category string

const (
	CategoryTask Category = "task"
	CategoryBug  Category = "bug"
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategoryTask, CategoryBug}
}

// IsValid returns true if the category is a known valid value.
func (c Category) IsValid() bool {
	return c == CategoryTask || c == CategoryBug
}

// Status represents the current state of a task. The set of meaningful
// values depends on the task's category: generic tasks move through the
// todo..closed group, bugs through the new..closed group.
type Status string

const (
	// Generic task statuses
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
	StatusClosed     Status = "closed"

	// Bug workflow statuses
	StatusNew       Status = "new"
	StatusConfirmed Status = "confirmed"
	StatusFixing    Status = "fixing"
	StatusVerifying Status = "verifying"
)

// TaskStatuses returns the status domain for generic tasks.
func TaskStatuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusBlocked, StatusInReview, StatusDone, StatusClosed}
}

// BugStatuses returns the status domain for bugs.
func BugStatuses() []Status {
	return []Status{StatusNew, StatusConfirmed, StatusFixing, StatusVerifying, StatusClosed}
}

// IsTerminal returns true if the status represents completion or closure.
// Terminal statuses are the ones that carry a completed_at timestamp.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusClosed
}

// Priority represents the urgency level of a project or task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// ProjectStatus represents the current state of a project.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusOnHold   ProjectStatus = "on_hold"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Timestamps holds common timestamp fields
type Timestamps struct {
	Created time.Time `yaml:"created"`
	Updated time.Time `yaml:"updated"`
}

// UpdateTimestamp sets the Updated field to now
func (t *Timestamps) UpdateTimestamp() {
	t.Updated = time.Now().UTC()
}

// SetCreated sets both Created and Updated to now
func (t *Timestamps) SetCreated() {
	now := time.Now().UTC()
	t.Created = now
	t.Updated = now
}

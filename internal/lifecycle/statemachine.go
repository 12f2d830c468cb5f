// Package lifecycle defines the legal status domain and transition graph for
// each task category.
//
// Generic tasks are unrestricted: any status in their domain may follow any
// other. Bugs follow a strict directed workflow
// (new -> confirmed -> fixing -> verifying -> closed) with a rejection loop
// from verifying back to fixing and two reopen paths out of closed.
package lifecycle

import "github.com/ihavespoons/taskpulse/internal/domain"

// bugFlow maps each bug status to the statuses reachable in one step.
var bugFlow = map[domain.Status][]domain.Status{
	domain.StatusNew:       {domain.StatusConfirmed},
	domain.StatusConfirmed: {domain.StatusFixing},
	domain.StatusFixing:    {domain.StatusVerifying},
	domain.StatusVerifying: {domain.StatusClosed, domain.StatusFixing},
	domain.StatusClosed:    {domain.StatusNew, domain.StatusFixing},
}

// AllowedNextStatuses returns the statuses a task may move to in one step.
//
// For generic tasks this is the whole task status domain. For bugs it is the
// strict flow above; a bug sitting in a status outside its domain (left over
// from a category change) gets the forced reset path back to new.
func AllowedNextStatuses(category domain.Category, current domain.Status) []domain.Status {
	switch category {
	case domain.CategoryTask:
		return domain.TaskStatuses()
	case domain.CategoryBug:
		if next, ok := bugFlow[current]; ok {
			out := make([]domain.Status, len(next))
			copy(out, next)
			return out
		}
		return []domain.Status{domain.StatusNew}
	}
	return nil
}

// ValidateTransition reports whether moving from current to next is legal
// for the given category. A self-transition is always legal so in-place
// updates that don't change status pass validation. Illegal transitions are
// reported as false, never as an error; rejecting the request is the
// caller's job.
func ValidateTransition(category domain.Category, current, next domain.Status) bool {
	if current == next {
		return true
	}
	for _, allowed := range AllowedNextStatuses(category, current) {
		if next == allowed {
			return true
		}
	}
	return false
}

// InitialStatus returns the status a newly created task of the given
// category starts in.
func InitialStatus(category domain.Category) domain.Status {
	if category == domain.CategoryBug {
		return domain.StatusNew
	}
	return domain.StatusTodo
}

// NormalizeNewTask corrects a freshly created bug that was left in the
// generic-task default status. A new bug must never start outside its own
// status domain.
func NormalizeNewTask(t *domain.Task) {
	if t.Category == domain.CategoryBug && t.Status == domain.StatusTodo {
		t.Status = domain.StatusNew
	}
}

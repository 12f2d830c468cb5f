package domain

import "time"

// SlaClock tracks pause and resume events for one task so wall-clock time
// spent paused can be excluded from SLA consumption. There is exactly one
// clock per task; it is created lazily the first time the SLA machinery
// touches the task.
//
// The clock is a plain value. Mutations happen through Pause and Resume and
// are made durable by the clock repository, which enforces a compare-and-set
// on Version so two racing writers cannot double-count a pause window or
// lose one.
type SlaClock struct {
	TaskID string `yaml:"task_id"`

	// PausedAt is set iff the clock is currently paused.
	PausedAt *time.Time `yaml:"paused_at,omitempty"`

	// TotalPausedSeconds accumulates closed pause windows. It only grows,
	// and only when Resume folds an open window into it.
	TotalPausedSeconds int64 `yaml:"total_paused_seconds"`

	// Version is the optimistic-concurrency token checked on every write.
	Version int64 `yaml:"version"`

	Timestamps
}

// NewSlaClock returns a fresh, unpaused clock for the given task.
func NewSlaClock(taskID string) *SlaClock {
	c := &SlaClock{TaskID: taskID}
	c.SetCreated()
	return c
}

// IsPaused returns true if the clock is currently paused.
func (c *SlaClock) IsPaused() bool {
	return c.PausedAt != nil
}

// Pause marks the clock paused as of now. Pausing an already-paused clock
// is a no-op so an in-flight pause window is never reset.
func (c *SlaClock) Pause(now time.Time) {
	if c.PausedAt != nil {
		return
	}
	at := now.UTC()
	c.PausedAt = &at
	c.UpdateTimestamp()
}

// Resume closes the open pause window, folding its whole seconds into
// TotalPausedSeconds. Resuming a clock that is not paused is a no-op.
func (c *SlaClock) Resume(now time.Time) {
	if c.PausedAt == nil {
		return
	}
	elapsed := int64(now.Sub(*c.PausedAt).Seconds())
	if elapsed > 0 {
		c.TotalPausedSeconds += elapsed
	}
	c.PausedAt = nil
	c.UpdateTimestamp()
}

// PausedSecondsAsOf returns the total seconds the clock has spent paused as
// of the given instant, including the still-open window if the clock is
// paused right now. It never mutates the clock; evaluation must not close
// out an in-progress pause.
func (c *SlaClock) PausedSecondsAsOf(now time.Time) int64 {
	total := c.TotalPausedSeconds
	if c.PausedAt != nil {
		if open := int64(now.Sub(*c.PausedAt).Seconds()); open > 0 {
			total += open
		}
	}
	return total
}

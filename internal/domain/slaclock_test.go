package domain

import (
	"testing"
	"time"
)

var clockEpoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestSlaClock_PauseResume(t *testing.T) {
	clock := NewSlaClock("task-1")

	if clock.IsPaused() {
		t.Fatal("new clock reports paused")
	}

	clock.Pause(clockEpoch)
	if !clock.IsPaused() {
		t.Fatal("clock not paused after Pause")
	}

	clock.Resume(clockEpoch.Add(90 * time.Minute))
	if clock.IsPaused() {
		t.Fatal("clock still paused after Resume")
	}
	if clock.TotalPausedSeconds != 5400 {
		t.Errorf("TotalPausedSeconds = %d, want 5400", clock.TotalPausedSeconds)
	}
}

func TestSlaClock_PauseIsIdempotent(t *testing.T) {
	clock := NewSlaClock("task-1")
	clock.Pause(clockEpoch)

	// A second pause must not reset the open window.
	clock.Pause(clockEpoch.Add(time.Hour))

	if got := clock.PausedAt; got == nil || !got.Equal(clockEpoch) {
		t.Errorf("PausedAt = %v, want original %v", got, clockEpoch)
	}

	clock.Resume(clockEpoch.Add(2 * time.Hour))
	if clock.TotalPausedSeconds != 7200 {
		t.Errorf("TotalPausedSeconds = %d, want 7200", clock.TotalPausedSeconds)
	}
}

func TestSlaClock_ResumeWithoutPauseIsNoop(t *testing.T) {
	clock := NewSlaClock("task-1")
	clock.Resume(clockEpoch)

	if clock.TotalPausedSeconds != 0 {
		t.Errorf("TotalPausedSeconds = %d, want 0", clock.TotalPausedSeconds)
	}
	if clock.IsPaused() {
		t.Error("clock paused after lone Resume")
	}
}

func TestSlaClock_TruncatesToWholeSeconds(t *testing.T) {
	clock := NewSlaClock("task-1")
	clock.Pause(clockEpoch)
	clock.Resume(clockEpoch.Add(2500 * time.Millisecond))

	if clock.TotalPausedSeconds != 2 {
		t.Errorf("TotalPausedSeconds = %d, want 2 (truncated)", clock.TotalPausedSeconds)
	}
}

func TestSlaClock_AccumulatesAcrossWindows(t *testing.T) {
	clock := NewSlaClock("task-1")

	clock.Pause(clockEpoch)
	clock.Resume(clockEpoch.Add(time.Hour))
	clock.Pause(clockEpoch.Add(5 * time.Hour))
	clock.Resume(clockEpoch.Add(7 * time.Hour))

	if clock.TotalPausedSeconds != 3*3600 {
		t.Errorf("TotalPausedSeconds = %d, want %d", clock.TotalPausedSeconds, 3*3600)
	}
}

func TestSlaClock_PausedSecondsAsOf(t *testing.T) {
	clock := NewSlaClock("task-1")
	clock.Pause(clockEpoch)
	clock.Resume(clockEpoch.Add(time.Hour))

	// Closed window only.
	if got := clock.PausedSecondsAsOf(clockEpoch.Add(2 * time.Hour)); got != 3600 {
		t.Errorf("PausedSecondsAsOf = %d, want 3600", got)
	}

	// Open window included, without mutating the clock.
	clock.Pause(clockEpoch.Add(3 * time.Hour))
	if got := clock.PausedSecondsAsOf(clockEpoch.Add(4 * time.Hour)); got != 7200 {
		t.Errorf("PausedSecondsAsOf = %d, want 7200", got)
	}
	if clock.TotalPausedSeconds != 3600 {
		t.Errorf("TotalPausedSeconds = %d after read, want 3600", clock.TotalPausedSeconds)
	}
	if !clock.IsPaused() {
		t.Error("read-only query resumed the clock")
	}
}

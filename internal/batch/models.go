package batch

import (
	"strings"
	"time"
)

// Status represents the lifecycle of an export job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
	StatusCancelled,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status admits no further transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Job is an export job persisted in SQLite. PlanJSON holds the compiled
// plan so the job stays reproducible after the source timeline changes.
type Job struct {
	ID              int64
	TimelineName    string
	PresetName      string
	InputPath       string
	OutputPath      string
	PlanJSON        string
	Status          Status
	ErrorMessage    string
	ProgressPercent float64
	ProgressMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// IsProcessing returns true when the job is currently being exported.
func (j Job) IsProcessing() bool {
	return j.Status == StatusProcessing
}

// SetProgress updates both progress fields together.
func (j *Job) SetProgress(percent float64, message string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	j.ProgressPercent = percent
	j.ProgressMessage = message
}

// SetFailed marks the job as failed with the given error message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.ProgressMessage = message
	now := time.Now().UTC()
	j.CompletedAt = &now
}

// SetCancelled marks the job as cancelled.
func (j *Job) SetCancelled() {
	j.Status = StatusCancelled
	j.ProgressMessage = "Cancelled"
	now := time.Now().UTC()
	j.CompletedAt = &now
}

// SetCompleted marks the job as successfully exported.
func (j *Job) SetCompleted() {
	j.Status = StatusCompleted
	j.ProgressPercent = 100
	j.ProgressMessage = "Export complete"
	j.ErrorMessage = ""
	now := time.Now().UTC()
	j.CompletedAt = &now
}

// HealthSummary describes aggregated job counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Cancelled  int
}

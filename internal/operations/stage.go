package operations

import (
	"context"
	"sync"
	"time"
)

// Step IDs for the ridership pipeline
const (
	StepIDBootstrap = "bootstrap"
	StepIDScrape    = "scrape"
	StepIDLoad      = "load"
	StepIDTransform = "transform"
	StepIDSave      = "save"
)

// Step represents a single unit of work in a pipeline run
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// Execute runs the Step with the given context and operation state
	Execute(ctx context.Context, state *OperationState) error
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a Step
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Error     error
	// Rows is the number of table rows the step produced or consumed.
	Rows int
}

// NewStepState creates a new Step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the Step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the Step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the Step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the Step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Status = StepStatusSkipped
	s.Message = reason
}

// SetRows records how many rows the step handled
func (s *StepState) SetRows(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rows = n
}

// Duration returns how long the Step ran, or has been running
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime == nil {
		return time.Since(*s.StartTime)
	}
	return s.EndTime.Sub(*s.StartTime)
}

// Snapshot returns a copy of the state that is safe to read without locking
func (s *StepState) Snapshot() StepSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := StepSummary{
		ID:      s.ID,
		Name:    s.Name,
		Status:  s.Status,
		Message: s.Message,
		Error:   s.Error,
		Rows:    s.Rows,
	}
	if s.StartTime != nil && s.EndTime != nil {
		summary.Duration = s.EndTime.Sub(*s.StartTime)
	}
	return summary
}

// StepSummary is a point-in-time copy of a StepState
type StepSummary struct {
	ID       string
	Name     string
	Status   StepStatus
	Message  string
	Error    error
	Rows     int
	Duration time.Duration
}

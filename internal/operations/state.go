package operations

import (
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"

	"ridership/internal/config"
	"ridership/internal/infrastructure"
)

// OperationStatus represents the overall run status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState represents the complete state of one pipeline run.
// Steps hand tables to each other through Raw and Result.
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Status    OperationStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	Paths      *config.Paths
	InputPath  string
	OutputPath string

	// Raw is the table as loaded; Result is the cleaned table.
	Raw    dataframe.DataFrame
	Result dataframe.DataFrame

	steps map[string]*StepState
	order []string
}

// NewOperationState creates a new operation state. An empty id is replaced
// with a generated one.
func NewOperationState(id string) *OperationState {
	if id == "" {
		id = infrastructure.GenerateTraceID()
	}
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStatus returns the current run status
func (p *OperationState) GetStatus() OperationStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// GetStep returns the state of a specific Step, or nil if it was never registered
func (p *OperationState) GetStep(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[stepID]
}

// SetStep registers or replaces the state of a Step. Registration order is kept
// for Summary.
func (p *OperationState) SetStep(stepID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.steps[stepID]; !ok {
		p.order = append(p.order, stepID)
	}
	p.steps[stepID] = state
}

// Summary returns a snapshot of every registered Step in execution order
func (p *OperationState) Summary() []StepSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summaries := make([]StepSummary, 0, len(p.order))
	for _, id := range p.order {
		summaries = append(summaries, p.steps[id].Snapshot())
	}
	return summaries
}

// Duration returns the duration of the run
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// HasFailures returns true if any Step has failed
func (p *OperationState) HasFailures() bool {
	for _, s := range p.Summary() {
		if s.Status == StepStatusFailed {
			return true
		}
	}
	return false
}

// RecordRows sets the row count of a registered Step; unknown IDs are ignored
func (p *OperationState) RecordRows(stepID string, n int) {
	if s := p.GetStep(stepID); s != nil {
		s.SetRows(n)
	}
}

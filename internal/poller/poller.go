// Package poller tracks one task through its lifecycle by polling the status
// endpoint. It is an explicit state machine: observations drive transitions
// through a single function, independent of how ticks are scheduled.
package poller

import (
	"context"
	"sync"
	"time"

	"account-research-report/internal/models"
)

// State is the machine state for one tracked task
type State int

const (
	// StateAwaitingProfile holds polling until a requester profile exists.
	// There is no timeout; the machine waits indefinitely.
	StateAwaitingProfile State = iota
	// StatePolling is re-entered on every tick while the task is pending or
	// processing.
	StatePolling
	// StateCompleted is terminal; the completion callback has fired.
	StateCompleted
	// StateFailed is terminal; polling stops once a failure is latched.
	StateFailed
)

// String returns the state name for logs
func (s State) String() string {
	switch s {
	case StateAwaitingProfile:
		return "awaiting-profile"
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the machine accepts no further observations
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Stage is a display-only projection of task progress. It is inferred from
// the progress percentage alone and must never gate transitions: the backend
// exposes no authoritative phase, so this is best effort.
type Stage string

const (
	StageInitializing Stage = "Initializing"
	StageGathering    Stage = "Gathering data"
	StageAnalysis     Stage = "Running analysis"
	StageReport       Stage = "Generating report"
)

// StageForProgress derives the display stage from a progress percentage
func StageForProgress(progress int) Stage {
	switch {
	case progress > 70:
		return StageReport
	case progress > 30:
		return StageAnalysis
	case progress > 0:
		return StageGathering
	default:
		return StageInitializing
	}
}

// DefaultInterval is the poll cadence
const DefaultInterval = 3 * time.Second

// FallbackFailureMessage is shown when a failed task carries no error text
const FallbackFailureMessage = "Report generation failed. Please try again."

// StatusFetcher fetches the latest task snapshot
type StatusFetcher interface {
	GetTaskStatus(ctx context.Context, taskID string) (*models.Task, error)
}

// ProfileGate reports whether a requester profile has been captured
type ProfileGate interface {
	Exists() bool
}

// Option customizes a Poller
type Option func(*Poller)

// WithInterval overrides the poll interval
func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// WithOnCompleted sets the navigation side effect fired exactly once when the
// task completes
func WithOnCompleted(fn func(taskID string)) Option {
	return func(p *Poller) { p.onCompleted = fn }
}

// WithOnFailed sets the side effect fired exactly once when a failure is
// latched, with the message to display
func WithOnFailed(fn func(message string)) Option {
	return func(p *Poller) { p.onFailed = fn }
}

// Poller tracks a single task
type Poller struct {
	fetcher  StatusFetcher
	gate     ProfileGate
	taskID   string
	interval time.Duration

	onCompleted func(taskID string)
	onFailed    func(message string)

	mu         sync.Mutex
	state      State
	snapshot   *models.Task
	failureMsg string
	fired      bool
}

// New creates a poller for the given task. The machine starts in
// StateAwaitingProfile unless a profile already exists.
func New(fetcher StatusFetcher, gate ProfileGate, taskID string, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		gate:     gate,
		taskID:   taskID,
		interval: DefaultInterval,
		state:    StateAwaitingProfile,
	}
	for _, opt := range opts {
		opt(p)
	}
	if gate != nil && gate.Exists() {
		p.state = StatePolling
	}
	return p
}

// State returns the current machine state
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot returns the most recent observed task snapshot, if any
func (p *Poller) Snapshot() *models.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Stage returns the display stage for the latest snapshot
func (p *Poller) Stage() Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil {
		return StageInitializing
	}
	return StageForProgress(p.snapshot.Progress)
}

// FailureMessage returns the latched failure text, or "" if not failed
func (p *Poller) FailureMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failureMsg
}

// OnStatusObserved is the single transition function. It acts only on the
// most recent resolved snapshot: once a terminal state is latched, later
// observations (including duplicate completed snapshots from overlapping
// ticks) are ignored, so side effects fire exactly once per task.
func (p *Poller) OnStatusObserved(task *models.Task) State {
	p.mu.Lock()

	if p.state.Terminal() {
		state := p.state
		p.mu.Unlock()
		return state
	}

	p.snapshot = task

	var fire func()
	switch task.Status {
	case models.TaskStatusCompleted:
		p.state = StateCompleted
		if !p.fired && p.onCompleted != nil {
			p.fired = true
			cb, id := p.onCompleted, p.taskID
			fire = func() { cb(id) }
		}
	case models.TaskStatusFailed:
		p.state = StateFailed
		p.failureMsg = task.Error
		if p.failureMsg == "" {
			p.failureMsg = FallbackFailureMessage
		}
		if !p.fired && p.onFailed != nil {
			p.fired = true
			cb, msg := p.onFailed, p.failureMsg
			fire = func() { cb(msg) }
		}
	default:
		p.state = StatePolling
	}

	state := p.state
	p.mu.Unlock()

	if fire != nil {
		fire()
	}
	return state
}

// OnFetchError latches a transport or server failure. The failure view takes
// over and polling stops; a manual restart is the only way forward.
func (p *Poller) OnFetchError(err error) State {
	p.mu.Lock()

	if p.state.Terminal() {
		state := p.state
		p.mu.Unlock()
		return state
	}

	p.state = StateFailed
	p.failureMsg = err.Error()

	var fire func()
	if !p.fired && p.onFailed != nil {
		p.fired = true
		cb, msg := p.onFailed, p.failureMsg
		fire = func() { cb(msg) }
	}
	p.mu.Unlock()

	if fire != nil {
		fire()
	}
	return StateFailed
}

// Run drives the machine until it reaches a terminal state or ctx is
// cancelled. Cancellation stops the timer deterministically; no further
// callbacks fire after Run returns.
func (p *Poller) Run(ctx context.Context) (State, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		state := p.tick(ctx)
		if state.Terminal() {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return p.State(), ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick performs one unit of work for the current state
func (p *Poller) tick(ctx context.Context) State {
	switch p.State() {
	case StateAwaitingProfile:
		if p.gate != nil && p.gate.Exists() {
			p.mu.Lock()
			if p.state == StateAwaitingProfile {
				p.state = StatePolling
			}
			p.mu.Unlock()
			return p.tick(ctx)
		}
		return StateAwaitingProfile

	case StatePolling:
		task, err := p.fetcher.GetTaskStatus(ctx, p.taskID)
		if err != nil {
			return p.OnFetchError(err)
		}
		return p.OnStatusObserved(task)

	default:
		return p.State()
	}
}

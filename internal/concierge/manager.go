package concierge

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Assistant produces a streamed reply to a prompt. Implementations invoke
// emit once per text fragment, in emission order.
type Assistant interface {
	StreamReply(ctx context.Context, prompt string, emit func(text string) error) error
}

// ActionExecutor performs a side-effect action extracted from a completed
// transcript and returns the downstream result.
type ActionExecutor interface {
	Execute(ctx context.Context, action Action) (map[string]any, error)
}

// Errors surfaced by the manager.
var (
	ErrEmptyPrompt     = eris.New("concierge: prompt must not be empty")
	ErrRunNotFound     = eris.New("concierge: run not found")
	ErrRunNotCompleted = eris.New("concierge: run has not completed")
)

// defaultDeliverTimeout bounds how long the run goroutine waits on a slow
// or absent subscriber, for fragment sends and the completed terminal event
// alike. A run whose events are not drained within this window is abandoned.
const defaultDeliverTimeout = 30 * time.Second

// Manager owns all concierge runs in the process. Each run streams on its
// own goroutine to a single subscriber; completed runs stay addressable so
// the client can execute extracted actions later.
type Manager struct {
	mu             sync.Mutex
	runs           map[string]*run
	assistant      Assistant
	executor       ActionExecutor
	registry       *ActionRegistry
	buffer         int
	deliverTimeout time.Duration
}

// NewManager creates a run manager. eventBuffer bounds the per-run channel;
// values below 1 fall back to 256.
func NewManager(assistant Assistant, executor ActionExecutor, registry *ActionRegistry, eventBuffer int) *Manager {
	if eventBuffer < 1 {
		eventBuffer = 256
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Manager{
		runs:           make(map[string]*run),
		assistant:      assistant,
		executor:       executor,
		registry:       registry,
		buffer:         eventBuffer,
		deliverTimeout: defaultDeliverTimeout,
	}
}

// Start begins a run for the prompt and returns its id. The prompt must be
// non-empty after trimming.
func (m *Manager) Start(prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", ErrEmptyPrompt
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		id:        uuid.NewString(),
		prompt:    trimmed,
		state:     StatePending,
		events:    make(chan Event, m.buffer),
		cancel:    cancel,
		startedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.runs[r.id] = r
	m.mu.Unlock()

	zap.L().Info("concierge: run started", zap.String("run_id", r.id))
	go m.stream(ctx, r)

	return r.id, nil
}

// stream drives the assistant and publishes events for the run's single
// subscriber. It owns all writes to r.events and closes the channel after
// the terminal event.
func (m *Manager) stream(ctx context.Context, r *run) {
	defer close(r.events)

	m.mu.Lock()
	r.state = StateStreaming
	m.mu.Unlock()

	err := m.assistant.StreamReply(ctx, r.prompt, func(text string) error {
		m.mu.Lock()
		r.transcript.WriteString(text)
		m.mu.Unlock()

		// Fragment order is preserved: a single goroutine sends on the
		// channel and the subscriber drains in arrival order. The timeout
		// keeps a full buffer with no draining subscriber from pinning the
		// run goroutine forever.
		select {
		case r.events <- Event{Kind: EventFragment, Text: text}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.deliverTimeout):
			return eris.New("concierge: subscriber stopped draining events")
		}
	})

	m.mu.Lock()
	r.finishedAt = time.Now().UTC()
	if err != nil {
		r.state = StateFailed
		m.mu.Unlock()
		zap.L().Warn("concierge: run failed",
			zap.String("run_id", r.id),
			zap.Error(err),
		)
		m.publish(r, Event{Kind: EventFailed, Reason: err.Error()})
		return
	}

	r.state = StateCompleted
	r.action = ExtractAction(r.transcript.String())
	hasAction := r.action != nil
	m.mu.Unlock()

	zap.L().Info("concierge: run completed",
		zap.String("run_id", r.id),
		zap.Bool("action_extracted", hasAction),
	)
	m.deliver(r, Event{Kind: EventCompleted})
}

// publish sends a failure event without blocking. Dropping it is harmless:
// the channel closing without the completed event already signals failure
// to the subscriber.
func (m *Manager) publish(r *run, ev Event) {
	select {
	case r.events <- ev:
	default:
	}
}

// deliver blocks until the subscriber takes the completed event, so a full
// buffer or a late subscriber cannot lose the success signal. The timeout
// bounds the wait when no subscriber ever attaches; the run's state stays
// readable via Get either way.
func (m *Manager) deliver(r *run, ev Event) {
	select {
	case r.events <- ev:
	case <-time.After(m.deliverTimeout):
		zap.L().Warn("concierge: completed event not taken before timeout",
			zap.String("run_id", r.id),
		)
	}
}

// Events returns the run's event channel for its single subscriber.
func (m *Manager) Events(id string) (<-chan Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return r.events, nil
}

// Cancel stops server-side work for the run. Used when the subscriber
// disconnects before completion; no-op on unknown or finished runs.
func (m *Manager) Cancel(id string) {
	m.mu.Lock()
	r, ok := m.runs[id]
	m.mu.Unlock()
	if ok {
		r.cancel()
	}
}

// Get returns a snapshot of the run.
func (m *Manager) Get(id string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	snap := &Snapshot{
		ID:         r.id,
		Prompt:     r.prompt,
		State:      r.state,
		Transcript: r.transcript.String(),
		Action:     r.action,
		StartedAt:  r.startedAt,
	}
	if !r.finishedAt.IsZero() {
		finished := r.finishedAt
		snap.FinishedAt = &finished
	}
	return snap, nil
}

// ExecuteAction runs an action against a previously completed run. The run
// must exist and have completed; execution failures leave the run state
// untouched.
func (m *Manager) ExecuteAction(ctx context.Context, id string, action Action) (map[string]any, error) {
	m.mu.Lock()
	r, ok := m.runs[id]
	var state RunState
	if ok {
		state = r.state
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrRunNotFound
	}
	if state != StateCompleted {
		return nil, ErrRunNotCompleted
	}
	if !m.registry.Recognized(action.Type) {
		return nil, eris.Errorf("concierge: unrecognized action type %q", action.Type)
	}

	result, err := m.executor.Execute(ctx, action)
	if err != nil {
		return nil, eris.Wrap(err, "concierge: execute action")
	}

	zap.L().Info("concierge: action executed",
		zap.String("run_id", id),
		zap.String("action_type", action.Type),
	)
	return result, nil
}

// Package concierge manages conversational runs with the lead intelligence
// assistant: prompt in, ordered stream of text fragments out, with optional
// follow-up actions extracted from the completed transcript.
package concierge

import (
	"context"
	"strings"
	"time"
)

// RunState tracks a run through its lifecycle. A run reaches a terminal
// state exactly once and is immutable afterwards.
type RunState string

const (
	StatePending   RunState = "pending"
	StateStreaming RunState = "streaming"
	StateCompleted RunState = "completed"
	StateFailed    RunState = "failed"
)

// EventKind discriminates stream events.
type EventKind string

const (
	EventFragment  EventKind = "fragment"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
)

// Event is one message on a run's stream. Fragments carry text; a failed
// event carries the reason.
type Event struct {
	Kind   EventKind
	Text   string
	Reason string
}

// run is the manager's internal record of one chat interaction. All fields
// are guarded by the manager's mutex except events, which is written only
// by the run's streaming goroutine and closed exactly once.
type run struct {
	id         string
	prompt     string
	state      RunState
	transcript strings.Builder
	action     *Action
	events     chan Event
	cancel     context.CancelFunc
	startedAt  time.Time
	finishedAt time.Time
}

// Snapshot is a read-only copy of a run's current state. FinishedAt is nil
// until the run reaches a terminal state.
type Snapshot struct {
	ID         string     `json:"run_id"`
	Prompt     string     `json:"prompt"`
	State      RunState   `json:"state"`
	Transcript string     `json:"transcript"`
	Action     *Action    `json:"action,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

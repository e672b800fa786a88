package rework

import "time"

// Event is a sealed interface representing pipeline progress.
// Events are informational; failures are carried by the session outcome.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventStepStarted signals that a model call is about to be made.
type EventStepStarted struct {
	SessionID string
	Step      Step
	Model     string
}

func (EventStepStarted) event() {}

// EventStepCompleted signals that a model call returned. Err is nil on
// success.
type EventStepCompleted struct {
	SessionID string
	Step      Step
	Duration  time.Duration
	Err       error
}

func (EventStepCompleted) event() {}

// EventFinished signals that a session reached its outcome.
type EventFinished struct {
	SessionID string
	Outcome   Outcome
}

func (EventFinished) event() {}

// Interface compliance checks.
var (
	_ Event = EventStepStarted{}
	_ Event = EventStepCompleted{}
	_ Event = EventFinished{}
)

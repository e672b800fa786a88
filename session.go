package rework

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is the state of one run of the transformation pipeline.
//
// A Session is owned by a single goroutine for its lifetime and is discarded
// once it reaches StageTerminal. The exported fields are read-only for
// callers; transitions go through the methods below and through Pipeline.
type Session struct {
	ID         string
	Original   string
	Objective  string
	Stage      Stage
	Candidates []string
	Chosen     string
	Generated  string
	Verdict    string
	Outcome    Outcome
	Models     StageModels
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSession creates a session for the selected text and objective. When
// either is blank the session is cancelled immediately.
func NewSession(original, objective string) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Original:  original,
		Objective: objective,
		Stage:     StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch {
	case strings.TrimSpace(original) == "":
		s.finish(OutcomeCancelled{Reason: "no text selected"})
	case strings.TrimSpace(objective) == "":
		s.finish(OutcomeCancelled{Reason: "no objective given"})
	default:
		s.Stage = StageObjectiveCaptured
	}
	return s
}

// Terminal reports whether the session has an outcome.
func (s *Session) Terminal() bool { return s.Stage == StageTerminal }

// Select records the user's chosen candidate. An empty choice cancels the
// session. A choice that is not one of the candidates is rejected and the
// session is left unchanged.
func (s *Session) Select(candidate string) error {
	if err := s.expect(StageBrainstormed); err != nil {
		return err
	}
	if candidate == "" {
		s.finish(OutcomeCancelled{Reason: "no strategy selected"})
		return nil
	}
	if !slices.Contains(s.Candidates, candidate) {
		return fmt.Errorf("%q: %w", candidate, ErrUnknownCandidate)
	}
	s.Chosen = candidate
	s.advance(StageCandidateSelected)
	return nil
}

// Approve marks the generated text as applied. Callers apply the text to
// their buffer first and approve only once that succeeded.
func (s *Session) Approve() error {
	if err := s.expect(StageVerified); err != nil {
		return err
	}
	s.finish(OutcomeApplied{Text: s.Generated})
	return nil
}

// Cancel ends the session without applying anything. It is a no-op on a
// session that already finished.
func (s *Session) Cancel(reason string) {
	if s.Terminal() {
		return
	}
	s.finish(OutcomeCancelled{Reason: reason})
}

// Fail ends the session with err. It is a no-op on a session that already
// finished.
func (s *Session) Fail(err error) {
	if s.Terminal() {
		return
	}
	s.finish(OutcomeFailed{Err: err})
}

func (s *Session) expect(stage Stage) error {
	if s.Terminal() {
		return ErrTerminal
	}
	if s.Stage != stage {
		return fmt.Errorf("expected stage %s, session is at %s: %w", stage, s.Stage, ErrStageOrder)
	}
	return nil
}

func (s *Session) advance(stage Stage) {
	s.Stage = stage
	s.UpdatedAt = time.Now()
}

func (s *Session) finish(o Outcome) {
	s.Outcome = o
	s.advance(StageTerminal)
}

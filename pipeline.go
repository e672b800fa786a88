package rework

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	objectiveQuestion    = "What change do you want to make to the selected code?"
	objectivePlaceholder = "e.g. add type hints, make it more efficient, add comments"
)

// Pipeline drives the brainstorm → select → execute → verify → confirm
// sequence for a Session. It holds no per-session state, so one Pipeline
// may serve any number of concurrent sessions.
type Pipeline struct {
	gateway Gateway
	models  StageModels
	prompts Prompts
	logger  *zap.Logger
	onEvent func(Event)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage transitions.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithEventHandler sets a callback that receives progress events. If nil or
// not set, events are discarded.
func WithEventHandler(h func(Event)) Option {
	return func(p *Pipeline) { p.onEvent = h }
}

// WithPrompts overrides prompt builders. Nil fields keep the defaults.
func WithPrompts(prompts Prompts) Option {
	return func(p *Pipeline) {
		if prompts.Brainstorm != nil {
			p.prompts.Brainstorm = prompts.Brainstorm
		}
		if prompts.Execute != nil {
			p.prompts.Execute = prompts.Execute
		}
		if prompts.Verify != nil {
			p.prompts.Verify = prompts.Verify
		}
	}
}

// NewPipeline creates a Pipeline that calls gateway with the given models.
func NewPipeline(gateway Gateway, models StageModels, opts ...Option) *Pipeline {
	p := &Pipeline{
		gateway: gateway,
		models:  models,
		prompts: DefaultPrompts(),
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes the whole pipeline against a buffer and a UI and returns the
// finished session. The replacement is applied at most once, and only after
// the user picked a strategy and approved the verified result. Failures are
// reported through ui rather than returned.
func (p *Pipeline) Run(ctx context.Context, buf Buffer, ui UI) *Session {
	s := p.run(ctx, buf, ui)
	p.logger.Info("session finished",
		zap.String("session_id", s.ID),
		zap.String("outcome", outcomeName(s.Outcome)))
	p.emit(EventFinished{SessionID: s.ID, Outcome: s.Outcome})
	ui.ReportResult(Summary(s))
	return s
}

func (p *Pipeline) run(ctx context.Context, buf Buffer, ui UI) *Session {
	selection := buf.Selection()
	if strings.TrimSpace(selection) == "" {
		return NewSession(selection, "")
	}

	objective, ok := ui.PromptUser(ctx, objectiveQuestion, objectivePlaceholder)
	if !ok {
		objective = ""
	}
	s := NewSession(selection, objective)
	if s.Terminal() {
		return s
	}

	ui.ReportProgress("Brainstorming strategies...")
	if err := p.Brainstorm(ctx, s); err != nil {
		s.Fail(err)
		return s
	}

	choice, ok := ui.PresentChoices(ctx, s.Candidates)
	if !ok {
		choice = ""
	}
	if err := s.Select(choice); err != nil {
		s.Fail(err)
		return s
	}
	if s.Terminal() {
		return s
	}

	ui.ReportProgress("Applying strategy...")
	if err := p.Execute(ctx, s); err != nil {
		s.Fail(err)
		return s
	}

	ui.ReportProgress("Verifying result...")
	if err := p.Verify(ctx, s); err != nil {
		s.Fail(err)
		return s
	}

	if !ui.Confirm(ctx, confirmMessage(s)) {
		s.Cancel("change declined")
		return s
	}
	if err := buf.ApplyReplacement(s.Generated); err != nil {
		s.Fail(fmt.Errorf("apply replacement: %w", err))
		return s
	}
	if err := s.Approve(); err != nil {
		s.Fail(err)
	}
	return s
}

// Brainstorm asks the brainstorm model for strategies and stores the parsed
// candidates. A response without any list item fails the session with a
// ParseError that keeps the raw text.
func (p *Pipeline) Brainstorm(ctx context.Context, s *Session) error {
	if err := s.expect(StageObjectiveCaptured); err != nil {
		return err
	}
	s.Models = p.models
	raw, err := p.call(ctx, s, StepBrainstorm, p.models.Brainstorm, p.prompts.Brainstorm(input(s)))
	if err != nil {
		return err
	}
	candidates := ParseCandidates(raw)
	if len(candidates) == 0 {
		perr := NewParseError(raw)
		p.fail(s, StepBrainstorm, perr)
		return perr
	}
	s.Candidates = candidates
	s.advance(StageBrainstormed)
	p.logger.Debug("candidates parsed",
		zap.String("session_id", s.ID),
		zap.Int("count", len(candidates)))
	return nil
}

// Execute asks the execution model to apply the chosen candidate.
func (p *Pipeline) Execute(ctx context.Context, s *Session) error {
	if err := s.expect(StageCandidateSelected); err != nil {
		return err
	}
	text, err := p.call(ctx, s, StepExecute, p.models.Execute, p.prompts.Execute(input(s)))
	if err != nil {
		return err
	}
	s.Generated = text
	s.advance(StageExecuted)
	return nil
}

// Verify asks the verification model to judge the generated text. The
// verdict is stored verbatim; judging it is left to the user.
func (p *Pipeline) Verify(ctx context.Context, s *Session) error {
	if err := s.expect(StageExecuted); err != nil {
		return err
	}
	verdict, err := p.call(ctx, s, StepVerify, p.models.Verify, p.prompts.Verify(input(s)))
	if err != nil {
		return err
	}
	s.Verdict = verdict
	s.advance(StageVerified)
	return nil
}

// call makes one gateway request. On error the session is failed. A request
// without a model fails before anything is sent.
func (p *Pipeline) call(ctx context.Context, s *Session, step Step, model, prompt string) (string, error) {
	req := Request{Model: model, Prompt: prompt}
	if err := req.Validate(); err != nil {
		err = fmt.Errorf("%s: %w", step, err)
		p.fail(s, step, err)
		return "", err
	}

	p.emit(EventStepStarted{SessionID: s.ID, Step: step, Model: model})
	p.logger.Debug("step started",
		zap.String("session_id", s.ID),
		zap.String("step", string(step)),
		zap.String("model", model))

	start := time.Now()
	text, err := p.gateway.Execute(ctx, req)
	elapsed := time.Since(start)
	p.emit(EventStepCompleted{SessionID: s.ID, Step: step, Duration: elapsed, Err: err})
	if err != nil {
		p.fail(s, step, err)
		return "", err
	}
	p.logger.Debug("step completed",
		zap.String("session_id", s.ID),
		zap.String("step", string(step)),
		zap.Duration("duration", elapsed))
	return text, nil
}

func (p *Pipeline) fail(s *Session, step Step, err error) {
	kind, _ := KindOf(err)
	p.logger.Warn("step failed",
		zap.String("session_id", s.ID),
		zap.String("step", string(step)),
		zap.Stringer("kind", kind),
		zap.Error(err))
	s.Fail(err)
}

func (p *Pipeline) emit(e Event) {
	if p.onEvent != nil {
		p.onEvent(e)
	}
}

func input(s *Session) PromptInput {
	return PromptInput{
		Original:  s.Original,
		Objective: s.Objective,
		Candidate: s.Chosen,
		Generated: s.Generated,
	}
}

// Summary describes a finished session for the user.
func Summary(s *Session) string {
	switch o := s.Outcome.(type) {
	case OutcomeApplied:
		return "The change was applied."
	case OutcomeCancelled:
		return "Cancelled: " + o.Reason + "."
	case OutcomeFailed:
		var f *Failure
		if !errors.As(o.Err, &f) {
			return fmt.Sprintf("Error: %v", o.Err)
		}
		switch f.Kind {
		case ConnectionError:
			return "Could not reach the model service: " + f.Message
		case BackendError:
			return fmt.Sprintf("Model service error (HTTP %d): %s", f.Status, f.Body)
		case MalformedResponse:
			return "The model service returned an unexpected response:\n\n" + f.Body
		case ParseError:
			return "The model did not propose any strategies. Try a different objective. Its answer was:\n\n" + f.Body
		}
		return fmt.Sprintf("Error: %v", f)
	default:
		return "The session has not finished."
	}
}

func outcomeName(o Outcome) string {
	switch o.(type) {
	case OutcomeApplied:
		return "applied"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

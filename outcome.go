package rework

// Outcome is a sealed interface describing how a session ended.
// The unexported marker method prevents external implementations.
type Outcome interface {
	outcome()
}

// OutcomeApplied means the generated text replaced the selection.
type OutcomeApplied struct {
	Text string
}

func (OutcomeApplied) outcome() {}

// OutcomeCancelled means the user stopped at a checkpoint or never supplied
// input. It is not a failure.
type OutcomeCancelled struct {
	Reason string
}

func (OutcomeCancelled) outcome() {}

// OutcomeFailed means a stage failed. Err is usually a *Failure.
type OutcomeFailed struct {
	Err error
}

func (OutcomeFailed) outcome() {}

// Interface compliance checks.
var (
	_ Outcome = OutcomeApplied{}
	_ Outcome = OutcomeCancelled{}
	_ Outcome = OutcomeFailed{}
)

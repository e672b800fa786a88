package rework

// Stage is a session's position in the transformation state machine.
// Stages only advance forward.
type Stage int

const (
	StageIdle              Stage = iota // Before the objective is known.
	StageObjectiveCaptured              // Selection and objective are present.
	StageBrainstormed                   // Candidates were extracted.
	StageCandidateSelected              // The user picked a candidate.
	StageExecuted                       // The execution model produced text.
	StageVerified                       // The verification model gave a verdict.
	StageTerminal                       // Outcome is set; the session is done.
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageObjectiveCaptured:
		return "objective_captured"
	case StageBrainstormed:
		return "brainstormed"
	case StageCandidateSelected:
		return "candidate_selected"
	case StageExecuted:
		return "executed"
	case StageVerified:
		return "verified"
	case StageTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Step names one of the three remote model invocations.
type Step string

const (
	StepBrainstorm Step = "brainstorm"
	StepExecute    Step = "execute"
	StepVerify     Step = "verify"
)

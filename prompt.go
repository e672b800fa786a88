package rework

import "fmt"

// PromptInput is the session data available to prompt builders.
type PromptInput struct {
	Original  string
	Objective string
	Candidate string
	Generated string
}

// Prompts builds the text sent at each step.
type Prompts struct {
	Brainstorm func(PromptInput) string
	Execute    func(PromptInput) string
	Verify     func(PromptInput) string
}

// DefaultPrompts returns the built-in prompt builders.
func DefaultPrompts() Prompts {
	return Prompts{
		Brainstorm: brainstormPrompt,
		Execute:    executePrompt,
		Verify:     verifyPrompt,
	}
}

func brainstormPrompt(in PromptInput) string {
	return fmt.Sprintf(`Task: the user wants to change a piece of code.
User objective: %q

Original code:
`+"```"+`
%s
`+"```"+`

Propose exactly three distinct strategies to achieve the objective.
Format them as a numbered list ("1.", "2.", "3."), one strategy per line,
each a single short sentence. Do not write any code yet.`, in.Objective, in.Original)
}

func executePrompt(in PromptInput) string {
	return fmt.Sprintf(`Task: rewrite the code below by applying one strategy.
Strategy: %s

Original code:
`+"```"+`
%s
`+"```"+`

Return only the transformed code. No explanations, no prose, and no code
fence delimiters. Do not add functions, imports or behavior beyond what the
original code already exposes.`, in.Candidate, in.Original)
}

func verifyPrompt(in PromptInput) string {
	return fmt.Sprintf(`Task: review a code change.
Strategy that was supposed to be applied: %s

Original code:
`+"```"+`
%s
`+"```"+`

Changed code:
`+"```"+`
%s
`+"```"+`

Does the changed code correctly apply the strategy while preserving the
original behavior? Start with a verdict (YES or NO) followed by a short
justification of at most three sentences.`, in.Candidate, in.Original, in.Generated)
}

func explainPrompt(code string) string {
	return fmt.Sprintf("Please explain the following code clearly and concisely:\n```\n%s\n```", code)
}

func confirmMessage(s *Session) string {
	return fmt.Sprintf("**Strategy:** %s\n\n**Proposed change:**\n\n```\n%s\n```\n\n**Verification:**\n\n%s\n\nApply this change?",
		s.Chosen, s.Generated, s.Verdict)
}

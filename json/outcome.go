package json

import (
	"errors"
	"fmt"

	"github.com/fwojciec/rework"
)

// outcomeDTO is the JSON representation of an Outcome with a type
// discriminator.
type outcomeDTO struct {
	Type    string      `json:"type"`
	Text    *string     `json:"text,omitempty"`
	Reason  *string     `json:"reason,omitempty"`
	Failure *failureDTO `json:"failure,omitempty"`
}

// failureDTO keeps the diagnostic detail of a failed session. Kind is empty
// for errors that are not a *rework.Failure.
type failureDTO struct {
	Kind    string `json:"kind,omitempty"`
	Status  int    `json:"status,omitempty"`
	Body    string `json:"body,omitempty"`
	Message string `json:"message"`
}

var failureKinds = []rework.FailureKind{
	rework.ConnectionError,
	rework.BackendError,
	rework.MalformedResponse,
	rework.ParseError,
}

func marshalOutcome(o rework.Outcome) (outcomeDTO, error) {
	switch v := o.(type) {
	case rework.OutcomeApplied:
		return outcomeDTO{Type: "applied", Text: &v.Text}, nil
	case rework.OutcomeCancelled:
		return outcomeDTO{Type: "cancelled", Reason: &v.Reason}, nil
	case rework.OutcomeFailed:
		return outcomeDTO{Type: "failed", Failure: marshalFailure(v.Err)}, nil
	default:
		return outcomeDTO{}, fmt.Errorf("unknown outcome type: %T", o)
	}
}

func marshalFailure(err error) *failureDTO {
	if err == nil {
		return &failureDTO{}
	}
	var f *rework.Failure
	if !errors.As(err, &f) {
		return &failureDTO{Message: err.Error()}
	}
	return &failureDTO{
		Kind:    f.Kind.String(),
		Status:  f.Status,
		Body:    f.Body,
		Message: f.Message,
	}
}

func unmarshalOutcome(dto outcomeDTO) (rework.Outcome, error) {
	switch dto.Type {
	case "applied":
		var text string
		if dto.Text != nil {
			text = *dto.Text
		}
		return rework.OutcomeApplied{Text: text}, nil
	case "cancelled":
		var reason string
		if dto.Reason != nil {
			reason = *dto.Reason
		}
		return rework.OutcomeCancelled{Reason: reason}, nil
	case "failed":
		err, uerr := unmarshalFailure(dto.Failure)
		if uerr != nil {
			return nil, uerr
		}
		return rework.OutcomeFailed{Err: err}, nil
	default:
		return nil, fmt.Errorf("unknown outcome type: %q", dto.Type)
	}
}

// unmarshalFailure rebuilds the recorded error. The original cause of a
// Failure is not persisted.
func unmarshalFailure(dto *failureDTO) (error, error) {
	if dto == nil {
		return nil, errors.New("failed outcome without failure detail")
	}
	if dto.Kind == "" {
		return errors.New(dto.Message), nil
	}
	for _, k := range failureKinds {
		if k.String() == dto.Kind {
			return &rework.Failure{Kind: k, Status: dto.Status, Body: dto.Body, Message: dto.Message}, nil
		}
	}
	return nil, fmt.Errorf("unknown failure kind: %q", dto.Kind)
}

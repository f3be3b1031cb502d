package form

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid form transition")
	ErrSubmitInFlight    = errors.New("submit already in flight")
)

type Phase int

const (
	Viewing Phase = iota
	Editing
	Submitting
	Failed
)

func (p Phase) String() string {
	switch p {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Pending is an unsaved overlay over an entity of type E. With returns a
// new overlay with one field changed; Apply overlays onto a copy of E.
type Pending[E any, P any] interface {
	With(field, value string) (P, error)
	Apply(entity E) E
}

// State is a form over one entity. Pending is only meaningful while
// editing, submitting or failed; Err is set only in the Failed phase.
type State[E any, P Pending[E, P]] struct {
	Phase   Phase
	Entity  E
	Pending P
	Err     error
}

// Candidate is the entity as it would be committed.
func (s State[E, P]) Candidate() E {
	return s.Pending.Apply(s.Entity)
}

// Action is one of BeginEdit, FieldChange, Cancel, Submit, Success,
// Failure and Retry.
type Action interface {
	name() string
}

type BeginEdit struct{}

type FieldChange struct {
	Field string
	Value string
}

type Cancel struct{}

type Submit struct{}

type Success[E any] struct {
	Entity E
}

type Failure struct {
	Err error
}

type Retry struct{}

func (BeginEdit) name() string   { return "begin_edit" }
func (FieldChange) name() string { return "field_change" }
func (Cancel) name() string      { return "cancel" }
func (Submit) name() string      { return "submit" }
func (Success[E]) name() string  { return "success" }
func (Failure) name() string     { return "failure" }
func (Retry) name() string       { return "retry" }

// Reduce applies a to s. Transitions outside the table return
// ErrInvalidTransition with s unchanged. A field change the pending
// overlay rejects returns that error with s unchanged.
func Reduce[E any, P Pending[E, P]](s State[E, P], a Action) (State[E, P], error) {
	var none P

	switch s.Phase {
	case Viewing:
		if _, ok := a.(BeginEdit); ok {
			return State[E, P]{Phase: Editing, Entity: s.Entity, Pending: none}, nil
		}

	case Editing:
		switch act := a.(type) {
		case FieldChange:
			next, err := s.Pending.With(act.Field, act.Value)
			if err != nil {
				return s, err
			}
			s.Pending = next
			return s, nil
		case Cancel:
			return State[E, P]{Phase: Viewing, Entity: s.Entity, Pending: none}, nil
		case Submit:
			s.Phase = Submitting
			return s, nil
		}

	case Submitting:
		switch act := a.(type) {
		case Success[E]:
			return State[E, P]{Phase: Viewing, Entity: act.Entity, Pending: none}, nil
		case Failure:
			s.Phase = Failed
			s.Err = act.Err
			return s, nil
		}

	case Failed:
		switch a.(type) {
		case Retry:
			s.Phase = Submitting
			s.Err = nil
			return s, nil
		case Cancel:
			return State[E, P]{Phase: Viewing, Entity: s.Entity, Pending: none}, nil
		}
	}

	return s, fmt.Errorf("%w: %s while %s", ErrInvalidTransition, a.name(), s.Phase)
}

package dialog

import (
	"context"

	"github.com/mcoot/freestreet/internal/model"
)

// Presenter delivers presentations to a participant's client
type Presenter interface {
	Present(id model.ParticipantID, p Presentation)
	Dismiss(id model.ParticipantID)
}

// entry wraps a dialog so the stack can compare entries by identity
type entry struct {
	dialog Dialog
}

// Stack is the ordered set of open dialogs of one participant. Only the top
// entry is active; entries beneath it are suspended. A Stack is not safe for
// concurrent use; the session registry serializes access.
type Stack struct {
	participant model.ParticipantID
	presenter   Presenter
	entries     []*entry
}

// NewStack creates an empty stack for a participant
func NewStack(participant model.ParticipantID, presenter Presenter) *Stack {
	return &Stack{
		participant: participant,
		presenter:   presenter,
	}
}

// Push appends a dialog and presents it as the new top
func (s *Stack) Push(ctx context.Context, d Dialog) {
	s.entries = append(s.entries, &entry{dialog: d})
	s.present(ctx)
}

// Respond routes a response to the top dialog and applies its outcome.
// A dialog pushed while handling the response stays on top and the responder
// remains suspended beneath it.
func (s *Stack) Respond(ctx context.Context, r Response) (Outcome, error) {
	depth := len(s.entries)
	if depth == 0 {
		return Consumed, model.ErrNoActiveDialog
	}
	top := s.entries[depth-1]

	outcome := top.dialog.OnResponse(s.context(ctx), r)

	// The handler may have cleared the stack or otherwise replaced the responder
	if len(s.entries) < depth || s.entries[depth-1] != top {
		return outcome, nil
	}
	if len(s.entries) > depth {
		return outcome, nil
	}

	if outcome == Consumed {
		s.entries = s.entries[:depth-1]
	}
	s.present(ctx)
	return outcome, nil
}

// Depth returns the number of open dialogs
func (s *Stack) Depth() int {
	return len(s.entries)
}

// Current returns the top dialog, or nil when nothing is open
func (s *Stack) Current() Dialog {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1].dialog
}

// Clear discards every open dialog without presenting anything
func (s *Stack) Clear() {
	s.entries = nil
}

func (s *Stack) present(ctx context.Context) {
	if len(s.entries) == 0 {
		s.presenter.Dismiss(s.participant)
		return
	}
	top := s.entries[len(s.entries)-1]
	s.presenter.Present(s.participant, top.dialog.Present(s.context(ctx)))
}

func (s *Stack) context(ctx context.Context) *Context {
	return &Context{
		Context:     ctx,
		Participant: s.participant,
		stack:       s,
	}
}

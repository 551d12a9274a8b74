// Package dialog implements the modal dialog variants and the per-participant
// stack that routes responses to the top entry.
package dialog

import (
	"context"

	"github.com/mcoot/freestreet/internal/model"
)

// Kind identifies how the client should render a presentation
type Kind string

const (
	KindMessage Kind = "message"
	KindInput   Kind = "input"
	KindMenu    Kind = "menu"
	KindList    Kind = "list"
	KindRadio   Kind = "radio"
	KindConfirm Kind = "confirm"
)

// Item is one selectable line of a menu or list
type Item struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Presentation is what the client is asked to show
type Presentation struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Items []Item `json:"items,omitempty"`
	// Masked asks the client to hide typed text
	Masked bool `json:"masked,omitempty"`
}

// Response is the client's answer to the presentation on top of the stack
type Response struct {
	Accepted bool   `json:"accepted"`
	Index    int    `json:"index"`
	Text     string `json:"text"`
}

// Outcome tells the stack what to do with the dialog that handled a response
type Outcome int

const (
	// Consumed pops the dialog and re-presents the one beneath it
	Consumed Outcome = iota
	// Retained keeps the dialog on top and re-presents it
	Retained
)

func (o Outcome) String() string {
	if o == Retained {
		return "retained"
	}
	return "consumed"
}

// Dialog is implemented by every variant. Present is called each time the
// dialog becomes or stays the top entry, so it must read live state.
type Dialog interface {
	Present(c *Context) Presentation
	OnResponse(c *Context, r Response) Outcome
}

// Context is handed to every Present and OnResponse call
type Context struct {
	context.Context
	Participant model.ParticipantID
	stack       *Stack
}

// Push opens a dialog on top of the calling participant's stack
func (c *Context) Push(d Dialog) {
	c.stack.Push(c.Context, d)
}

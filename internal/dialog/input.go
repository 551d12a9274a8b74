package dialog

// PromptState selects which prompt an Input shows
type PromptState int

const (
	PromptInitial PromptState = iota
	// PromptRequired is shown after the participant declined a dialog they must answer
	PromptRequired
	// PromptError is shown after a rejected submission
	PromptError
)

// InputResult is what a submit or cancel handler reports back to the Input
type InputResult int

const (
	// InputDone consumes the dialog
	InputDone InputResult = iota
	// InputInvalid retains the dialog with the error prompt
	InputInvalid
	// InputRequired retains the dialog with the must-act prompt
	InputRequired
	// InputAgain retains the dialog with its current prompt
	InputAgain
)

// Input captures free text. A rejected submission always switches the prompt
// so the participant never sees a stale message.
type Input struct {
	Title  string
	Prompt func(c *Context, state PromptState) string
	Submit func(c *Context, text string) InputResult
	// Cancel handles a declined dialog. Nil consumes it.
	Cancel func(c *Context) InputResult
	// Password asks the client to mask the text
	Password bool

	state PromptState
}

// State returns the prompt state the Input is currently showing
func (d *Input) State() PromptState {
	return d.state
}

func (d *Input) Present(c *Context) Presentation {
	p := Presentation{Kind: KindInput, Title: d.Title, Masked: d.Password}
	if d.Prompt != nil {
		p.Body = d.Prompt(c, d.state)
	}
	return p
}

func (d *Input) OnResponse(c *Context, r Response) Outcome {
	var result InputResult
	switch {
	case !r.Accepted && d.Cancel == nil:
		return Consumed
	case !r.Accepted:
		result = d.Cancel(c)
	case d.Submit == nil:
		return Consumed
	default:
		result = d.Submit(c, r.Text)
	}

	switch result {
	case InputInvalid:
		d.state = PromptError
	case InputRequired:
		d.state = PromptRequired
	case InputAgain:
	default:
		return Consumed
	}
	return Retained
}

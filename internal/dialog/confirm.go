package dialog

// Confirm asks a yes/no question. Either answer consumes it.
type Confirm struct {
	Title     string
	Text      string
	OnAccept  func(c *Context)
	OnDecline func(c *Context)
}

func (d *Confirm) Present(c *Context) Presentation {
	return Presentation{Kind: KindConfirm, Title: d.Title, Body: d.Text}
}

func (d *Confirm) OnResponse(c *Context, r Response) Outcome {
	switch {
	case r.Accepted && d.OnAccept != nil:
		d.OnAccept(c)
	case !r.Accepted && d.OnDecline != nil:
		d.OnDecline(c)
	}
	return Consumed
}

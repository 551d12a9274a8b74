package dialog

// Message shows text and is consumed by any acknowledgement
type Message struct {
	Title string
	Text  func(c *Context) string
}

// NewMessage creates a Message with fixed text
func NewMessage(title, text string) *Message {
	return &Message{
		Title: title,
		Text:  func(*Context) string { return text },
	}
}

func (d *Message) Present(c *Context) Presentation {
	p := Presentation{Kind: KindMessage, Title: d.Title}
	if d.Text != nil {
		p.Body = d.Text(c)
	}
	return p
}

func (d *Message) OnResponse(c *Context, r Response) Outcome {
	return Consumed
}

package dialog

type menuItem struct {
	label  string
	action func(c *Context)
}

// MenuBuilder collects the items of a Menu as it is presented
type MenuBuilder struct {
	title string
	items []menuItem
}

// SetTitle overrides the menu title for this presentation
func (b *MenuBuilder) SetTitle(title string) {
	b.title = title
}

// Add appends an item. A nil action makes an informational line.
func (b *MenuBuilder) Add(label string, action func(c *Context)) {
	b.items = append(b.items, menuItem{label: label, action: action})
}

// Len returns the number of items added so far
func (b *MenuBuilder) Len() int {
	return len(b.items)
}

// Menu is a list of labelled actions rebuilt on every presentation.
// Items the participant may not use are left out by Build; selecting an
// item runs its action and always consumes the menu.
type Menu struct {
	Title string
	Build func(c *Context, b *MenuBuilder)

	items []menuItem
}

func (d *Menu) Present(c *Context) Presentation {
	b := &MenuBuilder{title: d.Title}
	if d.Build != nil {
		d.Build(c, b)
	}
	d.items = b.items

	p := Presentation{Kind: KindMenu, Title: b.title, Items: make([]Item, len(b.items))}
	for i, it := range b.items {
		p.Items[i] = Item{Label: it.label}
	}
	return p
}

func (d *Menu) OnResponse(c *Context, r Response) Outcome {
	if !r.Accepted {
		return Consumed
	}
	if r.Index < 0 || r.Index >= len(d.items) {
		return Retained
	}
	if action := d.items[r.Index].action; action != nil {
		action(c)
	}
	return Consumed
}

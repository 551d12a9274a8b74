package dialog

type listItem[K comparable] struct {
	key      K
	label    string
	selected bool
}

// ListBuilder collects the keyed items of an ItemList or RadioList
type ListBuilder[K comparable] struct {
	title string
	body  string
	items []listItem[K]
}

// SetTitle overrides the list title for this presentation
func (b *ListBuilder[K]) SetTitle(title string) {
	b.title = title
}

// SetBody sets a line shown above the items, e.g. when the list is empty
func (b *ListBuilder[K]) SetBody(body string) {
	b.body = body
}

// Add appends an item
func (b *ListBuilder[K]) Add(key K, label string) {
	b.AddSelected(key, label, false)
}

// AddSelected appends an item, optionally marked as the current value
func (b *ListBuilder[K]) AddSelected(key K, label string, selected bool) {
	b.items = append(b.items, listItem[K]{key: key, label: label, selected: selected})
}

// choice is the behaviour shared by ItemList and RadioList
type choice[K comparable] struct {
	title   string
	build   func(c *Context, b *ListBuilder[K])
	process func(c *Context, key K) bool
	items   []listItem[K]
}

func (d *choice[K]) present(c *Context, kind Kind) Presentation {
	b := &ListBuilder[K]{title: d.title}
	if d.build != nil {
		d.build(c, b)
	}
	d.items = b.items

	p := Presentation{Kind: kind, Title: b.title, Body: b.body, Items: make([]Item, len(b.items))}
	for i, it := range b.items {
		p.Items[i] = Item{Label: it.label, Selected: it.selected}
	}
	return p
}

func (d *choice[K]) respond(c *Context, r Response) Outcome {
	if !r.Accepted {
		return Consumed
	}
	if r.Index < 0 || r.Index >= len(d.items) {
		return Retained
	}
	if d.process == nil || d.process(c, d.items[r.Index].key) {
		return Consumed
	}
	return Retained
}

// ItemList offers keyed items; the selected key is passed to process, and a
// rejected key retains the list.
type ItemList[K comparable] struct {
	choice[K]
}

// NewItemList creates an ItemList
func NewItemList[K comparable](
	title string,
	build func(c *Context, b *ListBuilder[K]),
	process func(c *Context, key K) bool,
) *ItemList[K] {
	return &ItemList[K]{choice[K]{title: title, build: build, process: process}}
}

func (d *ItemList[K]) Present(c *Context) Presentation {
	return d.present(c, KindList)
}

func (d *ItemList[K]) OnResponse(c *Context, r Response) Outcome {
	return d.respond(c, r)
}

// RadioList is an ItemList whose build marks the currently effective value
type RadioList[K comparable] struct {
	choice[K]
}

// NewRadioList creates a RadioList
func NewRadioList[K comparable](
	title string,
	build func(c *Context, b *ListBuilder[K]),
	process func(c *Context, key K) bool,
) *RadioList[K] {
	return &RadioList[K]{choice[K]{title: title, build: build, process: process}}
}

func (d *RadioList[K]) Present(c *Context) Presentation {
	return d.present(c, KindRadio)
}

func (d *RadioList[K]) OnResponse(c *Context, r Response) Outcome {
	return d.respond(c, r)
}

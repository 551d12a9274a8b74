package dialog

import (
	"github.com/mcoot/freestreet/internal/model"
)

// recorder is a Presenter that keeps every presentation it was asked to show
type recorder struct {
	shown     []Presentation
	dismissed int
}

func (r *recorder) Present(id model.ParticipantID, p Presentation) {
	r.shown = append(r.shown, p)
}

func (r *recorder) Dismiss(id model.ParticipantID) {
	r.dismissed++
}

func (r *recorder) last() Presentation {
	if len(r.shown) == 0 {
		return Presentation{}
	}
	return r.shown[len(r.shown)-1]
}

package flows

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/freestreet/internal/dependencies/mocks"
	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/services/account"
	"github.com/mcoot/freestreet/internal/services/crew"
	"github.com/mcoot/freestreet/internal/services/police"
	"github.com/mcoot/freestreet/internal/session"
	"github.com/mcoot/freestreet/internal/storage/memory"
	"github.com/mcoot/freestreet/internal/testutil"
	"github.com/mcoot/freestreet/internal/world"
)

const testPassword = "password123"

type recorder struct {
	mu      sync.Mutex
	shown   map[model.ParticipantID][]dialog.Presentation
	notices map[model.ParticipantID][]string
}

func newRecorder() *recorder {
	return &recorder{
		shown:   make(map[model.ParticipantID][]dialog.Presentation),
		notices: make(map[model.ParticipantID][]string),
	}
}

func (r *recorder) Present(id model.ParticipantID, p dialog.Presentation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown[id] = append(r.shown[id], p)
}

func (r *recorder) Dismiss(id model.ParticipantID) {}

func (r *recorder) Notify(id model.ParticipantID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices[id] = append(r.notices[id], text)
}

func (r *recorder) last(id model.ParticipantID) dialog.Presentation {
	r.mu.Lock()
	defer r.mu.Unlock()
	shown := r.shown[id]
	if len(shown) == 0 {
		return dialog.Presentation{}
	}
	return shown[len(shown)-1]
}

func (r *recorder) noticesFor(id model.ParticipantID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices[id]...)
}

type sinkRecorder struct {
	mu     sync.Mutex
	events []world.Event
}

func (s *sinkRecorder) Emit(ev world.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *sinkRecorder) has(kind world.EventKind, id model.ParticipantID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Kind == kind && ev.Participant == id {
			return true
		}
	}
	return false
}

// FlowSuite wires the engine to in-memory collaborators
type FlowSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	notifier *recorder
	sink     *sinkRecorder
	world    *world.Memory
	registry *session.Registry
	accounts *account.Service
	crews    *crew.Controller
	police   *police.Authority
	engine   *Engine
	logs     *testutil.LogRecorder
	ctx      context.Context
}

func (s *FlowSuite) SetupTest() {
	s.logs = testutil.NewLogRecorder()
	logger := s.logs.Logger()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.notifier = newRecorder()
	s.sink = &sinkRecorder{}
	s.world = world.NewMemory(s.sink, mocks.NewMockRandom(), nil)
	s.registry = session.New(s.notifier, s.clock, logger, session.DefaultConfig())
	s.accounts = account.New(s.storage, s.clock, logger, account.Config{PasswordCost: bcrypt.MinCost})
	s.crews = crew.NewController(s.storage, s.clock, logger)
	s.police = police.NewAuthority(s.storage, s.clock, logger)
	s.engine = New(s.registry, s.accounts, s.crews, s.police, s.world, logger)
	s.ctx = context.Background()
}

// join connects a participant and registers or logs it in
func (s *FlowSuite) join(name string) model.ParticipantID {
	id, err := s.registry.Connect(s.ctx, name)
	s.Require().NoError(err)
	s.respond(id, dialog.Response{Accepted: true, Text: testPassword})
	s.Require().True(s.info(id).Authenticated(), "%s did not log in", name)
	return id
}

func (s *FlowSuite) info(id model.ParticipantID) session.Info {
	info, err := s.registry.Participant(id)
	s.Require().NoError(err)
	return info
}

func (s *FlowSuite) profile(id model.ParticipantID) *model.Profile {
	p, err := s.storage.GetProfile(s.ctx, s.info(id).Profile)
	s.Require().NoError(err)
	return p
}

func (s *FlowSuite) mutate(id model.ParticipantID, fn func(p *model.Profile)) {
	p := s.profile(id)
	fn(p)
	s.Require().NoError(s.storage.SaveProfile(s.ctx, p))
}

func (s *FlowSuite) respond(id model.ParticipantID, r dialog.Response) {
	s.Require().NoError(s.registry.Dispatch(s.ctx, id, r))
}

func (s *FlowSuite) items(id model.ParticipantID) []string {
	var labels []string
	for _, it := range s.notifier.last(id).Items {
		labels = append(labels, it.Label)
	}
	return labels
}

// choose selects the item with the given label from the dialog on top
func (s *FlowSuite) choose(id model.ParticipantID, label string) {
	for i, it := range s.notifier.last(id).Items {
		if it.Label == label {
			s.respond(id, dialog.Response{Accepted: true, Index: i})
			return
		}
	}
	s.FailNow("item not offered", "%q not in %v", label, s.items(id))
}

func (s *FlowSuite) submit(id model.ParticipantID, text string) {
	s.respond(id, dialog.Response{Accepted: true, Text: text})
}

package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/freestreet/internal/dependencies/clock"
	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
)

// Notifier is the outbound side of a participant's connection
type Notifier interface {
	dialog.Presenter
	Notify(id model.ParticipantID, text string)
}

// Hook runs on a participant lifecycle event while the driver lock is held
type Hook func(ctx context.Context, p Info)

// Config holds configuration for the registry
type Config struct {
	MaxParticipants int
}

// DefaultConfig returns default registry configuration
func DefaultConfig() Config {
	return Config{
		MaxParticipants: 500,
	}
}

// participant is the registry's live record of a connection
type participant struct {
	info  Info
	stack *dialog.Stack
}

// Registry maps connected participants to their dialog stacks and profiles.
//
// Every entry point from a transport (Connect, Disconnect, Dispatch, Open,
// Exclusive) holds the driver lock for its whole duration, so dialog handlers
// run one at a time. Handlers may call Push, Authenticate and the read
// methods, which only take the short map lock.
type Registry struct {
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	max      int

	driver sync.Mutex

	mu           sync.RWMutex
	participants map[model.ParticipantID]*participant

	onConnect    Hook
	onDisconnect Hook
}

// New creates a new Registry
func New(notifier Notifier, clock clock.Clock, logger *slog.Logger, cfg Config) *Registry {
	if cfg.MaxParticipants <= 0 {
		cfg.MaxParticipants = DefaultConfig().MaxParticipants
	}
	return &Registry{
		notifier:     notifier,
		clock:        clock,
		logger:       logger.With(slog.String("component", "session")),
		max:          cfg.MaxParticipants,
		participants: make(map[model.ParticipantID]*participant),
	}
}

// OnConnect sets the hook run after a participant is registered
func (r *Registry) OnConnect(h Hook) {
	r.onConnect = h
}

// OnDisconnect sets the hook run after a participant is removed
func (r *Registry) OnDisconnect(h Hook) {
	r.onDisconnect = h
}

// Connect registers a participant in the lowest free slot. A name already
// in use by a connected participant is refused.
func (r *Registry) Connect(ctx context.Context, name string) (model.ParticipantID, error) {
	r.driver.Lock()
	defer r.driver.Unlock()

	r.mu.Lock()
	for _, other := range r.participants {
		if other.info.Name == name {
			r.mu.Unlock()
			return 0, model.ErrAlreadyConnected
		}
	}
	id, ok := r.freeSlot()
	if !ok {
		r.mu.Unlock()
		return 0, model.ErrServerFull
	}
	p := &participant{
		info: Info{
			ID:          id,
			Name:        name,
			State:       StateAnon,
			ConnectedAt: r.clock.Now(),
		},
		stack: dialog.NewStack(id, r.notifier),
	}
	r.participants[id] = p
	r.mu.Unlock()

	r.logger.Info("participant connected",
		slog.Int("participant_id", int(id)),
		slog.String("name", name),
	)

	if r.onConnect != nil {
		r.onConnect(ctx, p.info)
	}
	return id, nil
}

// Disconnect removes a participant and discards its dialog stack.
// Mutations already committed by its dialogs stand.
func (r *Registry) Disconnect(ctx context.Context, id model.ParticipantID) error {
	r.driver.Lock()
	defer r.driver.Unlock()
	return r.disconnect(ctx, id)
}

// Dispatch routes a response to the top dialog of a participant
func (r *Registry) Dispatch(ctx context.Context, id model.ParticipantID, resp dialog.Response) error {
	r.driver.Lock()
	defer r.driver.Unlock()

	p, err := r.get(id)
	if err != nil {
		return err
	}
	_, err = p.stack.Respond(ctx, resp)
	return err
}

// Open pushes a dialog from outside any dialog handler
func (r *Registry) Open(ctx context.Context, id model.ParticipantID, d dialog.Dialog) error {
	r.driver.Lock()
	defer r.driver.Unlock()
	return r.Push(ctx, id, d)
}

// Exclusive runs fn with the driver lock held
func (r *Registry) Exclusive(fn func()) {
	r.driver.Lock()
	defer r.driver.Unlock()
	fn()
}

// Push opens a dialog on a participant's stack. It must be called with the
// driver lock held, i.e. from a dialog handler or a hook.
func (r *Registry) Push(ctx context.Context, id model.ParticipantID, d dialog.Dialog) error {
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.stack.Push(ctx, d)
	return nil
}

// Depth returns the number of open dialogs of a participant
func (r *Registry) Depth(id model.ParticipantID) int {
	p, err := r.get(id)
	if err != nil {
		return 0
	}
	return p.stack.Depth()
}

// Current returns the top dialog of a participant, or nil
func (r *Registry) Current(id model.ParticipantID) dialog.Dialog {
	p, err := r.get(id)
	if err != nil {
		return nil
	}
	return p.stack.Current()
}

// SetState records the authentication state of an unauthenticated participant
func (r *Registry) SetState(id model.ParticipantID, state AuthState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return model.ErrParticipantNotFound
	}
	if p.info.State == StateAuthenticated {
		return model.ErrAlreadyAuthenticated
	}
	p.info.State = state
	return nil
}

// Authenticate binds a participant to a profile
func (r *Registry) Authenticate(id model.ParticipantID, profile model.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return model.ErrParticipantNotFound
	}
	if p.info.State == StateAuthenticated {
		return model.ErrAlreadyAuthenticated
	}
	for otherID, other := range r.participants {
		if otherID != id && other.info.State == StateAuthenticated && other.info.Profile == profile {
			return model.ErrProfileOnline
		}
	}
	p.info.State = StateAuthenticated
	p.info.Profile = profile
	p.info.AuthenticatedAt = r.clock.Now()

	r.logger.Info("participant logged in",
		slog.Int("participant_id", int(id)),
		slog.String("profile_id", profile.Hex()),
	)
	return nil
}

// Participant returns a snapshot of a connected participant
func (r *Registry) Participant(id model.ParticipantID) (Info, error) {
	p, err := r.get(id)
	if err != nil {
		return Info{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return p.info, nil
}

// FindByProfile returns the participant logged in as a profile
func (r *Registry) FindByProfile(profile model.ID) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.participants {
		if p.info.State == StateAuthenticated && p.info.Profile == profile {
			return p.info, true
		}
	}
	return Info{}, false
}

// List returns snapshots of every participant ordered by slot
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Info, 0, len(r.participants))
	for _, p := range r.participants {
		list = append(list, p.info)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Notify sends a side-channel message to a participant, if connected
func (r *Registry) Notify(id model.ParticipantID, text string) {
	if _, err := r.get(id); err != nil {
		return
	}
	r.notifier.Notify(id, text)
}

// Close disconnects every participant. Used at shutdown.
func (r *Registry) Close(ctx context.Context) {
	r.driver.Lock()
	defer r.driver.Unlock()
	for _, info := range r.List() {
		_ = r.disconnect(ctx, info.ID)
	}
}

// SessionLength returns how long an authenticated participant has been logged in
func (r *Registry) SessionLength(info Info) time.Duration {
	if info.State != StateAuthenticated {
		return 0
	}
	return r.clock.Since(info.AuthenticatedAt)
}

func (r *Registry) disconnect(ctx context.Context, id model.ParticipantID) error {
	r.mu.Lock()
	p, ok := r.participants[id]
	if !ok {
		r.mu.Unlock()
		return model.ErrParticipantNotFound
	}
	delete(r.participants, id)
	r.mu.Unlock()

	p.stack.Clear()

	r.logger.Info("participant disconnected",
		slog.Int("participant_id", int(id)),
		slog.String("state", p.info.State.String()),
	)

	if r.onDisconnect != nil {
		r.onDisconnect(ctx, p.info)
	}
	return nil
}

func (r *Registry) get(id model.ParticipantID) (*participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	return p, nil
}

// freeSlot returns the lowest unused slot. Caller holds mu.
func (r *Registry) freeSlot() (model.ParticipantID, bool) {
	for i := 0; i < r.max; i++ {
		id := model.ParticipantID(i)
		if _, used := r.participants[id]; !used {
			return id, true
		}
	}
	return 0, false
}

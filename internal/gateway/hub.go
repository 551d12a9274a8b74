// Package gateway connects websocket clients to the session registry. One
// socket carries one participant.
package gateway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/session"
	"github.com/mcoot/freestreet/internal/world"
)

// Sessions is the part of the session registry the gateway drives
type Sessions interface {
	Connect(ctx context.Context, name string) (model.ParticipantID, error)
	Disconnect(ctx context.Context, id model.ParticipantID) error
	Dispatch(ctx context.Context, id model.ParticipantID, resp dialog.Response) error
}

// Commands opens the dialogs clients can ask for directly
type Commands interface {
	OpenControlPanel(ctx context.Context, id model.ParticipantID) error
	OpenCrewPanel(ctx context.Context, id model.ParticipantID) error
	OpenProfile(ctx context.Context, id model.ParticipantID) error
	OpenPlayerControl(ctx context.Context, id, target model.ParticipantID) error
}

// Tracker receives client position reports
type Tracker interface {
	Update(id model.ParticipantID, pos world.Position, inVehicle bool)
}

// Hub routes frames between sockets and participants. It is the registry's
// notifier and the world's event sink.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ParticipantID]*Client
	// frames produced for a slot while its socket is still connecting
	backlog    map[model.ParticipantID][][]byte
	connecting int

	sessions Sessions
	commands Commands
	tracker  Tracker
	logger   *slog.Logger
}

// NewHub creates a Hub. Attach must be called before serving clients.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ParticipantID]*Client),
		backlog: make(map[model.ParticipantID][][]byte),
		logger:  logger.With(slog.String("component", "gateway")),
	}
}

// Attach connects the hub to the components it forwards client frames to
func (h *Hub) Attach(sessions Sessions, commands Commands, tracker Tracker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions = sessions
	h.commands = commands
	h.tracker = tracker
}

var (
	_ session.Notifier = (*Hub)(nil)
	_ world.Sink       = (*Hub)(nil)
)

// Present sends a dialog to the participant's client
func (h *Hub) Present(id model.ParticipantID, p dialog.Presentation) {
	h.send(id, FrameDialog, DialogData{Presentation: p})
}

// Dismiss tells the participant's client to close its dialog
func (h *Hub) Dismiss(id model.ParticipantID) {
	h.send(id, FrameDismiss, nil)
}

// Notify sends a one-line notice
func (h *Hub) Notify(id model.ParticipantID, text string) {
	h.send(id, FrameNotice, NoticeData{Text: text})
}

// Emit forwards a world event. A kick also closes the socket.
func (h *Hub) Emit(ev world.Event) {
	h.send(ev.Participant, FrameWorld, ev)
	if ev.Kind != world.EventKick {
		return
	}
	h.send(ev.Participant, FrameKicked, nil)

	h.mu.RLock()
	c, ok := h.clients[ev.Participant]
	h.mu.RUnlock()
	if ok {
		c.close()
	}
}

// ClientCount returns the number of bound sockets
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.logger.Info("gateway stopped", slog.Int("disconnected_clients", len(clients)))
}

func (h *Hub) send(id model.ParticipantID, frameType string, data any) {
	msg, err := encode(frameType, data)
	if err != nil {
		h.logger.Error("failed to encode frame",
			slog.String("type", frameType),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.Lock()
	c, ok := h.clients[id]
	if !ok {
		if h.connecting > 0 {
			h.backlog[id] = append(h.backlog[id], msg)
		}
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	if !c.enqueue(msg) {
		h.logger.Warn("frame dropped - client buffer full",
			slog.Int("participant_id", int(id)),
			slog.String("connection_id", c.connID),
			slog.String("type", frameType),
		)
	}
}

// connect joins the registry and binds c to the slot it was given. Frames
// the connect hooks produce are held until the bind.
func (h *Hub) connect(ctx context.Context, c *Client, name string) (model.ParticipantID, error) {
	sessions, _, _ := h.components()

	h.mu.Lock()
	h.connecting++
	h.mu.Unlock()

	id, err := sessions.Connect(ctx, name)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.connecting--
	if err == nil {
		h.bind(id, c)
	}
	if h.connecting == 0 {
		clear(h.backlog)
	}
	return id, err
}

// bind attaches a client to its participant slot. Caller holds mu.
func (h *Hub) bind(id model.ParticipantID, c *Client) {
	c.participant = id
	c.bound = true
	h.clients[id] = c

	if welcome, err := encode(FrameWelcome, WelcomeData{ParticipantID: id, ConnectionID: c.connID}); err == nil {
		c.enqueue(welcome)
	}
	for _, msg := range h.backlog[id] {
		c.enqueue(msg)
	}
	delete(h.backlog, id)

	h.logger.Info("client bound",
		slog.Int("participant_id", int(id)),
		slog.String("connection_id", c.connID),
		slog.Int("total_clients", len(h.clients)),
	)
}

// unbind releases the client's slot, if it still owns it
func (h *Hub) unbind(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.bound && h.clients[c.participant] == c {
		delete(h.clients, c.participant)
	}
}

func (h *Hub) components() (Sessions, Commands, Tracker) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions, h.commands, h.tracker
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/world"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	connID      string
	connectedAt time.Time

	// set by the hub once the hello frame has been accepted
	participant model.ParticipantID
	bound       bool

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		connID:      uuid.NewString(),
		connectedAt: time.Now(),
		send:        make(chan []byte, sendBufferSize),
	}
}

// ServeWS upgrades the request and runs the connection until it closes
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newClient(h, conn)
	h.logger.Info("client connected",
		slog.String("connection_id", c.connID),
		slog.String("remote_addr", r.RemoteAddr),
	)

	go c.writePump()
	c.readPump(context.WithoutCancel(r.Context()))
}

// enqueue queues a frame. It reports false only when the buffer is full.
func (c *Client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close stops the write pump, which closes the socket
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump(ctx context.Context) {
	defer c.leave(ctx)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed",
					slog.String("connection_id", c.connID),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			c.reject("invalid frame")
			continue
		}
		if !c.safeHandle(ctx, frame) {
			return
		}
	}
}

// safeHandle keeps one misbehaving dialog handler from taking down the
// connection
func (c *Client) safeHandle(ctx context.Context, frame Frame) (keep bool) {
	defer func() {
		if rec := recover(); rec != nil {
			c.hub.logger.Error("frame handler panicked",
				slog.String("connection_id", c.connID),
				slog.String("frame_type", frame.Type),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			c.reject("internal error")
			keep = true
		}
	}()
	return c.handle(ctx, frame)
}

// handle processes one inbound frame. It returns false when the connection
// should be closed.
func (c *Client) handle(ctx context.Context, frame Frame) bool {
	sessions, commands, tracker := c.hub.components()

	if !c.bound {
		if frame.Type != FrameHello {
			c.reject("say hello first")
			return true
		}
		var hello HelloData
		if err := json.Unmarshal(frame.Data, &hello); err != nil || hello.Name == "" {
			c.reject("hello needs a name")
			return true
		}
		if _, err := c.hub.connect(ctx, c, hello.Name); err != nil {
			c.reject(err.Error())
			c.hub.logger.Warn("connect refused",
				slog.String("connection_id", c.connID),
				slog.String("error", err.Error()),
			)
			return false
		}
		return true
	}

	switch frame.Type {
	case FrameHello:
		c.reject(model.ErrAlreadyConnected.Error())

	case FrameResponse:
		var data ResponseData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			c.reject("invalid response")
			return true
		}
		err := sessions.Dispatch(ctx, c.participant, dialog.Response{
			Accepted: data.Accepted,
			Index:    data.Index,
			Text:     data.Text,
		})
		if err != nil && !errors.Is(err, model.ErrNoActiveDialog) {
			c.hub.logger.Warn("dispatch failed",
				slog.Int("participant_id", int(c.participant)),
				slog.String("error", err.Error()),
			)
		}

	case FramePosition:
		var data PositionData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			c.reject("invalid position")
			return true
		}
		tracker.Update(c.participant, world.Position{X: data.X, Y: data.Y, Z: data.Z}, data.InVehicle)

	case FrameCommand:
		var data CommandData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			c.reject("invalid command")
			return true
		}
		c.command(ctx, commands, data)

	default:
		c.reject("unknown frame type " + frame.Type)
	}
	return true
}

func (c *Client) command(ctx context.Context, commands Commands, data CommandData) {
	var err error
	switch data.Name {
	case CommandPanel:
		err = commands.OpenControlPanel(ctx, c.participant)
	case CommandCrew:
		err = commands.OpenCrewPanel(ctx, c.participant)
	case CommandProfile:
		err = commands.OpenProfile(ctx, c.participant)
	case CommandPlayer:
		if data.Target == nil {
			c.reject("player command needs a target")
			return
		}
		err = commands.OpenPlayerControl(ctx, c.participant, *data.Target)
	default:
		c.reject("unknown command " + data.Name)
		return
	}
	// The engine already told the participant what went wrong
	if err != nil {
		c.hub.logger.Debug("command refused",
			slog.Int("participant_id", int(c.participant)),
			slog.String("command", data.Name),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Client) reject(message string) {
	if msg, err := encode(FrameError, ErrorData{Message: message}); err == nil {
		c.enqueue(msg)
	}
}

// leave disconnects the participant and releases the slot
func (c *Client) leave(ctx context.Context) {
	if c.bound {
		sessions, _, _ := c.hub.components()
		if err := sessions.Disconnect(ctx, c.participant); err != nil && !errors.Is(err, model.ErrParticipantNotFound) {
			c.hub.logger.Error("disconnect failed",
				slog.Int("participant_id", int(c.participant)),
				slog.String("error", err.Error()),
			)
		}
		c.hub.unbind(c)
	}
	c.close()

	c.hub.logger.Info("client disconnected",
		slog.String("connection_id", c.connID),
		slog.Duration("connection_duration", time.Since(c.connectedAt)),
	)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

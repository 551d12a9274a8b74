package gateway

import (
	"encoding/json"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/world"
)

// Frame types sent by clients
const (
	FrameHello    = "hello"
	FrameResponse = "response"
	FramePosition = "position"
	FrameCommand  = "command"
)

// Frame types sent to clients
const (
	FrameWelcome = "welcome"
	FrameDialog  = "dialog"
	FrameDismiss = "dismiss"
	FrameNotice  = "notice"
	FrameWorld   = "world"
	FrameKicked  = "kicked"
	FrameError   = "error"
)

// Commands a client may issue
const (
	CommandPanel   = "panel"
	CommandCrew    = "crew"
	CommandProfile = "profile"
	CommandPlayer  = "player"
)

// Frame is the envelope of every websocket message
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type HelloData struct {
	Name string `json:"name"`
}

type ResponseData struct {
	Accepted bool   `json:"accepted"`
	Index    int    `json:"index"`
	Text     string `json:"text"`
}

type PositionData struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	InVehicle bool    `json:"in_vehicle"`
}

type CommandData struct {
	Name   string               `json:"name"`
	Target *model.ParticipantID `json:"target,omitempty"`
}

type WelcomeData struct {
	ParticipantID model.ParticipantID `json:"participant_id"`
	ConnectionID  string              `json:"connection_id"`
}

type DialogData struct {
	Presentation dialog.Presentation `json:"presentation"`
}

type NoticeData struct {
	Text string `json:"text"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// WorldData is a world side effect addressed to the receiving participant
type WorldData = world.Event

// encode builds a frame
func encode(frameType string, data any) ([]byte, error) {
	f := Frame{Type: frameType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		f.Data = raw
	}
	return json.Marshal(f)
}

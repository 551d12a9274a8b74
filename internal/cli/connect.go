package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/gateway"
	"github.com/mcoot/freestreet/internal/model"
)

var errQuit = errors.New("quit")

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <name>",
		Short: "Join the server as a participant",
		Long: `Connect to the websocket gateway and drive dialogs from the terminal.

While a dialog is open:
  <number>   pick a menu or list item
  y / n      answer a confirmation
  <text>     reply to an input prompt
  /cancel    decline the current dialog

At any time:
  /panel, /crew, /profile   open a panel
  /player <id>              open the player control for a participant
  /pos <x> <y> <z> [car]    report a position
  /quit                     disconnect

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSession(ctx, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// gatewayURL derives the websocket endpoint from the server URL
func gatewayURL(server string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

type terminalSession struct {
	conn       *websocket.Conn
	out        io.Writer
	jsonOutput bool

	mu      sync.Mutex
	current *dialog.Presentation
}

func runSession(ctx context.Context, name string, in io.Reader, out io.Writer) error {
	wsURL, err := gatewayURL(cfg.ServerURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	s := &terminalSession{conn: conn, out: out, jsonOutput: cfg.Output == "json"}
	if err := s.write(gateway.FrameHello, gateway.HelloData{Name: name}); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- s.readLoop() }()

	stopped := make(chan struct{})
	defer close(stopped)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stopped:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return s.hangUp(done)
		case err := <-done:
			return err
		case line, ok := <-lines:
			if !ok {
				return s.hangUp(done)
			}
			frameType, data, err := parseInput(line, s.dialog())
			if errors.Is(err, errQuit) {
				return s.hangUp(done)
			}
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := s.write(frameType, data); err != nil {
				return err
			}
		}
	}
}

// hangUp sends a close frame and waits briefly for the server to acknowledge it
func (s *terminalSession) hangUp(done <-chan error) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		return nil
	}
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

func (s *terminalSession) write(frameType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.conn.WriteJSON(gateway.Frame{Type: frameType, Data: raw})
}

func (s *terminalSession) dialog() *dialog.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *terminalSession) setDialog(p *dialog.Presentation) {
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
}

func (s *terminalSession) readLoop() error {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				fmt.Fprintln(s.out, "Disconnected")
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		var frame gateway.Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			fmt.Fprintf(s.out, "(malformed frame: %v)\n", err)
			continue
		}
		if frame.Type == gateway.FrameDialog {
			var d gateway.DialogData
			if err := json.Unmarshal(frame.Data, &d); err == nil {
				s.setDialog(&d.Presentation)
			}
		} else if frame.Type == gateway.FrameDismiss {
			s.setDialog(nil)
		}

		if s.jsonOutput {
			fmt.Fprintln(s.out, string(msg))
		} else {
			renderFrame(s.out, frame)
		}
	}
}

// renderFrame prints a server frame for a human. A frame whose payload
// does not decode is reported instead of rendered with zero values.
func renderFrame(w io.Writer, frame gateway.Frame) {
	decode := func(v any) bool {
		if err := json.Unmarshal(frame.Data, v); err != nil {
			fmt.Fprintf(w, "(malformed %s frame: %v)\n", frame.Type, err)
			return false
		}
		return true
	}

	switch frame.Type {
	case gateway.FrameWelcome:
		var d gateway.WelcomeData
		if decode(&d) {
			fmt.Fprintf(w, "Connected as participant %d\n", d.ParticipantID)
		}
	case gateway.FrameDialog:
		var d gateway.DialogData
		if decode(&d) {
			renderPresentation(w, d.Presentation)
		}
	case gateway.FrameDismiss:
		fmt.Fprintln(w, "(dialog closed)")
	case gateway.FrameNotice:
		var d gateway.NoticeData
		if decode(&d) {
			fmt.Fprintf(w, "* %s\n", d.Text)
		}
	case gateway.FrameWorld:
		var d gateway.WorldData
		if decode(&d) {
			fmt.Fprintf(w, "[world] %s\n", d.Kind)
		}
	case gateway.FrameKicked:
		fmt.Fprintln(w, "You were kicked from the server.")
	case gateway.FrameError:
		var d gateway.ErrorData
		if decode(&d) {
			fmt.Fprintf(w, "Error: %s\n", d.Message)
		}
	}
}

func renderPresentation(w io.Writer, p dialog.Presentation) {
	fmt.Fprintf(w, "== %s ==\n", p.Title)
	if p.Body != "" {
		fmt.Fprintln(w, p.Body)
	}
	for i, item := range p.Items {
		mark := " "
		if item.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %2d) %s\n", mark, i+1, item.Label)
	}

	switch p.Kind {
	case dialog.KindMessage:
		fmt.Fprintln(w, "(enter to continue)")
	case dialog.KindInput:
		fmt.Fprintln(w, "(type a reply, /cancel to go back)")
	case dialog.KindConfirm:
		fmt.Fprintln(w, "(y/n)")
	default:
		fmt.Fprintln(w, "(pick a number, /cancel to go back)")
	}
}

// parseInput turns a terminal line into the frame to send, given the open dialog
func parseInput(line string, current *dialog.Presentation) (string, any, error) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "/") {
		return parseCommand(strings.Fields(trimmed))
	}

	if current == nil {
		return "", nil, errors.New("no dialog open, try /panel")
	}

	switch current.Kind {
	case dialog.KindMessage:
		return gateway.FrameResponse, gateway.ResponseData{Accepted: true}, nil
	case dialog.KindInput:
		return gateway.FrameResponse, gateway.ResponseData{Accepted: true, Text: line}, nil
	case dialog.KindConfirm:
		switch strings.ToLower(trimmed) {
		case "y", "yes":
			return gateway.FrameResponse, gateway.ResponseData{Accepted: true}, nil
		case "n", "no":
			return gateway.FrameResponse, gateway.ResponseData{Accepted: false}, nil
		}
		return "", nil, errors.New("answer y or n")
	default:
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 1 || n > len(current.Items) {
			return "", nil, fmt.Errorf("pick a number from 1 to %d", len(current.Items))
		}
		return gateway.FrameResponse, gateway.ResponseData{Accepted: true, Index: n - 1}, nil
	}
}

func parseCommand(fields []string) (string, any, error) {
	switch fields[0] {
	case "/quit":
		return "", nil, errQuit
	case "/cancel":
		return gateway.FrameResponse, gateway.ResponseData{Accepted: false}, nil
	case "/panel":
		return gateway.FrameCommand, gateway.CommandData{Name: gateway.CommandPanel}, nil
	case "/crew":
		return gateway.FrameCommand, gateway.CommandData{Name: gateway.CommandCrew}, nil
	case "/profile":
		return gateway.FrameCommand, gateway.CommandData{Name: gateway.CommandProfile}, nil
	case "/player":
		if len(fields) != 2 {
			return "", nil, errors.New("usage: /player <id>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil || id < 0 {
			return "", nil, fmt.Errorf("invalid participant id %q", fields[1])
		}
		target := model.ParticipantID(id)
		return gateway.FrameCommand, gateway.CommandData{Name: gateway.CommandPlayer, Target: &target}, nil
	case "/pos":
		if len(fields) < 4 || len(fields) > 5 {
			return "", nil, errors.New("usage: /pos <x> <y> <z> [car]")
		}
		var coords [3]float64
		for i := range coords {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return "", nil, fmt.Errorf("invalid coordinate %q", fields[i+1])
			}
			coords[i] = v
		}
		inVehicle := len(fields) == 5 && fields[4] == "car"
		return gateway.FramePosition, gateway.PositionData{X: coords[0], Y: coords[1], Z: coords[2], InVehicle: inVehicle}, nil
	}
	return "", nil, fmt.Errorf("unknown command %s", fields[0])
}

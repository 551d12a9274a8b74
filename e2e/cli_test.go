package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/freestreet/internal/api"
	"github.com/mcoot/freestreet/internal/dialog"
	"github.com/mcoot/freestreet/internal/factory"
	"github.com/mcoot/freestreet/internal/gateway"
	"github.com/mcoot/freestreet/internal/services/account"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "freestreet-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/freestreet")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	addr := freeAddr(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{
		AccountConfig: account.Config{PasswordCost: bcrypt.MinCost},
		Logger:        logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
		Accounts: app.Accounts,
		Crews:    app.Crews,
		Gateway:  app.Gateway,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			app.Gateway.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// participant is a game client speaking the websocket protocol
type participant struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialParticipant(t *testing.T, serverURL, name string) *participant {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	p := &participant{t: t, conn: conn}
	p.send(gateway.FrameHello, gateway.HelloData{Name: name})
	p.waitFor(gateway.FrameWelcome, nil)
	return p
}

func (p *participant) send(frameType string, data any) {
	p.t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteJSON(gateway.Frame{Type: frameType, Data: raw}))
}

// waitFor reads frames until one of frameType satisfies match
func (p *participant) waitFor(frameType string, match func(raw json.RawMessage) bool) json.RawMessage {
	p.t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(p.t, p.conn.SetReadDeadline(deadline))
		var frame gateway.Frame
		require.NoError(p.t, p.conn.ReadJSON(&frame), "waiting for %s", frameType)
		if frame.Type == frameType && (match == nil || match(frame.Data)) {
			return frame.Data
		}
	}
}

func (p *participant) waitDialog(title string) dialog.Presentation {
	p.t.Helper()
	var d gateway.DialogData
	p.waitFor(gateway.FrameDialog, func(raw json.RawMessage) bool {
		return json.Unmarshal(raw, &d) == nil && d.Presentation.Title == title
	})
	return d.Presentation
}

func (p *participant) waitNotice(text string) {
	p.t.Helper()
	p.waitFor(gateway.FrameNotice, func(raw json.RawMessage) bool {
		var n gateway.NoticeData
		return json.Unmarshal(raw, &n) == nil && n.Text == text
	})
}

func (p *participant) choose(pres dialog.Presentation, label string) {
	p.t.Helper()
	for i, item := range pres.Items {
		if item.Label == label {
			p.send(gateway.FrameResponse, gateway.ResponseData{Accepted: true, Index: i})
			return
		}
	}
	p.t.Fatalf("no item %q in %q", label, pres.Title)
}

func (p *participant) reply(text string) {
	p.send(gateway.FrameResponse, gateway.ResponseData{Accepted: true, Text: text})
}

// Response types for JSON parsing
type healthResponse struct {
	Status       string `json:"status"`
	Participants int    `json:"participants"`
}

type participantResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	ProfileID string `json:"profile_id"`
}

type profileResponse struct {
	ID          string `json:"id"`
	LogName     string `json:"log_name"`
	CrewID      string `json:"crew_id"`
	WantedLevel int    `json:"wanted_level"`
}

type crewResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Members []struct {
		LogName string `json:"log_name"`
		Tier    string `json:"tier"`
	} `json:"members"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Participants)
}

func TestCLI_ParticipantFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Alice registers over the gateway
	alice := dialParticipant(t, ts.addr, "alice")
	alice.waitDialog("Register")
	alice.reply("password123")
	alice.waitNotice("Registered and logged in.")

	// Bob stays anonymous
	dialParticipant(t, ts.addr, "bob").waitDialog("Register")

	// Alice founds a crew through the crew panel
	alice.send(gateway.FrameCommand, gateway.CommandData{Name: gateway.CommandCrew})
	alice.choose(alice.waitDialog("Crew"), "Create crew")
	alice.waitDialog("Create crew")
	alice.reply("Vagos")
	alice.waitNotice("Crew created.")

	// Operator lookups see it all
	output, err := cli.run("participants")
	require.NoError(t, err, "output: %s", output)
	var participants []participantResponse
	require.NoError(t, json.Unmarshal([]byte(output), &participants))
	require.Len(t, participants, 2)
	assert.Equal(t, "alice", participants[0].Name)
	assert.NotEmpty(t, participants[0].ProfileID)
	assert.Equal(t, "bob", participants[1].Name)
	assert.Empty(t, participants[1].ProfileID)

	output, err = cli.run("profile", "show", "alice")
	require.NoError(t, err, "output: %s", output)
	var profile profileResponse
	require.NoError(t, json.Unmarshal([]byte(output), &profile))
	assert.Equal(t, "alice", profile.LogName)
	assert.Equal(t, participants[0].ProfileID, profile.ID)
	assert.NotEmpty(t, profile.CrewID)

	output, err = cli.run("crew", "search", "vag")
	require.NoError(t, err, "output: %s", output)
	var crews []crewResponse
	require.NoError(t, json.Unmarshal([]byte(output), &crews))
	require.Len(t, crews, 1)
	assert.Equal(t, "Vagos", crews[0].Name)
	assert.Equal(t, profile.CrewID, crews[0].ID)
	require.Len(t, crews[0].Members, 1)
	assert.Equal(t, "alice", crews[0].Members[0].LogName)

	// Unknown profiles fail the command
	output, err = cli.run("profile", "show", "carol")
	require.Error(t, err)
	assert.Contains(t, output, "PROFILE_NOT_FOUND")

	// Hanging up frees the slot
	require.NoError(t, alice.conn.Close())
	require.Eventually(t, func() bool {
		return len(ts.app.Registry.List()) == 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestCLI_ServeCommand(t *testing.T) {
	addr := freeAddr(t)
	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	cli := newCLIRunner(t, "http://"+addr)

	serve := exec.Command(cli.binaryPath, "serve", "--host", "127.0.0.1", "--port", port, "--max-participants", "1")
	serve.Env = append(os.Environ(), "STORAGE_TYPE=memory", "API_TOKEN=", "LOG_LEVEL=error")
	serve.Stdout = io.Discard
	serve.Stderr = io.Discard
	require.NoError(t, serve.Start())
	t.Cleanup(func() { _ = serve.Process.Kill() })

	waitForServer(t, "http://"+addr+"/api/v1/health")

	// One slot: the second participant is turned away
	dialParticipant(t, "http://"+addr, "alice").waitDialog("Register")

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	raw, err := json.Marshal(gateway.HelloData{Name: "bob"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(gateway.Frame{Type: gateway.FrameHello, Data: raw}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var frame gateway.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, gateway.FrameError, frame.Type)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)
	var health healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &health))
	assert.Equal(t, 1, health.Participants)

	// SIGINT shuts down cleanly
	require.NoError(t, serve.Process.Signal(os.Interrupt))
	waitErr := make(chan error, 1)
	go func() { waitErr <- serve.Wait() }()
	select {
	case err := <-waitErr:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = cli.run("health")
	assert.Error(t, err, "port "+strconv.Quote(port)+" should be closed")
}

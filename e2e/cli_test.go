package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BAYRYO/monopoly-rgpd/internal/api"
	"github.com/BAYRYO/monopoly-rgpd/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "monopoly-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/monopoly")
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

// start launches a long-running CLI command without waiting for it
func (r *cliRunner) start(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()

	fullArgs := append([]string{"--server", r.serverURL}, args...)
	cmd := exec.Command(r.binaryPath, fullArgs...)
	require.NoError(t, cmd.Start())
	return cmd
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

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	require.NoError(t, app.Bootstrap(context.Background()))

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Registry:  app.Registry,
		WSHandler: app.WSHandler,
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
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
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

// Response types for JSON parsing
type roomResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players []struct {
		ID     string `json:"id"`
		Pseudo string `json:"pseudo"`
		Money  int    `json:"money"`
	} `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	GameState  string `json:"gameState"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type eventLine struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
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
}

func TestCLI_ListRooms(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("rooms")
	require.NoError(t, err, "output: %s", output)

	var rooms []roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "default-room", rooms[0].ID)
	assert.Equal(t, "Salon Public", rooms[0].Name)
	assert.Equal(t, "waiting", rooms[0].GameState)
	assert.Empty(t, rooms[0].Players)
}

func TestCLI_WatchReceivesInitialRoomsList(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("watch", "--json", "--count", "1")
	require.NoError(t, err, "output: %s", output)

	var evt eventLine
	require.NoError(t, json.Unmarshal([]byte(output), &evt))
	assert.Equal(t, "rooms_list", evt.Event)

	var rooms []roomResponse
	require.NoError(t, json.Unmarshal(evt.Payload, &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "default-room", rooms[0].ID)
}

func TestCLI_WatchJoinsRoomAsPlayer(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// A watcher joining a room occupies a seat until it disconnects
	watcher := cli.start(t, "watch", "--room", "default-room", "--pseudo", "Bob", "--json")
	defer func() {
		_ = watcher.Process.Kill()
		_ = watcher.Wait()
	}()

	requireRoomOccupancy(t, cli, 1)

	output, err := cli.run("rooms")
	require.NoError(t, err, "output: %s", output)
	var rooms []roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rooms))
	require.Len(t, rooms[0].Players, 1)
	assert.Equal(t, "Bob", rooms[0].Players[0].Pseudo)
	assert.Equal(t, 1500, rooms[0].Players[0].Money)

	// Killing the watcher frees the seat
	require.NoError(t, watcher.Process.Kill())
	_ = watcher.Wait()

	requireRoomOccupancy(t, cli, 0)
}

// requireRoomOccupancy polls the room list until the default room holds the
// expected number of players
func requireRoomOccupancy(t *testing.T, cli *cliRunner, expected int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		output, err := cli.run("rooms")
		if err == nil {
			var rooms []roomResponse
			if json.Unmarshal([]byte(output), &rooms) == nil && len(rooms) == 1 && len(rooms[0].Players) == expected {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("default room never reached %d players", expected)
}

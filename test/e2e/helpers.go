//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/cloo-solutions/simsearch/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	Pool       *pgxpool.Pool
	BinaryDir  string
	ServerURL  string
	server     *exec.Cmd
	HTTPClient *http.Client
}

// SetupE2EEnv starts Postgres, migrates and seeds it through the simsd
// binary and starts simsd serve against it.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	env := &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  testutil.NewPostgresContainer(ctx, t),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	env.BuildBinaries()

	if out, err := env.RunSimsd("migrate"); err != nil {
		t.Fatalf("simsd migrate failed: %v\n%s", err, out)
	}

	pool, err := pgxpool.New(ctx, env.PostgresC.ConnectionString())
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	env.Pool = pool
	testutil.SeedPostgres(ctx, t, pool)

	env.startServer()
	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.server != nil && e.server.Process != nil {
		_ = e.server.Process.Signal(os.Interrupt)
		_ = e.server.Wait()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the simsd binary
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "simsd-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "simsd"), "./cmd/simsd")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build simsd: %v\n%s", err, out)
	}
}

func (e *E2ETestEnv) simsdCmd(extraEnv []string, args ...string) *exec.Cmd {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "simsd"), args...)
	cmd.Dir = e.BinaryDir
	cmd.Env = append(os.Environ(),
		"SIMS_DATABASE_DRIVER=postgres",
		"SIMS_DATABASE_URL="+e.PostgresC.ConnectionString(),
	)
	cmd.Env = append(cmd.Env, extraEnv...)
	return cmd
}

// RunSimsd runs a one-shot simsd command
func (e *E2ETestEnv) RunSimsd(args ...string) (string, error) {
	out, err := e.simsdCmd(nil, args...).CombinedOutput()
	return string(out), err
}

func (e *E2ETestEnv) startServer() {
	port, err := getFreePort()
	if err != nil {
		e.T.Fatalf("failed to get free port: %v", err)
	}

	cmd := e.simsdCmd([]string{"SIMS_BASE_URL=https://sims.test"}, "serve", "--port", strconv.Itoa(port), "--no-migrate")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		e.T.Fatalf("failed to start simsd serve: %v", err)
	}
	e.server = cmd

	e.ServerURL = fmt.Sprintf("http://localhost:%d", port)
	waitForServer(e.T, e.ServerURL, 15*time.Second)
}

// APIResponse represents a standard API response
type APIResponse struct {
	Status int
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error,omitempty"`
}

// Get performs a GET request as principalID; zero sends no principal header.
func (e *E2ETestEnv) Get(path string, principalID int64) (*APIResponse, error) {
	req, err := http.NewRequest(http.MethodGet, e.ServerURL+path, nil)
	if err != nil {
		return nil, err
	}
	if principalID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(principalID, 10))
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	apiResp := &APIResponse{Status: resp.StatusCode}
	if err := json.Unmarshal(body, apiResp); err != nil {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return apiResp, nil
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

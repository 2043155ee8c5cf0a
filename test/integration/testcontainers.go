package integration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/config"
	"github.com/doodlesbykumbi/feedbox/pkg/db"
	"github.com/doodlesbykumbi/feedbox/pkg/secretbox"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/server/endpoints"
	"github.com/doodlesbykumbi/feedbox/pkg/token"
)

const tokenSecret = "integration-token-secret-0123456789"

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	HTTPClient    *http.Client
	serverProcess *exec.Cmd
	inline        *httptest.Server
	cancel        context.CancelFunc
}

// NewTestContext starts PostgreSQL in a container, migrates it and starts a
// server against it.
// Modes:
//   - Inline mode (default): the server runs in-process
//   - Binary mode: set FEEDBOX_BINARY to the path of a feedboxctl binary
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	binaryPath := os.Getenv("FEEDBOX_BINARY")
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("FEEDBOX_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("feedbox_test"),
		tcpostgres.WithUsername("feedbox"),
		tcpostgres.WithPassword("feedbox"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dataKey, err := secretbox.GenerateKey()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		Container:   pgContainer,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if binaryPath != "" {
		tc.ServerURL = "http://127.0.0.1:18080"
		err = tc.startBinary(binaryPath, dataKey, "18080")
	} else {
		err = tc.startInline(dataKey)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return tc, nil
}

// startInline serves the application handler from an httptest server.
func (tc *TestContext) startInline(dataKey string) error {
	audit.SetEnabled(false)

	cipher, err := secretbox.NewSymmetricFromBase64(dataKey)
	if err != nil {
		return err
	}
	cfg := config.Default()
	config.Set(cfg)
	tokens, err := token.NewIssuer([]byte(tokenSecret), cfg.TokenLifetime())
	if err != nil {
		return err
	}
	database, err := db.Connect(db.Config{URL: tc.DatabaseURL})
	if err != nil {
		return err
	}

	s := server.NewServer(cipher, tokens, database, "127.0.0.1", "0")
	endpoints.RegisterAll(s)
	tc.inline = httptest.NewServer(s.Handler())
	tc.ServerURL = tc.inline.URL
	return nil
}

// startBinary starts the feedboxctl server binary
func (tc *TestContext) startBinary(binaryPath, dataKey, port string) error {
	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since the test setup already migrated
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"FEEDBOX_DATA_KEY="+dataKey,
		"FEEDBOX_TOKEN_SECRET="+tokenSecret,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start binary: %w", err)
	}
	tc.serverProcess = cmd
	tc.cancel = cancel
	return nil
}

// waitForServer polls the health endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.inline != nil {
		tc.inline.Close()
	}
	if tc.cancel != nil {
		tc.cancel()
	}
	if tc.serverProcess != nil && tc.serverProcess.Process != nil {
		_ = tc.serverProcess.Process.Kill()
		_ = tc.serverProcess.Wait()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations applies the SQL migrations the way feedboxctl db migrate does.
func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

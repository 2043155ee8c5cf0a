package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/log"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the Feedbox server to be ready",
	Long: `Block until GET /health reports a reachable database.

The server counts as ready once the health endpoint answers 200. Any
other answer, or no answer at all, is retried once per interval until
the timeout expires.

Example:
  feedboxctl wait
  feedboxctl wait --host feedbox --port 3000 --timeout 1m`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		healthURL := "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/health"
		if err := waitUntilHealthy(ctx, healthURL, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Feedbox is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("host", "localhost", "Server host to check")
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().DurationP("timeout", "t", 90*time.Second, "Give up after this long")
	waitCmd.Flags().Duration("interval", time.Second, "Delay between attempts")
}

// checkHealth performs one health request and describes why it was not ready.
func checkHealth(ctx context.Context, client *http.Client, healthURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var body struct {
		Data struct {
			Database string `json:"database"`
		} `json:"data"`
	}
	if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Data.Database != "" {
		return fmt.Errorf("database %s", body.Data.Database)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

func waitUntilHealthy(ctx context.Context, healthURL string, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	attempts := 0
	for {
		attempts++
		err := checkHealth(ctx, client, healthURL)
		if err == nil {
			return nil
		}
		// A request cut short by the deadline says nothing about the server.
		if lastErr == nil || ctx.Err() == nil {
			lastErr = err
		}
		log.WithField("attempt", attempts).Debugf("not ready: %v", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up after %d attempts, last error: %w", attempts, lastErr)
		case <-ticker.C:
		}
	}
}

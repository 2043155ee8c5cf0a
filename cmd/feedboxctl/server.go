package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/config"
	"github.com/doodlesbykumbi/feedbox/pkg/db"
	"github.com/doodlesbykumbi/feedbox/pkg/log"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/server/endpoints"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Feedbox application server",
	Long: `Run the Feedbox application server.

The server requires the environment variables DATABASE_URL, FEEDBOX_DATA_KEY
and FEEDBOX_TOKEN_SECRET.

By default, database migrations are run on startup. Use --no-migrate to skip.
SQLite databases (sqlite:// URLs) get their schema from the models instead.

With --watch-config the configuration file is reloaded whenever it changes.
An invalid file is logged and the previous configuration stays in effect.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd); err != nil {
			log.Error(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload the configuration file when it changes")
}

func runServer(cmd *cobra.Command) error {
	// Validate required settings first (fail fast)
	cipher, err := dataKeyCipher()
	if err != nil {
		return err
	}
	if db.URL() == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	config.Set(cfg)

	tokens, err := tokenIssuer(cfg)
	if err != nil {
		return err
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate && !db.IsSQLite(db.URL()) {
		log.Info("Running database migrations...")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	debug, _ := cmd.Flags().GetBool("debug")
	database, err := connect(debug)
	if err != nil {
		return fmt.Errorf("unable to connect to DB: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
		go func() {
			err := config.Watch(ctx, func(_ *config.FeedboxConfig, err error) {
				if err != nil {
					log.WithError(err).Warn("configuration reload failed, keeping the previous one")
					return
				}
				log.Infof("Reloaded configuration from %s", config.FilePath())
			})
			if err != nil {
				log.WithError(err).Warn("configuration watch stopped")
			}
		}()
	}

	host, _ := cmd.Flags().GetString("bind-address")
	port, _ := cmd.Flags().GetString("port")
	s := server.NewServer(cipher, tokens, database, host, port)
	endpoints.RegisterAll(s)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Running server at http://%s:%s...", host, port)
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

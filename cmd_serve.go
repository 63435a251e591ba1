package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.0xdad.com/tblyler/medicate/api"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr: fmt.Sprintf(":%d", a.config.Port()),
				Handler: api.NewRouter(api.Options{
					Repositories: a.repos,
					Logger:       a.logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errs := make(chan error, 1)
			go func() {
				a.logger.Info().Str("addr", srv.Addr).Msg("starting server")
				errs <- srv.ListenAndServe()
			}()

			select {
			case err := <-errs:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}

				return nil

			case <-ctx.Done():
			}

			a.logger.Info().Msg("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}

			a.logger.Info().Msg("server stopped")

			return nil
		}),
	}
}

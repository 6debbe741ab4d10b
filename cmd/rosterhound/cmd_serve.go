package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rosterhound/internal/enrich"
	"rosterhound/internal/portal"
	"rosterhound/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			svc := portal.NewService(cfg, logger)
			var enricher *enrich.Enricher
			if cfg.Portal.StatusURL != "" {
				enricher = enrich.New(cfg.Portal.StatusURL, logger)
			}

			srv := &http.Server{
				Addr:         addr,
				Handler:      server.New(svc, enricher, logger).Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 3 * time.Minute, // extraction runs are long
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

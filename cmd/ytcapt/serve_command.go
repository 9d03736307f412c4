package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/yoonbae81/ytcapt/internal/httpapi"
	"github.com/yoonbae81/ytcapt/pkg/log"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the caption refinement web service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, store, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Expired entries are already treated as misses on read; the
			// scheduled sweep keeps the database itself from growing.
			sweeper := cron.New()
			if _, err := sweeper.AddFunc(cfg.Cache.SweepCron, func() {
				n, err := store.PurgeExpired(context.Background(), time.Now())
				if err != nil {
					log.Error("Cache sweep failed: %v", err)
					return
				}
				log.Info("Cache sweep removed %d expired entries", n)
			}); err != nil {
				return err
			}
			sweeper.Start()
			defer sweeper.Stop()

			server := httpapi.NewServer(svc, store)
			errCh := make(chan error, 1)
			go func() {
				log.Info("Listening on %s", cfg.HTTP.Addr)
				errCh <- server.ListenAndServe(cfg.HTTP.Addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				log.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}
}

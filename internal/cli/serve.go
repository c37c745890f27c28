package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nluthra2001/cpusched/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve simulations over an HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cfg.SchedConfig(); err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           server.New(cfg, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	cmd.Flags().StringVarP(&cfg.Algorithm, "algorithm", "a", cfg.Algorithm, "Default algorithm for new simulations")
	cmd.Flags().IntVarP(&cfg.Quantum, "quantum", "q", cfg.Quantum, "Default Round Robin quantum for new simulations")
	cmd.Flags().IntVar(&cfg.MaxTicks, "max-ticks", cfg.MaxTicks, "Tick limit for run requests (0 for no limit)")
	return cmd
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/amortize/internal/cache"
	"github.com/iwvelando/amortize/internal/server"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// serve: run the HTTP API until interrupted.
func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		serverConfigLocation string
		address              string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the amortization API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(serverConfigLocation)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			results, err := cache.New(cfg.Cache)
			if err != nil {
				logger.Error("failed to configure cache",
					zap.String("op", "commands.serve"),
					zap.Error(err),
				)
				return err
			}

			httpServer := &http.Server{
				Addr: cfg.Address,
				Handler: server.NewHandler(logger, server.Options{
					MaxUploadSize: int64(cfg.MaxUploadSize),
					MaxPeriods:    cfg.MaxPeriods,
					Version:       Version,
					Cache:         results,
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = serve(ctx, logger, httpServer)
			if closer, ok := results.(io.Closer); ok {
				err = multierr.Append(err, closer.Close())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}

// serve runs httpServer until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, logger *zap.Logger, httpServer *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api server starting",
			zap.String("op", "commands.serve"),
			zap.String("address", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("api server stopped",
			zap.String("op", "commands.serve"),
		)
		return nil
	})

	return g.Wait()
}

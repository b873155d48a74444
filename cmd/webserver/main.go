package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Garsondee/carrot-field/internal/cli"
	"github.com/Garsondee/carrot-field/internal/logging"
	"github.com/Garsondee/carrot-field/internal/web"
)

func newRootCmd() *cobra.Command {
	var (
		common cli.Common
		addr   string
	)
	cmd := &cobra.Command{
		Use:          "webserver",
		Short:        "Serve carrot field to browsers over WebSocket",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &common, addr)
		},
	}
	common.Bind(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides web.addr)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, common *cli.Common, addr string) error {
	cfg, done, err := common.Load(cmd)
	if err != nil || done {
		return err
	}
	if addr != "" {
		cfg.Web.Addr = addr
	}
	logger, err := logging.New(cfg.Log, common.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	handler := web.NewServer(cfg, logger)
	srv := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown does not wait for WebSocket connections; end their games.
	srv.RegisterOnShutdown(handler.CloseConnections)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Web.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

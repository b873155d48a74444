package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Garsondee/carrot-field/internal/cli"
	"github.com/Garsondee/carrot-field/internal/logging"
	"github.com/Garsondee/carrot-field/internal/sound"
	"github.com/Garsondee/carrot-field/internal/sound/beepsound"
	"github.com/Garsondee/carrot-field/internal/ui/term"
)

func newRootCmd() *cobra.Command {
	var common cli.Common
	cmd := &cobra.Command{
		Use:          "tui",
		Short:        "Play carrot field in the terminal (mouse required)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &common)
		},
	}
	common.Bind(cmd)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, common *cli.Common) error {
	cfg, done, err := common.Load(cmd)
	if err != nil || done {
		return err
	}
	// stderr belongs to the screen from here on.
	logger, err := logging.ForScreen(cfg.Log, common.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var backend sound.Backend = sound.Silent()
	if cfg.Sound.Enabled {
		b, err := beepsound.New(cfg.Sound.SampleRate, cfg.Sound.Dir)
		if err != nil {
			logger.Warn("audio unavailable, playing silently", zap.Error(err))
		} else {
			backend = b
		}
	}
	bank, err := sound.NewBank(backend, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bank.Close() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}

	seed := cfg.Field.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ui, err := term.New(screen, term.Options{
		Game:     cfg.Game,
		Attempts: cfg.Field.PlacementAttempts,
		Rand:     rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		Sounds:   bank,
		Logger:   logger,
	})
	if err != nil {
		screen.Fini()
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := ui.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Session().Summary())
	return nil
}

package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Garsondee/carrot-field/internal/cli"
	"github.com/Garsondee/carrot-field/internal/layout"
	"github.com/Garsondee/carrot-field/internal/logging"
	"github.com/Garsondee/carrot-field/internal/session"
	"github.com/Garsondee/carrot-field/internal/sound"
	"github.com/Garsondee/carrot-field/internal/sound/ebitensound"
	"github.com/Garsondee/carrot-field/internal/ui/window"
)

func newRootCmd() *cobra.Command {
	var common cli.Common
	cmd := &cobra.Command{
		Use:          "game",
		Short:        "Pick every carrot before the timer runs out, and leave the bugs alone",
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
	logger, err := logging.New(cfg.Log, common.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	backend := sound.Silent()
	if cfg.Sound.Enabled {
		backend = ebitensound.New(cfg.Sound.SampleRate, cfg.Sound.Dir)
	}
	bank, err := sound.NewBank(backend, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bank.Close() }()

	seed := cfg.Field.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fc := cfg.Field
	sess, err := session.New(session.Options{
		Game:     cfg.Game,
		Bounds:   layout.Rect{W: fc.Width, H: fc.Height},
		ItemSize: layout.Size{W: fc.ItemWidth, H: fc.ItemHeight},
		Attempts: fc.PlacementAttempts,
		Rand:     rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		Sounds:   bank,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	g := window.New(sess, fc.Width, fc.Height, logger)
	w, h := g.Size()
	ebiten.SetWindowTitle("Carrot Field")
	ebiten.SetWindowSize(w, h)
	logger.Info("window starting", zap.Int64("seed", seed), zap.Int("width", w), zap.Int("height", h))
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	logger.Info("session finished", zap.String("summary", sess.Summary()))
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Garsondee/carrot-field/internal/cli"
	"github.com/Garsondee/carrot-field/internal/config"
	"github.com/Garsondee/carrot-field/internal/field"
	"github.com/Garsondee/carrot-field/internal/game"
	"github.com/Garsondee/carrot-field/internal/layout"
	"github.com/Garsondee/carrot-field/internal/logging"
	"github.com/Garsondee/carrot-field/internal/session"
	"github.com/Garsondee/carrot-field/internal/sound"
)

// step is how often the simulated player gets a chance to click.
const step = 100 * time.Millisecond

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type botOptions struct {
	clickRate float64 // chance of a click per step
	misclick  float64 // chance a click lands on a bug instead of a carrot
}

type runStats struct {
	runIndex int
	seed     int64

	reason    game.Reason
	cause     string // "picked", "bug", "timeout"
	score     int
	carrots   int
	remaining int
	elapsed   time.Duration
	clicks    int
	overlaps  int
	cues      map[string]int // plays per cue
}

type reportOptions struct {
	common   cli.Common
	runs     int
	seedBase int64
	seedStep int64
	bot      botOptions
}

func newRootCmd() *cobra.Command {
	var o reportOptions
	cmd := &cobra.Command{
		Use:   "headless-report",
		Short: "Play seeded games with a simulated player and print outcome statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, &o)
		},
		SilenceUsage: true,
	}
	o.common.Bind(cmd)
	cmd.Flags().IntVar(&o.runs, "runs", 5, "number of simulated games")
	cmd.Flags().Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	cmd.Flags().Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	cmd.Flags().Float64Var(&o.bot.clickRate, "click-rate", 0.6, "chance the player clicks in each 100ms step")
	cmd.Flags().Float64Var(&o.bot.misclick, "misclick", 0.02, "chance a click hits a bug")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, o *reportOptions) error {
	if o.runs <= 0 {
		return errors.New("--runs must be > 0")
	}
	if o.bot.clickRate < 0 || o.bot.clickRate > 1 || o.bot.misclick < 0 || o.bot.misclick > 1 {
		return errors.New("--click-rate and --misclick must be within [0, 1]")
	}
	cfg, done, err := o.common.Load(cmd)
	if err != nil || done {
		return err
	}
	logger, err := logging.New(cfg.Log, o.common.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "=== Headless Carrot Report ===\n")
	fmt.Fprintf(w, "runs=%d duration=%ds carrots=%d bugs=%d click_rate=%.2f misclick=%.2f seed_base=%d seed_step=%d\n\n",
		o.runs, cfg.Game.DurationSeconds, cfg.Game.Carrots, cfg.Game.Bugs, o.bot.clickRate, o.bot.misclick, o.seedBase, o.seedStep)

	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)*o.seedStep
		rs, err := simulate(i+1, seed, cfg, o.bot, logger)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		all = append(all, rs)
		printRun(w, rs)
	}
	printAggregate(w, all)
	return nil
}

// simulate plays one game on a virtual clock. The layout and the player
// draw from separate sources so the layout depends on the seed alone.
func simulate(runIndex int, seed int64, cfg config.Config, bot botOptions, logger *zap.Logger) (runStats, error) {
	events := sound.NewEventLog()
	bank, err := sound.NewBank(events, logger)
	if err != nil {
		return runStats{}, err
	}
	sess, err := session.New(session.Options{
		Game:     cfg.Game,
		Bounds:   layout.Rect{W: cfg.Field.Width, H: cfg.Field.Height},
		ItemSize: layout.Size{W: cfg.Field.ItemWidth, H: cfg.Field.ItemHeight},
		Attempts: cfg.Field.PlacementAttempts,
		Rand:     rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation
		Sounds:   bank,
		Logger:   logger.With(zap.Int("run", runIndex)),
		Now:      epoch,
	})
	if err != nil {
		return runStats{}, err
	}
	player := rand.New(rand.NewSource(seed ^ 0x5eed)) // #nosec G404 -- simulation

	rs := runStats{runIndex: runIndex, seed: seed, carrots: cfg.Game.Carrots, cues: map[string]int{}}
	g := sess.Game()
	sess.PressButton()
	rs.overlaps = g.Field().Overlaps()

	now := epoch
	// The countdown needs duration+1 ticks; leave headroom.
	limit := (cfg.Game.DurationSeconds + 2) * int(time.Second/step)
	for i := 0; i < limit && !sess.Popup().Visible(); i++ {
		now = now.Add(step)
		sess.Advance(now)
		if sess.Popup().Visible() || player.Float64() >= bot.clickRate {
			continue
		}
		kind := field.Carrot
		if player.Float64() < bot.misclick {
			kind = field.Bug
		}
		if p, ok := pickTarget(g.Field(), kind, player); ok {
			rs.clicks++
			sess.Click(p)
		}
	}
	if !sess.Popup().Visible() {
		return rs, errors.New("game did not finish")
	}

	rs.score = g.Score()
	rs.remaining = g.Remaining()
	rs.elapsed = g.Elapsed()
	for _, e := range events.Events() {
		if e.Action == sound.ActionPlay {
			rs.cues[e.Cue.String()]++
		}
	}
	st := sess.Stats()
	switch {
	case st.Wins == 1:
		rs.reason, rs.cause = game.ReasonWin, "picked"
	case rs.cues[sound.CueBug.String()] > 0:
		rs.reason, rs.cause = game.ReasonLose, "bug"
	default:
		rs.reason, rs.cause = game.ReasonLose, "timeout"
	}
	return rs, nil
}

// pickTarget returns the centre of a random item of kind, if any remain.
func pickTarget(f *field.Field, kind field.Kind, rng *rand.Rand) (layout.Point, bool) {
	var candidates []field.Item
	for _, it := range f.Items() {
		if it.Kind == kind {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return layout.Point{}, false
	}
	r := f.ItemRect(candidates[rng.Intn(len(candidates))])
	return layout.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}, true
}

// detectCloseCall flags wins with at most one second left and losses one
// carrot short of a win.
func detectCloseCall(rs runStats) (bool, string) {
	switch {
	case rs.reason == game.ReasonWin && rs.remaining <= 1:
		return true, fmt.Sprintf("won_with_%ds_left", rs.remaining)
	case rs.reason == game.ReasonLose && rs.carrots-rs.score == 1:
		return true, "lost_one_carrot_short"
	default:
		return false, "none"
	}
}

func printRun(w io.Writer, rs runStats) {
	closeCall, why := detectCloseCall(rs)
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "outcome=%s cause=%s score=%d/%d elapsed=%s remaining=%ds\n",
		rs.reason, rs.cause, rs.score, rs.carrots, rs.elapsed, rs.remaining)
	fmt.Fprintf(w, "clicks=%d overlaps=%d close_call=%t (%s)\n", rs.clicks, rs.overlaps, closeCall, why)
	fmt.Fprintf(w, "cue_plays: %s\n\n", joinCounts(rs.cues))
}

func printAggregate(w io.Writer, all []runStats) {
	counts := map[string]int{}
	causes := map[string]int{}
	totalScore := 0
	var totalElapsed, fastest time.Duration
	closeCalls := 0
	for _, rs := range all {
		counts[rs.reason.String()]++
		causes[rs.cause]++
		totalScore += rs.score
		totalElapsed += rs.elapsed
		if rs.reason == game.ReasonWin && (fastest == 0 || rs.elapsed < fastest) {
			fastest = rs.elapsed
		}
		if ok, _ := detectCloseCall(rs); ok {
			closeCalls++
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d win=%d lose=%d cancel=%d\n",
		len(all), counts[game.ReasonWin.String()], counts[game.ReasonLose.String()], counts[game.ReasonCancel.String()])
	fmt.Fprintf(w, "causes: %s\n", joinCounts(causes))
	fmt.Fprintf(w, "mean_score=%.2f mean_duration=%s fastest_win=%s close_calls=%d\n",
		avg(totalScore, len(all)), meanDuration(totalElapsed, len(all)), durationString(fastest), closeCalls)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func meanDuration(total time.Duration, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return (total / time.Duration(n)).Round(time.Millisecond)
}

func durationString(d time.Duration) string {
	if d == 0 {
		return "n/a"
	}
	return d.String()
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Garsondee/carrot-field/internal/clock"
	"github.com/Garsondee/carrot-field/internal/field"
	"github.com/Garsondee/carrot-field/internal/layout"
	"github.com/Garsondee/carrot-field/internal/sound"
)

// ErrInvalidConfig is returned by NewController for out-of-range settings.
var ErrInvalidConfig = errors.New("game: invalid config")

// tickInterval is the countdown resolution.
const tickInterval = time.Second

// Reason classifies why a game cycle ended.
type Reason int

const (
	ReasonCancel Reason = iota
	ReasonWin
	ReasonLose
)

func (r Reason) String() string {
	switch r {
	case ReasonCancel:
		return "cancel"
	case ReasonWin:
		return "win"
	case ReasonLose:
		return "lose"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Icon is the glyph on the start/stop button.
type Icon int

const (
	IconPlay Icon = iota
	IconStop
)

func (i Icon) String() string {
	if i == IconStop {
		return "stop"
	}
	return "play"
}

// HUD is the state of the control bar above the field.
type HUD struct {
	ButtonVisible bool
	ButtonIcon    Icon
	TimerVisible  bool
	TimerText     string
	ScoreVisible  bool
	ScoreText     string // carrots left
}

// Config holds the rules of one game and the field geometry.
type Config struct {
	Duration   int // seconds
	Carrots    int
	Bugs       int
	PadSeconds bool // render 0:05 instead of 0:5

	Bounds   layout.Rect
	ItemSize layout.Size
	Placer   *layout.Placer
}

func (c Config) validate() error {
	switch {
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration %d must be > 0", ErrInvalidConfig, c.Duration)
	case c.Carrots <= 0:
		return fmt.Errorf("%w: carrots %d must be > 0", ErrInvalidConfig, c.Carrots)
	case c.Bugs < 0:
		return fmt.Errorf("%w: bugs %d must be >= 0", ErrInvalidConfig, c.Bugs)
	case c.Placer == nil:
		return fmt.Errorf("%w: placer is required", ErrInvalidConfig)
	}
	return nil
}

// Controller runs the game: it owns the field, the score and the countdown,
// and reports the end of every cycle to the stop listener. All methods must
// be called from the goroutine that advances the scheduler.
type Controller struct {
	cfg    Config
	field  *field.Field
	sounds sound.Player
	clock  *clock.Scheduler
	logger *zap.Logger

	started   bool
	score     int
	remaining int
	timer     *clock.Timer
	startedAt time.Time
	endedAt   time.Time
	hud       HUD

	onStop func(Reason)
}

// NewController builds an idle controller. The toggle button starts visible
// with the play icon; timer and score stay hidden until the first start.
func NewController(cfg Config, sounds sound.Player, sched *clock.Scheduler, logger *zap.Logger) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		cfg:    cfg,
		field:  field.New(cfg.Bounds, cfg.ItemSize, cfg.Carrots, cfg.Bugs, cfg.Placer),
		sounds: sounds,
		clock:  sched,
		logger: logger,
		hud: HUD{
			ButtonVisible: true,
			ButtonIcon:    IconPlay,
		},
	}
	c.field.SetClickListener(c.onItemClick)
	return c, nil
}

// SetGameStopListener registers the callback told about every finished cycle.
func (c *Controller) SetGameStopListener(fn func(Reason)) {
	c.onStop = fn
}

// Start begins a new game. Ignored while a game is running.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true
	c.score = 0
	c.hud.ScoreText = fmt.Sprint(c.cfg.Carrots)
	c.field.Init()
	if n := c.field.Overlaps(); n > 0 {
		c.logger.Warn("field too crowded, items overlap", zap.Int("overlapping", n))
	}
	c.hud.ButtonIcon = IconStop
	c.hud.ButtonVisible = true
	c.hud.TimerVisible = true
	c.hud.ScoreVisible = true
	c.startTimer()
	c.sounds.Play(sound.CueBackground)
	c.logger.Debug("game started",
		zap.Int("duration", c.cfg.Duration),
		zap.Int("carrots", c.cfg.Carrots),
		zap.Int("bugs", c.cfg.Bugs))
}

// Stop cancels the running game. Ignored while idle.
func (c *Controller) Stop() {
	if !c.started {
		return
	}
	c.started = false
	c.endedAt = c.clock.Now()
	c.stopTimer()
	c.hud.ButtonVisible = false
	c.sounds.Play(sound.CueAlert)
	c.sounds.Stop(sound.CueBackground)
	c.notify(ReasonCancel)
}

// Finish ends the running game as a win or a loss. Ignored while idle.
func (c *Controller) Finish(win bool) {
	if win {
		c.finish(ReasonWin, sound.CueWin)
		return
	}
	c.finish(ReasonLose, sound.CueLose)
}

func (c *Controller) finish(reason Reason, cue sound.Cue) {
	if !c.started {
		return
	}
	c.started = false
	c.endedAt = c.clock.Now()
	c.stopTimer()
	c.hud.ButtonVisible = false
	c.sounds.Play(cue)
	c.sounds.Stop(sound.CueBackground)
	c.notify(reason)
}

func (c *Controller) notify(reason Reason) {
	c.logger.Info("game over",
		zap.Stringer("reason", reason),
		zap.Int("score", c.score),
		zap.Int("remaining", c.remaining),
		zap.Duration("elapsed", c.Elapsed()))
	if c.onStop != nil {
		c.onStop(reason)
	}
}

// PressButton is the toggle button: stop when running, start when idle.
func (c *Controller) PressButton() {
	if c.started {
		c.Stop()
		return
	}
	c.Start()
}

// Resize moves the field to new bounds. A running game is cancelled since
// its items may no longer fit; the next start lays out the new area.
func (c *Controller) Resize(bounds layout.Rect) {
	if bounds == c.field.Bounds() {
		return
	}
	c.logger.Debug("field resized", zap.Int("width", bounds.W), zap.Int("height", bounds.H))
	c.Stop()
	c.field.SetBounds(bounds)
}

// Click forwards a raw field click. Clicks while idle never reach the field.
func (c *Controller) Click(p layout.Point) bool {
	if !c.started {
		return false
	}
	return c.field.Click(p)
}

func (c *Controller) onItemClick(kind field.Kind, id int) {
	if !c.started {
		return
	}
	switch kind {
	case field.Carrot:
		c.sounds.Play(sound.CueCarrot)
		c.score++
		c.hud.ScoreText = fmt.Sprint(c.cfg.Carrots - c.score)
		c.logger.Debug("carrot picked", zap.Int("id", id), zap.Int("score", c.score))
		if c.score == c.cfg.Carrots {
			c.Finish(true)
		}
	case field.Bug:
		c.logger.Debug("bug hit", zap.Int("id", id))
		c.finish(ReasonLose, sound.CueBug)
	}
}

func (c *Controller) startTimer() {
	c.remaining = c.cfg.Duration
	c.startedAt = c.clock.Now()
	c.updateTimerText()
	c.timer = c.clock.Every(tickInterval, c.onTick)
}

func (c *Controller) onTick() {
	if c.remaining <= 0 {
		c.stopTimer()
		c.Finish(c.score == c.cfg.Carrots)
		return
	}
	c.remaining--
	c.updateTimerText()
}

func (c *Controller) stopTimer() {
	c.timer.Stop()
	c.timer = nil
}

func (c *Controller) updateTimerText() {
	c.hud.TimerText = FormatTimer(c.remaining, c.cfg.PadSeconds)
}

// FormatTimer renders whole seconds as M:S, or M:SS when pad is set.
func FormatTimer(sec int, pad bool) string {
	if pad {
		return fmt.Sprintf("%d:%02d", sec/60, sec%60)
	}
	return fmt.Sprintf("%d:%d", sec/60, sec%60)
}

func (c *Controller) Started() bool { return c.started }

func (c *Controller) Score() int { return c.score }

// Remaining is the countdown value in seconds.
func (c *Controller) Remaining() int { return c.remaining }

func (c *Controller) HUD() HUD { return c.hud }

func (c *Controller) Field() *field.Field { return c.field }

func (c *Controller) Carrots() int { return c.cfg.Carrots }

// TimerActive reports whether a countdown tick is still scheduled.
func (c *Controller) TimerActive() bool { return c.timer.Active() }

// Elapsed is the length of the current game, or of the last one while idle.
func (c *Controller) Elapsed() time.Duration {
	switch {
	case c.startedAt.IsZero():
		return 0
	case c.started:
		return c.clock.Now().Sub(c.startedAt)
	default:
		return c.endedAt.Sub(c.startedAt)
	}
}

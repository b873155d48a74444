// Package session wires one game controller to its result popup, the way a
// frontend presents it: a finished game shows a banner, and dismissing the
// banner starts the next game.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Garsondee/carrot-field/internal/clock"
	"github.com/Garsondee/carrot-field/internal/config"
	"github.com/Garsondee/carrot-field/internal/game"
	"github.com/Garsondee/carrot-field/internal/layout"
	"github.com/Garsondee/carrot-field/internal/popup"
	"github.com/Garsondee/carrot-field/internal/sound"
)

// ErrInvalidReason is raised when the controller reports a reason the
// session has no message for. That can only be a programming error.
var ErrInvalidReason = errors.New("not valid reason")

// Banner texts for each reason.
const (
	MessageCancel = "REPLAY❓"
	MessageWin    = "YOU WON 🎉"
	MessageLose   = "YOU LOST 💩"
)

// Message returns the banner text for r.
func Message(r game.Reason) (string, error) {
	switch r {
	case game.ReasonCancel:
		return MessageCancel, nil
	case game.ReasonWin:
		return MessageWin, nil
	case game.ReasonLose:
		return MessageLose, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidReason, r)
	}
}

// Options configures a session. Bounds and ItemSize are in the frontend's
// units (pixels or terminal cells).
type Options struct {
	Game     config.GameConfig
	Bounds   layout.Rect
	ItemSize layout.Size
	Attempts int
	Rand     *rand.Rand
	Sounds   sound.Player
	Logger   *zap.Logger
	Now      time.Time
}

// Stats counts finished games.
type Stats struct {
	Games   int
	Wins    int
	Losses  int
	Cancels int
	Carrots int // carrots picked over all games
	// BestWin is the shortest winning game, zero until the first win.
	BestWin time.Duration
}

// Session owns a scheduler, a controller and the popup for one player.
// Like the controller it is driven from a single goroutine.
type Session struct {
	clock  *clock.Scheduler
	game   *game.Controller
	popup  *popup.Popup
	stats  Stats
	logger *zap.Logger
}

// New builds an idle session.
func New(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	if opts.Sounds == nil {
		bank, err := sound.NewBank(sound.Silent(), opts.Logger)
		if err != nil {
			return nil, err
		}
		opts.Sounds = bank
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	s := &Session{
		clock:  clock.NewScheduler(opts.Now),
		popup:  popup.New(),
		logger: opts.Logger,
	}
	g, err := game.NewController(game.Config{
		Duration:   opts.Game.DurationSeconds,
		Carrots:    opts.Game.Carrots,
		Bugs:       opts.Game.Bugs,
		PadSeconds: opts.Game.PadSeconds,
		Bounds:     opts.Bounds,
		ItemSize:   opts.ItemSize,
		Placer:     layout.NewPlacer(opts.Rand, opts.Attempts),
	}, opts.Sounds, s.clock, opts.Logger)
	if err != nil {
		return nil, err
	}
	s.game = g
	g.SetGameStopListener(s.onGameStop)
	s.popup.SetClickListener(g.Start)
	return s, nil
}

func (s *Session) onGameStop(r game.Reason) {
	msg, err := Message(r)
	if err != nil {
		panic(err)
	}
	s.record(r)
	s.popup.ShowWithText(msg)
}

func (s *Session) record(r game.Reason) {
	s.stats.Games++
	s.stats.Carrots += s.game.Score()
	switch r {
	case game.ReasonWin:
		s.stats.Wins++
		if d := s.game.Elapsed(); s.stats.BestWin == 0 || d < s.stats.BestWin {
			s.stats.BestWin = d
		}
	case game.ReasonLose:
		s.stats.Losses++
	case game.ReasonCancel:
		s.stats.Cancels++
	}
}

// Advance runs the countdown up to now.
func (s *Session) Advance(now time.Time) {
	s.clock.Advance(now)
}

// Click delivers a field click. The popup covers the field while visible.
func (s *Session) Click(p layout.Point) bool {
	if s.popup.Visible() {
		return false
	}
	return s.game.Click(p)
}

// PressButton is the start/stop toggle in the control bar. Hidden buttons
// cannot be pressed.
func (s *Session) PressButton() {
	if !s.game.HUD().ButtonVisible {
		return
	}
	s.game.PressButton()
}

// Resize moves the field to bounds, cancelling a running game.
func (s *Session) Resize(bounds layout.Rect) {
	s.game.Resize(bounds)
}

// DismissPopup presses the popup's replay button.
func (s *Session) DismissPopup() {
	s.popup.Click()
}

func (s *Session) Game() *game.Controller { return s.game }

func (s *Session) Popup() *popup.Popup { return s.popup }

func (s *Session) Clock() *clock.Scheduler { return s.clock }

func (s *Session) Stats() Stats { return s.stats }

// Summary is a one-line report of the session so far.
func (s *Session) Summary() string {
	st := s.stats
	best := "-"
	if st.BestWin > 0 {
		best = st.BestWin.Round(time.Second).String()
	}
	return fmt.Sprintf("games=%d wins=%d losses=%d cancels=%d carrots=%d best_win=%s",
		st.Games, st.Wins, st.Losses, st.Cancels, st.Carrots, best)
}

// Package term is the terminal frontend. Items are emoji cells on a tcell
// screen; the mouse picks them and the keyboard drives the bar and popup.
package term

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/carrot-field/internal/config"
	"github.com/Garsondee/carrot-field/internal/field"
	"github.com/Garsondee/carrot-field/internal/game"
	"github.com/Garsondee/carrot-field/internal/layout"
	"github.com/Garsondee/carrot-field/internal/session"
	"github.com/Garsondee/carrot-field/internal/sound"
)

const frameInterval = time.Second / 30

var (
	styleBar    = tcell.StyleDefault.Foreground(tcell.ColorWheat)
	styleButton = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBurlyWood).Bold(true)
	styleField  = tcell.StyleDefault.Background(tcell.ColorDarkOliveGreen)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorOliveDrab)
	stylePopup  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Options configures the terminal frontend.
type Options struct {
	Game     config.GameConfig
	Attempts int
	Rand     *rand.Rand
	Sounds   sound.Player
	Logger   *zap.Logger
	Now      func() time.Time
}

// UI owns a tcell screen and the session played on it.
type UI struct {
	screen tcell.Screen
	geom   Geometry
	sess   *session.Session
	logger *zap.Logger
	now    func() time.Time

	prevButtons tcell.ButtonMask
	tooSmall    bool // the terminal shrank below the minimum; input is paused
}

// New sizes the field to the initialised screen and builds the session.
func New(screen tcell.Screen, opts Options) (*UI, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	w, h := screen.Size()
	geom, err := NewGeometry(w, h)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(session.Options{
		Game:     opts.Game,
		Bounds:   layout.Rect{W: geom.Field.W, H: geom.Field.H},
		ItemSize: ItemSize,
		Attempts: opts.Attempts,
		Rand:     opts.Rand,
		Sounds:   opts.Sounds,
		Logger:   opts.Logger,
		Now:      opts.Now(),
	})
	if err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()
	return &UI{screen: screen, geom: geom, sess: sess, logger: opts.Logger, now: opts.Now}, nil
}

// Session exposes the game state, mainly for tests.
func (u *UI) Session() *session.Session { return u.sess }

// Run is the event loop. It returns when the player quits or ctx ends,
// and finalizes the screen before returning.
func (u *UI) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 32)
	done := make(chan struct{})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// PollEvent returns nil once the screen is finalized.
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-done:
				return nil
			}
		}
	})
	g.Go(func() error {
		defer u.screen.Fini()
		defer close(done)
		return u.loop(ctx, events)
	})
	return g.Wait()
}

func (u *UI) loop(ctx context.Context, events <-chan tcell.Event) error {
	tick := time.NewTicker(frameInterval)
	defer tick.Stop()

	u.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if u.HandleEvent(ev) {
				u.logger.Debug("quit requested", zap.String("summary", u.sess.Summary()))
				return nil
			}
		case <-tick.C:
			u.sess.Advance(u.now())
		}
		u.Draw()
	}
}

// HandleEvent dispatches one tcell event and reports whether to quit.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	// Ticks due before the input run first.
	u.sess.Advance(u.now())
	switch e := ev.(type) {
	case *tcell.EventResize:
		u.resize()
	case *tcell.EventKey:
		return u.handleKey(e)
	case *tcell.EventMouse:
		if !u.tooSmall {
			u.handleMouse(e)
		}
	}
	return false
}

// resize lays the screen out again. A running game is cancelled when the
// field changes size, and everything waits while the terminal is too small.
func (u *UI) resize() {
	u.screen.Sync()
	w, h := u.screen.Size()
	geom, err := NewGeometry(w, h)
	if err != nil {
		u.logger.Warn("terminal resized below minimum", zap.Error(err))
		u.tooSmall = true
		u.sess.Game().Stop()
		return
	}
	u.tooSmall = false
	u.geom = geom
	u.sess.Resize(layout.Rect{W: geom.Field.W, H: geom.Field.H})
}

func (u *UI) handleKey(e *tcell.EventKey) bool {
	if isQuit(e) {
		return true
	}
	if u.tooSmall {
		return false
	}
	switch {
	case e.Key() == tcell.KeyEnter:
		u.sess.DismissPopup()
	case e.Key() == tcell.KeyRune && e.Rune() == ' ':
		u.sess.PressButton()
	}
	return false
}

func isQuit(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return e.Rune() == 'q' || e.Rune() == 'Q'
	}
	return false
}

func (u *UI) handleMouse(e *tcell.EventMouse) {
	buttons := e.Buttons()
	pressed := buttons&tcell.Button1 != 0 && u.prevButtons&tcell.Button1 == 0
	u.prevButtons = buttons
	if !pressed {
		return
	}
	x, y := e.Position()
	p := layout.Point{X: x, Y: y}
	if u.sess.Popup().Visible() {
		if u.geom.Replay.Contains(p) {
			u.sess.DismissPopup()
		}
		return
	}
	if u.geom.Button.Contains(p) {
		u.sess.PressButton()
		return
	}
	if fp, ok := u.geom.ToField(x, y); ok {
		u.sess.Click(fp)
	}
}

// Draw renders the whole screen.
func (u *UI) Draw() {
	s := u.screen
	s.Clear()
	if u.tooSmall {
		w, h := s.Size()
		drawText(s, 0, 0, "terminal too small", styleStatus)
		drawText(s, 0, 1, fmt.Sprintf("need %dx%d, have %dx%d", minWidth, minHeight, w, h), styleStatus)
		s.Show()
		return
	}
	g := u.geom
	drawText(s, 1, 0, "SPACE start/stop  ENTER replay  Q quit", styleStatus)

	hud := u.sess.Game().HUD()
	if hud.ButtonVisible {
		label := " ▶ "
		if hud.ButtonIcon == game.IconStop {
			label = " ■ "
		}
		fillRect(s, g.Button, styleButton)
		drawCentered(s, g.Button, label, styleButton)
	}
	if hud.TimerVisible {
		drawText(s, g.Timer.X, g.Timer.Y, "⏱ "+hud.TimerText, styleBar)
	}
	if hud.ScoreVisible {
		drawText(s, g.Score.X, g.Score.Y, "🥕 "+hud.ScoreText, styleBar)
	}

	drawBox(s, layout.Rect{X: g.Field.X - 1, Y: g.Field.Y - 1, W: g.Field.W + 2, H: g.Field.H + 2}, styleBorder)
	fillRect(s, g.Field, styleField)
	f := u.sess.Game().Field()
	for _, it := range f.Items() {
		r := f.ItemRect(it)
		glyph := '🥕'
		if it.Kind == field.Bug {
			glyph = '🐛'
		}
		s.SetContent(g.Field.X+r.X, g.Field.Y+r.Y, glyph, nil, styleField)
	}

	if p := u.sess.Popup(); p.Visible() {
		fillRect(s, g.Popup, stylePopup)
		drawCentered(s, layout.Rect{X: g.Popup.X, Y: g.Popup.Y + 1, W: g.Popup.W, H: 1}, p.Text(), stylePopup)
		fillRect(s, g.Replay, styleButton)
		drawCentered(s, g.Replay, " ↻ ", styleButton)
	}
	drawText(s, 1, g.Status, u.sess.Summary(), styleStatus)
	s.Show()
}

// drawText writes s from (x, y), advancing by each rune's cell width.
func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, st)
		x += max(runewidth.RuneWidth(ch), 1)
	}
}

func drawCentered(s tcell.Screen, r layout.Rect, text string, st tcell.Style) {
	w := runewidth.StringWidth(text)
	drawText(s, r.X+(r.W-w)/2, r.Y, text, st)
}

func fillRect(s tcell.Screen, r layout.Rect, st tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			s.SetContent(x, y, ' ', nil, st)
		}
	}
}

func drawBox(s tcell.Screen, r layout.Rect, st tcell.Style) {
	x1, y1 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < x1; x++ {
		s.SetContent(x, r.Y, tcell.RuneHLine, nil, st)
		s.SetContent(x, y1, tcell.RuneHLine, nil, st)
	}
	for y := r.Y + 1; y < y1; y++ {
		s.SetContent(r.X, y, tcell.RuneVLine, nil, st)
		s.SetContent(x1, y, tcell.RuneVLine, nil, st)
	}
	s.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, st)
	s.SetContent(x1, r.Y, tcell.RuneURCorner, nil, st)
	s.SetContent(r.X, y1, tcell.RuneLLCorner, nil, st)
	s.SetContent(x1, y1, tcell.RuneLRCorner, nil, st)
}

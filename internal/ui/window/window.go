// Package window is the desktop frontend: an ebiten game drawing the field,
// the control bar and the result popup, with mouse and keyboard input.
package window

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/carrot-field/internal/session"
)

// Game adapts a session to ebiten. Update is the session's event loop.
type Game struct {
	sess   *session.Session
	screen Screen
	face   text.Face
	logger *zap.Logger
	now    func() time.Time

	prevMouseLeft bool
	prevKeys      map[ebiten.Key]bool

	notice      string // transient status message, e.g. clipboard result
	noticeUntil time.Time
}

// New returns an ebiten game for sess. fieldW and fieldH must match the
// session's field bounds.
func New(sess *session.Session, fieldW, fieldH int, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		sess:     sess,
		screen:   NewScreen(fieldW, fieldH),
		face:     text.NewGoXFace(basicfont.Face7x13),
		logger:   logger,
		now:      time.Now,
		prevKeys: make(map[ebiten.Key]bool),
	}
}

// Size returns the window size in pixels.
func (g *Game) Size() (int, int) {
	return g.screen.Width, g.screen.Height
}

func (g *Game) Update() error {
	// Ticks due before this frame's input run first.
	g.sess.Advance(g.now())
	return g.handleInput()
}

func (g *Game) handleInput() error {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}
	defer func() { g.prevKeys = currentKeys }()

	if pressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if pressed(ebiten.KeySpace) {
		g.sess.PressButton()
	}
	if pressed(ebiten.KeyEnter) {
		g.sess.DismissPopup()
	}
	if pressed(ebiten.KeyC) {
		g.copySummary()
	}

	// Edge-triggered left click.
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && !g.prevMouseLeft {
		mx, my := ebiten.CursorPosition()
		g.handleClick(mx, my)
	}
	g.prevMouseLeft = left
	return nil
}

func (g *Game) handleClick(mx, my int) {
	if g.sess.Popup().Visible() {
		if g.screen.Replay.Contains(pt(mx, my)) {
			g.sess.DismissPopup()
		}
		return
	}
	if g.screen.Button.Contains(pt(mx, my)) {
		g.sess.PressButton()
		return
	}
	if p, ok := g.screen.ToField(mx, my); ok {
		g.sess.Click(p)
	}
}

func (g *Game) copySummary() {
	summary := g.sess.Summary()
	if err := clipboard.WriteAll(summary); err != nil {
		g.logger.Warn("clipboard write failed", zap.Error(err))
		g.setNotice("clipboard unavailable")
		return
	}
	g.setNotice("summary copied")
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeUntil = g.now().Add(2 * time.Second)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	g.drawBar(screen)
	g.drawField(screen)
	g.drawStatus(screen)
	if g.sess.Popup().Visible() {
		g.drawPopup(screen)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.screen.Width, g.screen.Height
}

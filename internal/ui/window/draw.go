package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/carrot-field/internal/field"
	"github.com/Garsondee/carrot-field/internal/game"
	"github.com/Garsondee/carrot-field/internal/layout"
)

var (
	colBackground = color.RGBA{R: 24, G: 30, B: 22, A: 255}
	colField      = color.RGBA{R: 96, G: 140, B: 70, A: 255}
	colFieldEdge  = color.RGBA{R: 60, G: 90, B: 44, A: 255}
	colButton     = color.RGBA{R: 234, G: 196, B: 120, A: 255}
	colButtonEdge = color.RGBA{R: 80, G: 50, B: 20, A: 255}
	colIcon       = color.RGBA{R: 60, G: 30, B: 10, A: 255}
	colCarrot     = color.RGBA{R: 240, G: 130, B: 30, A: 255}
	colLeaf       = color.RGBA{R: 40, G: 150, B: 50, A: 255}
	colBug        = color.RGBA{R: 70, G: 40, B: 90, A: 255}
	colBugSpot    = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	colPopup      = color.RGBA{R: 10, G: 12, B: 10, A: 230}
	colText       = color.RGBA{R: 250, G: 245, B: 230, A: 255}
)

const textScale = 2

func pt(x, y int) layout.Point { return layout.Point{X: x, Y: y} }

// drawText renders s centred on (cx, cy) at textScale.
func (g *Game) drawText(dst *ebiten.Image, s string, cx, cy float64, clr color.Color) {
	s = printable(s)
	w, h := text.Measure(s, g.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, g.face, op)
}

func (g *Game) drawBar(dst *ebiten.Image) {
	hud := g.sess.Game().HUD()
	b := g.screen.Button
	if hud.ButtonVisible {
		vector.FillRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), colButton, false)
		vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, colButtonEdge, false)
		drawIcon(dst, b, hud.ButtonIcon)
	}
	cx := float64(b.X + b.W/2)
	if hud.TimerVisible {
		tw := float32(110)
		vector.FillRect(dst, float32(cx)-tw/2, float32(b.Y+b.H+8), tw, 26, colPopup, false)
		g.drawText(dst, hud.TimerText, cx, float64(b.Y+b.H+21), colText)
	}
	if hud.ScoreVisible {
		sy := float32(b.Y + b.H/2)
		sx := float32(b.X + b.W + 60)
		vector.FillCircle(dst, sx, sy, 24, colCarrot, true)
		g.drawText(dst, hud.ScoreText, float64(sx), float64(sy), colText)
	}
}

func drawIcon(dst *ebiten.Image, b layout.Rect, icon game.Icon) {
	x, y := float32(b.X), float32(b.Y)
	w, h := float32(b.W), float32(b.H)
	if icon == game.IconStop {
		vector.FillRect(dst, x+w*0.3, y+h*0.3, w*0.4, h*0.4, colIcon, false)
		return
	}
	var path vector.Path
	path.MoveTo(x+w*0.35, y+h*0.25)
	path.LineTo(x+w*0.75, y+h*0.5)
	path.LineTo(x+w*0.35, y+h*0.75)
	path.Close()
	fillPath(dst, &path, colIcon)
}

func fillPath(dst *ebiten.Image, path *vector.Path, clr color.Color) {
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(clr)
	vector.FillPath(dst, path, &vector.FillOptions{}, op)
}

func (g *Game) drawField(dst *ebiten.Image) {
	fr := g.screen.Field
	vector.FillRect(dst, float32(fr.X), float32(fr.Y), float32(fr.W), float32(fr.H), colField, false)
	vector.StrokeRect(dst, float32(fr.X), float32(fr.Y), float32(fr.W), float32(fr.H), 2, colFieldEdge, false)

	f := g.sess.Game().Field()
	for _, it := range f.Items() {
		r := f.ItemRect(it)
		r.X += fr.X
		r.Y += fr.Y
		if it.Kind == field.Carrot {
			drawCarrot(dst, r)
		} else {
			drawBug(dst, r)
		}
	}
}

func drawCarrot(dst *ebiten.Image, r layout.Rect) {
	x, y := float32(r.X), float32(r.Y)
	w, h := float32(r.W), float32(r.H)
	var body vector.Path
	body.MoveTo(x+w*0.2, y+h*0.3)
	body.LineTo(x+w*0.8, y+h*0.3)
	body.LineTo(x+w*0.5, y+h)
	body.Close()
	fillPath(dst, &body, colCarrot)
	for _, dx := range []float32{0.35, 0.5, 0.65} {
		vector.StrokeLine(dst, x+w*0.5, y+h*0.3, x+w*dx, y, 3, colLeaf, true)
	}
}

func drawBug(dst *ebiten.Image, r layout.Rect) {
	cx := float32(r.X) + float32(r.W)/2
	cy := float32(r.Y) + float32(r.H)/2
	rad := float32(min(r.W, r.H)) * 0.35
	for _, dy := range []float32{-0.5, 0, 0.5} {
		vector.StrokeLine(dst, cx-rad*1.4, cy+rad*dy, cx+rad*1.4, cy+rad*dy, 2, colBug, true)
	}
	vector.FillCircle(dst, cx, cy, rad, colBug, true)
	vector.FillCircle(dst, cx, cy-rad*1.1, rad*0.45, colBug, true)
	vector.FillCircle(dst, cx-rad*0.4, cy+rad*0.2, rad*0.2, colBugSpot, true)
	vector.FillCircle(dst, cx+rad*0.4, cy-rad*0.2, rad*0.2, colBugSpot, true)
}

func (g *Game) drawPopup(dst *ebiten.Image) {
	p := g.screen.Popup
	vector.FillRect(dst, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), colPopup, false)
	vector.StrokeRect(dst, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), 2, colButton, false)
	g.drawText(dst, g.sess.Popup().Text(), float64(p.X+p.W/2), float64(p.Y+40), colText)

	r := g.screen.Replay
	cx := float32(r.X) + float32(r.W)/2
	cy := float32(r.Y) + float32(r.H)/2
	vector.FillCircle(dst, cx, cy, float32(r.W)/2, colButton, true)
	// Replay arrow: a ring with a head.
	vector.StrokeCircle(dst, cx, cy, float32(r.W)/4, 3, colIcon, true)
	var head vector.Path
	head.MoveTo(cx+float32(r.W)/4-5, cy-4)
	head.LineTo(cx+float32(r.W)/4+5, cy-4)
	head.LineTo(cx+float32(r.W)/4, cy+4)
	head.Close()
	fillPath(dst, &head, colIcon)
}

func (g *Game) drawStatus(dst *ebiten.Image) {
	line := "[SPACE] start/stop  [ENTER] replay  [C] copy summary  [ESC] quit   " + g.sess.Summary()
	if g.notice != "" && g.now().Before(g.noticeUntil) {
		line = g.notice + "   " + line
	}
	ebitenutil.DebugPrintAt(dst, line, borderWidth, g.screen.Field.Y+g.screen.Field.H+4)
}

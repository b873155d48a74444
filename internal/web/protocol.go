package web

import (
	"github.com/Garsondee/carrot-field/internal/session"
	"github.com/Garsondee/carrot-field/internal/sound"
)

// Client message types.
const (
	MsgClick  = "click"
	MsgButton = "button"
	MsgPopup  = "popup"
)

// ClientMessage is one input from the page.
type ClientMessage struct {
	Type string `json:"type"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
}

// ServerMessage is a config frame, sent once, or a state frame.
type ServerMessage struct {
	Type   string      `json:"type"`
	Config *FieldInfo  `json:"config,omitempty"`
	State  *StateFrame `json:"state,omitempty"`
}

// FieldInfo tells the page how large to draw things.
type FieldInfo struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	ItemWidth  int      `json:"item_width"`
	ItemHeight int      `json:"item_height"`
	Cues       []string `json:"cues"`
}

// HUDView is the control bar.
type HUDView struct {
	ButtonVisible bool   `json:"button_visible"`
	ButtonIcon    string `json:"button_icon"`
	TimerVisible  bool   `json:"timer_visible"`
	TimerText     string `json:"timer_text"`
	ScoreVisible  bool   `json:"score_visible"`
	ScoreText     string `json:"score_text"`
}

// ItemView is one carrot or bug in field coordinates.
type ItemView struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// PopupView is the result banner.
type PopupView struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text"`
}

// SoundEvent asks the page to rewind, play or pause a cue.
type SoundEvent struct {
	Cue    string `json:"cue"`
	Action string `json:"action"`
}

// StateFrame is everything the page needs to redraw.
type StateFrame struct {
	Started bool         `json:"started"`
	HUD     HUDView      `json:"hud"`
	Items   []ItemView   `json:"items"`
	Popup   PopupView    `json:"popup"`
	Sounds  []SoundEvent `json:"sounds,omitempty"`
	Summary string       `json:"summary"`
}

func snapshot(s *session.Session, events []sound.Event) StateFrame {
	g := s.Game()
	hud := g.HUD()
	items := g.Field().Items()
	frame := StateFrame{
		Started: g.Started(),
		HUD: HUDView{
			ButtonVisible: hud.ButtonVisible,
			ButtonIcon:    hud.ButtonIcon.String(),
			TimerVisible:  hud.TimerVisible,
			TimerText:     hud.TimerText,
			ScoreVisible:  hud.ScoreVisible,
			ScoreText:     hud.ScoreText,
		},
		Items:   make([]ItemView, 0, len(items)),
		Popup:   PopupView{Visible: s.Popup().Visible(), Text: s.Popup().Text()},
		Summary: s.Summary(),
	}
	for _, it := range items {
		frame.Items = append(frame.Items, ItemView{ID: it.ID, Kind: it.Kind.String(), X: it.Pos.X, Y: it.Pos.Y})
	}
	for _, e := range events {
		frame.Sounds = append(frame.Sounds, SoundEvent{Cue: e.Cue.String(), Action: e.Action.String()})
	}
	return frame
}

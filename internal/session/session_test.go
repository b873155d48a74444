package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/carrot-field/internal/config"
	"github.com/Garsondee/carrot-field/internal/field"
	"github.com/Garsondee/carrot-field/internal/game"
	"github.com/Garsondee/carrot-field/internal/layout"
	"github.com/Garsondee/carrot-field/internal/sound"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newSession(t *testing.T, duration, carrots, bugs int) (*Session, *sound.EventLog) {
	t.Helper()
	log := sound.NewEventLog()
	bank, err := sound.NewBank(log, nil)
	require.NoError(t, err)
	s, err := New(Options{
		Game:     config.GameConfig{DurationSeconds: duration, Carrots: carrots, Bugs: bugs},
		Bounds:   layout.Rect{W: 800, H: 300},
		ItemSize: layout.Size{W: 48, H: 48},
		Rand:     rand.New(rand.NewSource(5)), // #nosec G404 -- test
		Sounds:   bank,
		Now:      epoch,
	})
	require.NoError(t, err)
	return s, log
}

func clickFirst(t *testing.T, s *Session, kind field.Kind) bool {
	t.Helper()
	f := s.Game().Field()
	for _, it := range f.Items() {
		if it.Kind == kind {
			r := f.ItemRect(it)
			return s.Click(layout.Point{X: r.X + r.W/2, Y: r.Y + r.H/2})
		}
	}
	t.Fatalf("no %s on field", kind)
	return false
}

func TestMessage(t *testing.T) {
	for r, want := range map[game.Reason]string{
		game.ReasonCancel: MessageCancel,
		game.ReasonWin:    MessageWin,
		game.ReasonLose:   MessageLose,
	} {
		got, err := Message(r)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Message(game.Reason(42))
	assert.ErrorIs(t, err, ErrInvalidReason)
}

func TestWinShowsPopupAndReplayRestarts(t *testing.T) {
	s, _ := newSession(t, 10, 3, 2)
	s.PressButton()
	for i := 0; i < 3; i++ {
		require.True(t, clickFirst(t, s, field.Carrot))
	}
	require.True(t, s.Popup().Visible())
	assert.Equal(t, MessageWin, s.Popup().Text())
	assert.False(t, s.Game().Started())

	s.DismissPopup()
	assert.False(t, s.Popup().Visible())
	assert.True(t, s.Game().Started())
	assert.Equal(t, 0, s.Game().Score())
	assert.Len(t, s.Game().Field().Items(), 5)
}

func TestBugShowsLose(t *testing.T) {
	s, _ := newSession(t, 5, 2, 1)
	s.PressButton()
	require.True(t, clickFirst(t, s, field.Bug))
	assert.Equal(t, MessageLose, s.Popup().Text())
	assert.Equal(t, 0, s.Game().Score())
}

func TestTimeoutShowsLose(t *testing.T) {
	s, _ := newSession(t, 1, 5, 0)
	s.PressButton()
	s.Advance(epoch.Add(2 * time.Second))
	require.True(t, s.Popup().Visible())
	assert.Equal(t, MessageLose, s.Popup().Text())
}

func TestCancelShowsReplay(t *testing.T) {
	s, log := newSession(t, 10, 3, 2)
	s.PressButton()
	log.Drain()
	s.PressButton()
	assert.Equal(t, MessageCancel, s.Popup().Text())
	assert.Equal(t, "0:10", s.Game().HUD().TimerText)
	assert.Contains(t, log.Events(), sound.Event{Cue: sound.CueAlert, Action: sound.ActionPlay})
}

func TestHiddenButtonIgnored(t *testing.T) {
	s, _ := newSession(t, 10, 1, 0)
	s.PressButton()
	clickFirst(t, s, field.Carrot)
	require.False(t, s.Game().HUD().ButtonVisible)
	s.PressButton()
	assert.False(t, s.Game().Started(), "hidden button must not start a game")
}

func TestFieldClicksBlockedByPopup(t *testing.T) {
	s, _ := newSession(t, 10, 3, 0)
	s.PressButton()
	s.PressButton() // cancel, popup up
	before := len(s.Game().Field().Items())
	assert.False(t, clickFirst(t, s, field.Carrot))
	assert.Len(t, s.Game().Field().Items(), before)
}

func TestStats(t *testing.T) {
	s, _ := newSession(t, 10, 1, 1)
	s.PressButton()
	s.Advance(epoch.Add(3 * time.Second))
	clickFirst(t, s, field.Carrot) // win after 3s
	s.DismissPopup()
	clickFirst(t, s, field.Bug) // lose
	s.DismissPopup()
	s.PressButton() // cancel

	st := s.Stats()
	assert.Equal(t, Stats{Games: 3, Wins: 1, Losses: 1, Cancels: 1, Carrots: 1, BestWin: 3 * time.Second}, st)
	assert.Equal(t, "games=3 wins=1 losses=1 cancels=1 carrots=1 best_win=3s", s.Summary())
}

func TestNew_RejectsBadGame(t *testing.T) {
	_, err := New(Options{
		Game:     config.GameConfig{DurationSeconds: 0, Carrots: 1},
		Bounds:   layout.Rect{W: 10, H: 10},
		ItemSize: layout.Size{W: 1, H: 1},
	})
	assert.ErrorIs(t, err, game.ErrInvalidConfig)
}

func TestResize(t *testing.T) {
	s, _ := newSession(t, 10, 3, 2)
	s.PressButton()
	small := layout.Rect{W: 300, H: 200}
	s.Resize(small)
	assert.False(t, s.Game().Started(), "resize cancels the running game")
	assert.Equal(t, MessageCancel, s.Popup().Text())
	assert.Empty(t, s.Game().Field().Items())

	s.DismissPopup()
	require.True(t, s.Game().Started())
	for _, it := range s.Game().Field().Items() {
		assert.True(t, s.Game().Field().ItemRect(it).Inside(small), "item %d outside the new bounds", it.ID)
	}

	s.Resize(small)
	assert.True(t, s.Game().Started(), "same bounds leave the game alone")
}

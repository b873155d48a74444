package sound

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"
)

// Cue names one of the game's sound clips.
type Cue int

const (
	CueBackground Cue = iota
	CueAlert
	CueWin
	CueLose
	CueBug
	CueCarrot
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueBackground:
		return "background"
	case CueAlert:
		return "alert"
	case CueWin:
		return "win"
	case CueLose:
		return "lose"
	case CueBug:
		return "bug"
	case CueCarrot:
		return "carrot"
	default:
		return "unknown"
	}
}

// Cues lists every cue in declaration order.
func Cues() []Cue {
	out := make([]Cue, 0, cueCount)
	for c := Cue(0); c < cueCount; c++ {
		out = append(out, c)
	}
	return out
}

// Looping reports whether the clip repeats until stopped.
func (c Cue) Looping() bool {
	return c == CueBackground
}

// AssetPath is where a backend looks for a WAV override of c.
func AssetPath(dir string, c Cue) string {
	return filepath.Join(dir, c.String()+".wav")
}

// Track is one loaded clip in a backend.
type Track interface {
	// Rewind moves the playback position back to the start.
	Rewind() error
	// Play resumes playback from the current position.
	Play()
	// Pause halts playback and keeps the position.
	Pause()
}

// Backend loads tracks for cues. Backends that hold a device may also
// implement io.Closer.
type Backend interface {
	Load(c Cue) (Track, error)
}

// Player is what the game needs from a sound bank.
type Player interface {
	Play(c Cue)
	Stop(c Cue)
}

// Bank holds one track per cue. A Play always restarts the clip from zero,
// cutting off any earlier playback of the same cue; different cues overlap.
type Bank struct {
	backend Backend
	tracks  [cueCount]Track
	logger  *zap.Logger
}

// NewBank loads every cue from b.
func NewBank(b Backend, logger *zap.Logger) (*Bank, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bank := &Bank{backend: b, logger: logger}
	for _, c := range Cues() {
		t, err := b.Load(c)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", c, err)
		}
		bank.tracks[c] = t
	}
	return bank, nil
}

// Play restarts c from the beginning.
func (b *Bank) Play(c Cue) {
	t := b.track(c)
	if t == nil {
		return
	}
	if err := t.Rewind(); err != nil {
		b.logger.Warn("rewind failed", zap.Stringer("cue", c), zap.Error(err))
	}
	t.Play()
}

// Stop pauses c without rewinding.
func (b *Bank) Stop(c Cue) {
	if t := b.track(c); t != nil {
		t.Pause()
	}
}

// StopAll pauses every cue.
func (b *Bank) StopAll() {
	for _, c := range Cues() {
		b.Stop(c)
	}
}

// Close pauses everything and releases the backend if it holds resources.
func (b *Bank) Close() error {
	b.StopAll()
	if c, ok := b.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *Bank) track(c Cue) Track {
	if c < 0 || c >= cueCount {
		b.logger.Warn("unknown cue", zap.Int("cue", int(c)))
		return nil
	}
	return b.tracks[c]
}

// ErrNoDevice is returned by device backends when no audio output is available.
var ErrNoDevice = errors.New("sound: no audio device")

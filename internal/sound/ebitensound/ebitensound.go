// Package ebitensound plays the game's cues through ebiten's audio context.
package ebitensound

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/Garsondee/carrot-field/internal/sound"
)

// player is the part of *audio.Player a track drives.
type player interface {
	Play()
	Pause()
	SetPosition(offset time.Duration) error
}

// Backend creates one audio.Player per cue on a shared context.
// ebiten allows a single audio context per process.
type Backend struct {
	rate      int
	dir       string
	newPlayer func(src io.Reader) (player, error)
}

// New returns a backend on a fresh audio context. dir may hold
// <cue>.wav overrides; missing files fall back to synthesized clips.
func New(sampleRate int, dir string) *Backend {
	if sampleRate <= 0 {
		sampleRate = sound.DefaultSampleRate
	}
	ctx := audio.NewContext(sampleRate)
	return &Backend{
		rate: sampleRate,
		dir:  dir,
		newPlayer: func(src io.Reader) (player, error) {
			p, err := ctx.NewPlayer(src)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}

// Load implements sound.Backend.
func (b *Backend) Load(c sound.Cue) (sound.Track, error) {
	src, length, err := b.source(c)
	if err != nil {
		return nil, err
	}
	var r io.Reader = src
	if c.Looping() {
		r = audio.NewInfiniteLoop(src, length)
	}
	p, err := b.newPlayer(r)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", c, err)
	}
	return &track{p: p}, nil
}

// source returns 16-bit stereo PCM for c and its length in bytes.
func (b *Backend) source(c sound.Cue) (io.ReadSeeker, int64, error) {
	if b.dir != "" {
		path := sound.AssetPath(b.dir, c)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			s, err := wav.DecodeWithSampleRate(b.rate, bytes.NewReader(data))
			if err != nil {
				return nil, 0, fmt.Errorf("decode %s: %w", path, err)
			}
			return s, s.Length(), nil
		case !os.IsNotExist(err):
			return nil, 0, err
		}
	}
	pcm := sound.EncodePCM16(sound.Synthesize(c, b.rate))
	return bytes.NewReader(pcm), int64(len(pcm)), nil
}

type track struct {
	p player
}

func (t *track) Rewind() error { return t.p.SetPosition(0) }

func (t *track) Play() { t.p.Play() }

func (t *track) Pause() { t.p.Pause() }

// Package beepsound plays the game's cues through gopxl/beep's speaker.
package beepsound

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/Garsondee/carrot-field/internal/sound"
)

// Backend mounts one clip streamer per cue on a mixer that plays for the
// lifetime of the speaker. Clips never leave the mixer; a paused or finished
// clip streams silence so a later Play can restart it.
type Backend struct {
	mu     sync.Mutex
	format beep.Format
	mixer  *beep.Mixer
	dir    string
	closed bool
}

// New initialises the speaker. It fails when no output device is available;
// callers fall back to sound.Silent.
func New(sampleRate int, dir string) (*Backend, error) {
	if sampleRate <= 0 {
		sampleRate = sound.DefaultSampleRate
	}
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("%w: %v", sound.ErrNoDevice, err)
	}
	b := &Backend{
		format: beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2},
		mixer:  &beep.Mixer{},
		dir:    dir,
	}
	speaker.Play(b.mixer)
	return b, nil
}

// Load implements sound.Backend.
func (b *Backend) Load(c sound.Cue) (sound.Track, error) {
	buf := beep.NewBuffer(b.format)
	if err := b.fill(buf, c); err != nil {
		return nil, err
	}
	cl := &clip{
		src:    buf.Streamer(0, buf.Len()),
		loop:   c.Looping(),
		paused: true,
	}
	speaker.Lock()
	b.mixer.Add(cl)
	speaker.Unlock()
	return cl, nil
}

func (b *Backend) fill(buf *beep.Buffer, c sound.Cue) error {
	if b.dir != "" {
		f, err := os.Open(sound.AssetPath(b.dir, c))
		switch {
		case err == nil:
			defer f.Close()
			s, format, err := wav.Decode(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", f.Name(), err)
			}
			defer s.Close()
			buf.Append(beep.Resample(4, format.SampleRate, b.format.SampleRate, s))
			return nil
		case !os.IsNotExist(err):
			return err
		}
	}
	buf.Append(&frames{data: sound.Synthesize(c, int(b.format.SampleRate))})
	return nil
}

// Close silences the mixer. The speaker itself stays initialised.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	return nil
}

// frames streams a pre-rendered clip once.
type frames struct {
	data [][2]float64
	pos  int
}

func (f *frames) Stream(samples [][2]float64) (int, bool) {
	if f.pos >= len(f.data) {
		return 0, false
	}
	n := copy(samples, f.data[f.pos:])
	f.pos += n
	return n, true
}

func (f *frames) Err() error { return nil }

// clip is a restartable view of a buffer. The speaker goroutine calls Stream
// under speaker.Lock, so track methods take the same lock.
type clip struct {
	src    beep.StreamSeeker
	loop   bool
	paused bool
	done   bool
}

func (c *clip) Stream(samples [][2]float64) (int, bool) {
	if c.paused || c.done {
		clear(samples)
		return len(samples), true
	}
	filled := 0
	for filled < len(samples) {
		n, ok := c.src.Stream(samples[filled:])
		filled += n
		if ok && n > 0 {
			continue
		}
		if !c.loop || c.src.Len() == 0 {
			c.done = true
			break
		}
		if err := c.src.Seek(0); err != nil {
			c.done = true
			break
		}
	}
	clear(samples[filled:])
	return len(samples), true
}

func (c *clip) Err() error { return c.src.Err() }

func (c *clip) Rewind() error {
	speaker.Lock()
	defer speaker.Unlock()
	c.done = false
	return c.src.Seek(0)
}

func (c *clip) Play() {
	speaker.Lock()
	c.paused = false
	speaker.Unlock()
}

func (c *clip) Pause() {
	speaker.Lock()
	c.paused = true
	speaker.Unlock()
}

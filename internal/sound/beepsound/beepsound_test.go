package beepsound

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
)

func newClip(t *testing.T, n int, loop bool) *clip {
	t.Helper()
	data := make([][2]float64, n)
	for i := range data {
		v := float64(i+1) / 10
		data[i] = [2]float64{v, v}
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2})
	buf.Append(&frames{data: data})
	return &clip{src: buf.Streamer(0, buf.Len()), loop: loop, paused: true}
}

// sample undoes the /10 scaling; the buffer stores 16-bit samples.
func sample(f [2]float64) int {
	return int(math.Round(f[0] * 10))
}

func TestClip_PausedStreamsSilence(t *testing.T) {
	c := newClip(t, 4, false)
	out := make([][2]float64, 3)
	n, ok := c.Stream(out)
	if n != 3 || !ok {
		t.Fatalf("paused clip must keep streaming, got n=%d ok=%v", n, ok)
	}
	for _, s := range out {
		if s[0] != 0 {
			t.Fatalf("expected silence, got %v", out)
		}
	}
}

func TestClip_OneShotFinishesThenRewinds(t *testing.T) {
	c := newClip(t, 4, false)
	c.Play()
	out := make([][2]float64, 6)
	c.Stream(out)
	if sample(out[3]) != 4 || sample(out[4]) != 0 {
		t.Fatalf("expected clip then silence, got %v", out)
	}
	if !c.done {
		t.Fatal("clip should be done after its last sample")
	}
	if err := c.Rewind(); err != nil {
		t.Fatal(err)
	}
	c.Stream(out[:2])
	if sample(out[0]) != 1 || sample(out[1]) != 2 {
		t.Fatalf("rewind should restart from zero, got %v", out[:2])
	}
}

func TestClip_LoopWraps(t *testing.T) {
	c := newClip(t, 3, true)
	c.Play()
	out := make([][2]float64, 7)
	c.Stream(out)
	want := []int{1, 2, 3, 1, 2, 3, 1}
	for i, w := range want {
		if sample(out[i]) != w {
			t.Fatalf("sample %d: got %v, want %v", i, sample(out[i]), w)
		}
	}
}

func TestClip_PauseKeepsPosition(t *testing.T) {
	c := newClip(t, 5, false)
	c.Play()
	out := make([][2]float64, 2)
	c.Stream(out)
	c.Pause()
	c.Stream(out)
	c.Play()
	c.Stream(out)
	if sample(out[0]) != 3 {
		t.Fatalf("resume should continue where it paused, got %v", out)
	}
}

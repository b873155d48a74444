package sound

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"
)

// DefaultSampleRate is used by both device backends unless configured otherwise.
const DefaultSampleRate = 48000

type note struct {
	freq  float64
	start time.Duration
	dur   time.Duration
}

// Synthesize renders the built-in clip for c as stereo frames in [-1, 1].
func Synthesize(c Cue, rate int) [][2]float64 {
	switch c {
	case CueBackground:
		return background(rate)
	case CueAlert:
		return sequence(rate, 400*time.Millisecond, sine, 0.35, []note{
			{880, 0, 150 * time.Millisecond},
			{660, 200 * time.Millisecond, 150 * time.Millisecond},
		})
	case CueWin:
		return sequence(rate, 900*time.Millisecond, sine, 0.3, []note{
			{523.25, 0, 180 * time.Millisecond},
			{659.25, 180 * time.Millisecond, 180 * time.Millisecond},
			{783.99, 360 * time.Millisecond, 180 * time.Millisecond},
			{1046.5, 540 * time.Millisecond, 360 * time.Millisecond},
		})
	case CueLose:
		return slide(rate, 900*time.Millisecond, 400, 110)
	case CueBug:
		return buzz(rate, 350*time.Millisecond, 140)
	case CueCarrot:
		return pluck(rate, 120*time.Millisecond, 1200)
	default:
		return nil
	}
}

type wave func(phase float64) float64

func sine(phase float64) float64 { return math.Sin(2 * math.Pi * phase) }

func square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// frames allocates a zeroed clip of length d.
func frames(rate int, d time.Duration) [][2]float64 {
	return make([][2]float64, int(float64(rate)*d.Seconds()))
}

// envelope is a linear attack/release shape over n samples.
func envelope(i, n, attack, release int) float64 {
	switch {
	case i < attack:
		return float64(i) / float64(attack)
	case i >= n-release:
		return float64(n-i) / float64(release)
	default:
		return 1
	}
}

func sequence(rate int, total time.Duration, w wave, amp float64, notes []note) [][2]float64 {
	out := frames(rate, total)
	for _, n := range notes {
		start := int(float64(rate) * n.start.Seconds())
		length := int(float64(rate) * n.dur.Seconds())
		att := rate / 200 // 5ms
		rel := length / 4
		phase := 0.0
		for i := 0; i < length && start+i < len(out); i++ {
			v := amp * envelope(i, length, att, rel) * w(phase)
			out[start+i][0] += v
			out[start+i][1] += v
			phase += n.freq / float64(rate)
			phase -= math.Floor(phase)
		}
	}
	return out
}

// background is a two-second bass arpeggio meant to loop seamlessly.
func background(rate int) [][2]float64 {
	step := 250 * time.Millisecond
	freqs := []float64{110, 164.81, 130.81, 164.81, 98, 146.83, 123.47, 146.83}
	notes := make([]note, len(freqs))
	for i, f := range freqs {
		notes[i] = note{f, time.Duration(i) * step, step}
	}
	return sequence(rate, time.Duration(len(freqs))*step, sine, 0.12, notes)
}

func slide(rate int, d time.Duration, from, to float64) [][2]float64 {
	out := frames(rate, d)
	n := len(out)
	phase := 0.0
	for i := range out {
		t := float64(i) / float64(n)
		freq := from + (to-from)*t
		v := 0.3 * envelope(i, n, rate/200, n/3) * sine(phase)
		out[i] = [2]float64{v, v}
		phase += freq / float64(rate)
		phase -= math.Floor(phase)
	}
	return out
}

func buzz(rate int, d time.Duration, freq float64) [][2]float64 {
	out := frames(rate, d)
	n := len(out)
	phase := 0.0
	for i := range out {
		v := 0.18 * envelope(i, n, rate/100, n/4) * (square(phase) + 0.5*sine(2*phase))
		out[i] = [2]float64{v, v}
		phase += freq / float64(rate)
		phase -= math.Floor(phase)
	}
	return out
}

func pluck(rate int, d time.Duration, freq float64) [][2]float64 {
	out := frames(rate, d)
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- cosmetic only
	phase := 0.0
	for i := range out {
		t := float64(i) / float64(rate)
		decay := math.Exp(-t * 30)
		v := decay * (0.35*sine(phase) + 0.05*(rng.Float64()*2-1))
		out[i] = [2]float64{v, v}
		phase += freq / float64(rate)
		phase -= math.Floor(phase)
	}
	return out
}

// EncodePCM16 converts frames to interleaved signed 16-bit little-endian PCM.
func EncodePCM16(fs [][2]float64) []byte {
	out := make([]byte, len(fs)*4)
	for i, f := range fs {
		for ch := 0; ch < 2; ch++ {
			v := math.Max(-1, math.Min(1, f[ch]))
			binary.LittleEndian.PutUint16(out[i*4+ch*2:], uint16(int16(v*math.MaxInt16)))
		}
	}
	return out
}

// EncodeWAV wraps EncodePCM16 output in a canonical 44-byte RIFF header.
func EncodeWAV(fs [][2]float64, rate int) []byte {
	pcm := EncodePCM16(fs)
	const channels, bits = 2, 16
	blockAlign := channels * bits / 8
	out := make([]byte, 44, 44+len(pcm))
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:], "WAVEfmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:], channels)
	binary.LittleEndian.PutUint32(out[24:], uint32(rate))
	binary.LittleEndian.PutUint32(out[28:], uint32(rate*blockAlign))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], bits)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(pcm)))
	return append(out, pcm...)
}

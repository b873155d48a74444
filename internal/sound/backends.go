package sound

// Silent returns a backend whose tracks do nothing. Used when sound is
// disabled or the audio device cannot be opened.
func Silent() Backend { return silentBackend{} }

type silentBackend struct{}

func (silentBackend) Load(Cue) (Track, error) { return silentTrack{}, nil }

type silentTrack struct{}

func (silentTrack) Rewind() error { return nil }

func (silentTrack) Play() {}

func (silentTrack) Pause() {}

// Action is what happened to a cue.
type Action int

const (
	ActionRewind Action = iota
	ActionPlay
	ActionPause
)

func (a Action) String() string {
	switch a {
	case ActionRewind:
		return "rewind"
	case ActionPlay:
		return "play"
	case ActionPause:
		return "pause"
	default:
		return "unknown"
	}
}

// Event is one recorded track operation.
type Event struct {
	Cue    Cue
	Action Action
}

// EventLog is a backend that records operations instead of producing audio.
// The browser frontend forwards drained events to the page, which does the
// actual playback. It also tracks whether each cue is playing.
type EventLog struct {
	events  []Event
	playing [cueCount]bool
}

// NewEventLog returns an empty log.
func NewEventLog() *EventLog { return &EventLog{} }

// Load implements Backend.
func (l *EventLog) Load(c Cue) (Track, error) {
	return &logTrack{log: l, cue: c}, nil
}

// Events returns everything recorded since the last Drain.
func (l *EventLog) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Drain returns and clears the recorded events.
func (l *EventLog) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

// Playing reports whether c was last played and not paused since. One-shot
// clips are reported as playing until paused; the log has no notion of length.
func (l *EventLog) Playing(c Cue) bool {
	if c < 0 || c >= cueCount {
		return false
	}
	return l.playing[c]
}

type logTrack struct {
	log *EventLog
	cue Cue
}

func (t *logTrack) Rewind() error {
	t.log.events = append(t.log.events, Event{t.cue, ActionRewind})
	return nil
}

func (t *logTrack) Play() {
	t.log.events = append(t.log.events, Event{t.cue, ActionPlay})
	t.log.playing[t.cue] = true
}

func (t *logTrack) Pause() {
	t.log.events = append(t.log.events, Event{t.cue, ActionPause})
	t.log.playing[t.cue] = false
}

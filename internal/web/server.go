// Package web serves the game to a browser. Each WebSocket connection gets
// its own session; the page only draws frames and plays the cues it is told to.
package web

import (
	"context"
	"embed"
	"io/fs"
	"math/rand"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/carrot-field/internal/config"
	"github.com/Garsondee/carrot-field/internal/layout"
	"github.com/Garsondee/carrot-field/internal/session"
	"github.com/Garsondee/carrot-field/internal/sound"
)

//go:embed static
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the page may be served from a different host in development
	},
}

// Server is an http.Handler for the page, the sound clips and /ws.
type Server struct {
	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time
	mux    *http.ServeMux
	conns  atomic.Int64
	clips  map[string][]byte

	// stopping ends every connection's game loop; see CloseConnections.
	stopping context.Context
	stopAll  context.CancelFunc
}

// Option customises a Server.
type Option func(*Server)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer builds the handler tree. Clips are rendered once up front.
func NewServer(cfg config.Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		mux:    http.NewServeMux(),
		clips:  make(map[string][]byte),
	}
	s.stopping, s.stopAll = context.WithCancel(context.Background())
	for _, o := range opts {
		o(s)
	}
	rate := cfg.Sound.SampleRate
	if rate <= 0 {
		rate = sound.DefaultSampleRate
	}
	for _, c := range sound.Cues() {
		s.clips[c.String()] = sound.EncodeWAV(sound.Synthesize(c, rate), rate)
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded tree is fixed at build time
	}
	s.mux.Handle("/", http.FileServer(http.FS(static)))
	s.mux.HandleFunc("/sounds/", s.handleSound)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// CloseConnections sends a going-away close frame to every connected player
// and ends their game loops. http.Server.Shutdown does not track hijacked
// connections, so register this with RegisterOnShutdown. New upgrades are
// refused afterwards.
func (s *Server) CloseConnections() {
	s.stopAll()
}

func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/sounds/"), ".wav")
	clip, ok := s.clips[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write(clip)
}

func (s *Server) newRand() *rand.Rand {
	seed := s.cfg.Field.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Distinct but reproducible layouts per connection.
	return rand.New(rand.NewSource(seed + s.conns.Add(1))) // #nosec G404 -- game only
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.stopping.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	logger := s.logger.With(zap.String("remote", r.RemoteAddr))
	logger.Info("player connected")

	if err := s.serve(r.Context(), conn, logger); err != nil {
		logger.Warn("connection ended", zap.Error(err))
	}
	logger.Info("player disconnected")
}

// serve runs one connection. The loop goroutine is the only writer and the
// only user of the session; the reader just forwards decoded messages.
func (s *Server) serve(ctx context.Context, conn *websocket.Conn, logger *zap.Logger) error {
	events := sound.NewEventLog()
	bank, err := sound.NewBank(events, logger)
	if err != nil {
		_ = conn.Close()
		return err
	}
	fc := s.cfg.Field
	sess, err := session.New(session.Options{
		Game:     s.cfg.Game,
		Bounds:   layout.Rect{W: fc.Width, H: fc.Height},
		ItemSize: layout.Size{W: fc.ItemWidth, H: fc.ItemHeight},
		Attempts: fc.PlacementAttempts,
		Rand:     s.newRand(),
		Sounds:   bank,
		Logger:   logger,
		Now:      s.now(),
	})
	if err != nil {
		_ = conn.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.stopping, cancel)
	defer stop()

	msgs := make(chan ClientMessage, 16)
	done := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(msgs)
		for {
			var m ClientMessage
			if err := conn.ReadJSON(&m); err != nil {
				// Close frames, a dropped peer, or the loop closing the conn.
				logger.Debug("read ended", zap.Error(err))
				return nil
			}
			select {
			case msgs <- m:
			case <-done:
				return nil
			}
		}
	})
	g.Go(func() error {
		defer conn.Close()
		defer close(done)
		return s.loop(ctx, conn, sess, events, msgs, logger)
	})
	return g.Wait()
}

func (s *Server) loop(ctx context.Context, conn *websocket.Conn, sess *session.Session, events *sound.EventLog, msgs <-chan ClientMessage, logger *zap.Logger) error {
	info := FieldInfo{
		Width:      s.cfg.Field.Width,
		Height:     s.cfg.Field.Height,
		ItemWidth:  s.cfg.Field.ItemWidth,
		ItemHeight: s.cfg.Field.ItemHeight,
	}
	for _, c := range sound.Cues() {
		info.Cues = append(info.Cues, c.String())
	}
	if err := conn.WriteJSON(ServerMessage{Type: "config", Config: &info}); err != nil {
		return err
	}
	if err := s.writeState(conn, sess, events); err != nil {
		return err
	}

	interval := s.cfg.Web.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return nil
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			sess.Advance(s.now())
			s.dispatch(sess, m, logger)
		case <-tick.C:
			sess.Advance(s.now())
		}
		if err := s.writeState(conn, sess, events); err != nil {
			return err
		}
	}
}

func (s *Server) writeState(conn *websocket.Conn, sess *session.Session, events *sound.EventLog) error {
	frame := snapshot(sess, events.Drain())
	return conn.WriteJSON(ServerMessage{Type: "state", State: &frame})
}

func (s *Server) dispatch(sess *session.Session, m ClientMessage, logger *zap.Logger) {
	switch m.Type {
	case MsgClick:
		sess.Click(layout.Point{X: m.X, Y: m.Y})
	case MsgButton:
		sess.PressButton()
	case MsgPopup:
		sess.DismissPopup()
	default:
		logger.Debug("unknown message", zap.String("type", m.Type))
	}
}

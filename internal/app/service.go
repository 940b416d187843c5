package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-minimax/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
)

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// offer delivers b without blocking; false means the subscriber is too slow.
func (s *subscriber) offer(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

// Settings are shared by every session the service creates.
type Settings struct {
	SettleDelay time.Duration
	ThinkDelay  time.Duration
	Scheduler   Scheduler
	Logger      *zap.SugaredLogger
}

// Service manages sessions and their subscribers.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string]map[*subscriber]struct{}
	render   func(View) []byte
	settings Settings
	log      *zap.SugaredLogger
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(settings Settings) *Service {
	return NewServiceWithRenderer(settings, func(View) []byte { return nil })
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(settings Settings, renderer func(View) []byte) *Service {
	if renderer == nil {
		renderer = func(View) []byte { return nil }
	}
	if settings.Logger == nil {
		settings.Logger = zap.NewNop().Sugar()
	}
	return &Service{
		sessions: make(map[string]*Session),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   renderer,
		settings: settings,
		log:      settings.Logger,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(View) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(View) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame registers a new session and starts a game in mode.
func (s *Service) CreateGame(mode domain.Mode) (View, error) {
	id := uuid.NewString()
	sess := NewSession(id, Options{
		SettleDelay: s.settings.SettleDelay,
		ThinkDelay:  s.settings.ThinkDelay,
		Scheduler:   s.settings.Scheduler,
		Logger:      s.log,
		OnChange:    func(v View) { s.broadcast(id, v) },
	})
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess.StartGame(mode), nil
}

// Session returns the live session for id.
func (s *Service) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Get returns a snapshot of the game if present.
func (s *Service) Get(id string) (View, bool) {
	sess, ok := s.Session(id)
	if !ok {
		return View{}, false
	}
	return sess.View(), true
}

// Move forwards a cell intent. Ignored intents are not errors; accepted
// reports whether the board changed.
func (s *Service) Move(id string, index int) (v View, accepted bool, err error) {
	sess, ok := s.Session(id)
	if !ok {
		return View{}, false, ErrNotFound
	}
	accepted = sess.Move(index)
	return sess.View(), accepted, nil
}

// Home abandons the game and returns the session to the home screen.
func (s *Service) Home(id string) (View, error) {
	sess, ok := s.Session(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return sess.GoHome(), nil
}

// Restart starts a fresh game in the session's mode.
func (s *Service) Restart(id string) (View, error) {
	sess, ok := s.Session(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return sess.Restart(), nil
}

// Start starts a fresh game in mode on an existing session.
func (s *Service) Start(id string, mode domain.Mode) (View, error) {
	sess, ok := s.Session(id)
	if !ok {
		return View{}, ErrNotFound
	}
	return sess.StartGame(mode), nil
}

// Remove drops a session, invalidates its continuations and closes its
// subscribers.
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	set := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	sess.Close()
	for sub := range set {
		sub.close()
	}
	return true
}

// Reap removes sessions idle for longer than maxIdle and returns how
// many were dropped.
func (s *Service) Reap(maxIdle time.Duration) int {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	n := 0
	for _, sess := range all {
		if sess.LastActive().Before(cutoff) && s.Remove(sess.ID()) {
			s.log.Infow("reaped idle game", "game", sess.ID(), "age", time.Since(sess.Created()).String())
			n++
		}
	}
	return n
}

// RunReaper calls Reap every interval until ctx is done.
func (s *Service) RunReaper(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap(maxIdle)
		}
	}
}

// broadcast runs from a session's OnChange. It never blocks: slow
// subscribers are closed and dropped.
func (s *Service) broadcast(id string, v View) {
	var toDrop []*subscriber

	s.mu.Lock()
	subs := s.copySubsLocked(id)
	render := s.render
	s.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	payload := render(v)

	for sub := range subs {
		if !sub.offer(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			s.removeSubLocked(id, sub)
		}
		s.mu.Unlock()
		s.log.Debugw("dropped slow subscribers", "game", id, "count", len(toDrop))
	}
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 4)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			s.removeSubLocked(id, sub)
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

// removeSubLocked drops sub and forgets the game's set once it is empty.
func (s *Service) removeSubLocked(id string, sub *subscriber) {
	set, ok := s.subs[id]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(s.subs, id)
	}
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}

package app

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-minimax/internal/domain"
	"github.com/jaminalder/tictactoe-minimax/internal/solver"
)

// Phase is the screen a session is on.
type Phase uint8

const (
	PhaseHome Phase = iota
	PhasePlaying
)

func (p Phase) String() string {
	if p == PhasePlaying {
		return "playing"
	}
	return "home"
}

// View is the snapshot handed to renderers after every change.
type View struct {
	ID        string       `json:"id"`
	Phase     string       `json:"phase"`
	Mode      string       `json:"mode"`
	Board     domain.Board `json:"board"`
	Turn      string       `json:"turn"`
	Status    string       `json:"status"`
	Winner    string       `json:"winner,omitempty"`
	Message   string       `json:"message"`
	Accepting bool         `json:"accepting"`
	Moves     int          `json:"moves"`
	Updated   time.Time    `json:"updated"`
}

// Options configures a Session. Zero delays fall back to the defaults.
type Options struct {
	SettleDelay time.Duration
	ThinkDelay  time.Duration
	Scheduler   Scheduler
	Logger      *zap.SugaredLogger
	// OnChange runs with the session locked, in event order. It must not
	// call back into the session.
	OnChange func(View)
}

func (o Options) withDefaults() Options {
	if o.SettleDelay <= 0 {
		o.SettleDelay = MoveSettleDelay
	}
	if o.ThinkDelay <= 0 {
		o.ThinkDelay = ComputerThinkDelay
	}
	if o.Scheduler == nil {
		o.Scheduler = TimerScheduler{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}

// token ties a continuation to the game and move it was scheduled for.
type token struct {
	epoch uint64
	moves int
}

// Session owns one player's game from the home screen through to the end
// of the match. Every intent and timer continuation runs under mu.
type Session struct {
	mu      sync.Mutex
	id      string
	opts    Options
	phase   Phase
	game    domain.Game
	epoch   uint64
	created time.Time
	updated time.Time
}

// NewSession returns a session on the home screen.
func NewSession(id string, opts Options) *Session {
	now := time.Now()
	return &Session{
		id:      id,
		opts:    opts.withDefaults(),
		game:    domain.New(domain.HumanVsHuman),
		created: now,
		updated: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// StartGame begins a fresh game in mode. Pending continuations from any
// earlier game are invalidated.
func (s *Session) StartGame(mode domain.Mode) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.phase = PhasePlaying
	s.game = domain.New(mode)
	s.touchLocked()
	s.opts.Logger.Infow("game started", "game", s.id, "mode", mode.String(), "epoch", s.epoch)
	return s.notifyLocked()
}

// Restart begins a fresh game in the current mode.
func (s *Session) Restart() View {
	s.mu.Lock()
	mode := s.game.Mode
	s.mu.Unlock()
	return s.StartGame(mode)
}

// GoHome abandons the current game and returns to the home screen.
func (s *Session) GoHome() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.phase = PhaseHome
	s.game = domain.New(s.game.Mode)
	s.touchLocked()
	s.opts.Logger.Infow("returned home", "game", s.id, "epoch", s.epoch)
	return s.notifyLocked()
}

// Move applies a move intent for the player on turn. Ignored intents
// report false and produce no notification.
func (s *Session) Move(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePlaying || !s.game.Apply(index) {
		return false
	}
	s.afterMoveLocked()
	return true
}

// View returns the current snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// LastActive returns the time of the last state change.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated
}

// Created returns when the session was opened.
func (s *Session) Created() time.Time { return s.created }

// Close invalidates every pending continuation.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

func (s *Session) afterMoveLocked() {
	s.touchLocked()
	if s.game.Status.Over() {
		s.opts.Logger.Infow("game over", "game", s.id, "result", s.game.Message(), "moves", s.game.Moves)
		s.notifyLocked()
		return
	}

	tok := s.tokenLocked()
	s.opts.Scheduler.AfterFunc(s.opts.SettleDelay, func() { s.settle(tok) })
	if s.game.ComputerToMove() {
		idx := solver.BestMove(s.game.Board, domain.ComputerSide)
		s.opts.Scheduler.AfterFunc(s.opts.ThinkDelay, func() { s.computerMove(tok, idx) })
	}
	s.notifyLocked()
}

func (s *Session) settle(tok token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.tokenLocked() || !s.game.Locked {
		s.opts.Logger.Debugw("dropped settle", "game", s.id, "epoch", tok.epoch, "moves", tok.moves)
		return
	}
	// input stays locked while the computer thinks; computerMove unlocks
	if s.game.ComputerToMove() {
		return
	}
	s.game.Unlock()
	s.touchLocked()
	s.notifyLocked()
}

func (s *Session) computerMove(tok token, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.tokenLocked() || !s.game.ComputerToMove() {
		s.opts.Logger.Debugw("dropped computer move", "game", s.id, "epoch", tok.epoch, "moves", tok.moves)
		return
	}
	// an overlapping settle pause ends with the computer's move
	s.game.Unlock()
	if !s.game.Apply(idx) {
		s.opts.Logger.Warnw("computer move rejected", "game", s.id, "index", idx)
		return
	}
	s.opts.Logger.Debugw("computer moved", "game", s.id, "index", idx)
	s.afterMoveLocked()
}

func (s *Session) tokenLocked() token {
	return token{epoch: s.epoch, moves: s.game.Moves}
}

func (s *Session) touchLocked() { s.updated = time.Now() }

func (s *Session) notifyLocked() View {
	v := s.viewLocked()
	if s.opts.OnChange != nil {
		s.opts.OnChange(v)
	}
	return v
}

func (s *Session) viewLocked() View {
	g := s.game
	v := View{
		ID:        s.id,
		Phase:     s.phase.String(),
		Mode:      g.Mode.String(),
		Board:     g.Board,
		Turn:      g.Turn.String(),
		Status:    g.Status.Kind.String(),
		Message:   g.Message(),
		Accepting: s.phase == PhasePlaying && g.Accepting(),
		Moves:     g.Moves,
		Updated:   s.updated,
	}
	if g.Status.Kind == domain.Won {
		v.Winner = g.Status.Winner.String()
	}
	return v
}

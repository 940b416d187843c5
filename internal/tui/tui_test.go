package tui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/domain"
)

// queueScheduler holds continuations until flush runs them in order.
type queueScheduler struct {
	mu sync.Mutex
	fs []func()
}

func (q *queueScheduler) AfterFunc(_ time.Duration, f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fs = append(q.fs, f)
}

func (q *queueScheduler) flush() {
	for {
		q.mu.Lock()
		if len(q.fs) == 0 {
			q.mu.Unlock()
			return
		}
		f := q.fs[0]
		q.fs = q.fs[1:]
		q.mu.Unlock()
		f()
	}
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestUIKeysDriveSession(t *testing.T) {
	sched := &queueScheduler{}
	u := New(app.Options{Scheduler: sched})

	if name, _ := u.pages.GetFrontPage(); name != pageHome {
		t.Fatalf("expected home page first, got %q", name)
	}
	if u.handleKey(key('c')) != nil {
		t.Fatalf("expected 'c' to be consumed")
	}
	if name, _ := u.pages.GetFrontPage(); name != pageGame {
		t.Fatalf("expected game page, got %q", name)
	}

	u.handleKey(key('5'))
	v := u.Session().View()
	if v.Board[4] != domain.X {
		t.Fatalf("expected X in the center, got %v", v.Board)
	}
	if u.cells[4].GetLabel() != "X" || u.cells[0].GetLabel() != "1" {
		t.Fatalf("unexpected labels %q %q", u.cells[4].GetLabel(), u.cells[0].GetLabel())
	}

	sched.flush()
	u.render(u.Session().View())
	if u.cells[0].GetLabel() != "O" {
		t.Fatalf("expected computer reply in cell 1, got %q", u.cells[0].GetLabel())
	}
	if got := u.status.GetText(true); got != "Current Player: X" {
		t.Fatalf("unexpected status %q", got)
	}

	u.handleKey(key('h'))
	if name, _ := u.pages.GetFrontPage(); name != pageHome {
		t.Fatalf("expected home after 'h', got %q", name)
	}
	if u.Session().View().Moves != 0 {
		t.Fatalf("expected board reset on home")
	}
}

func TestUIPassesUnknownKeys(t *testing.T) {
	u := New(app.Options{Scheduler: &queueScheduler{}})
	ev := tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
	if u.handleKey(ev) != ev {
		t.Fatalf("expected Enter to reach the focused widget")
	}
	if u.handleKey(key('z')) == nil {
		t.Fatalf("expected unbound rune to pass through")
	}
}

func TestCellLabel(t *testing.T) {
	if cellLabel(domain.Empty, 0) != "1" || cellLabel(domain.Empty, 8) != "9" {
		t.Fatalf("empty cells show their key")
	}
	if cellLabel(domain.O, 3) != "O" {
		t.Fatalf("marks show the mark")
	}
}

func newPlain(t *testing.T) (*Plain, *bytes.Buffer, *queueScheduler) {
	t.Helper()
	var buf bytes.Buffer
	sched := &queueScheduler{}
	p := NewPlain(&buf, app.Options{Scheduler: sched}, termenv.WithProfile(termenv.Ascii))
	return p, &buf, sched
}

func TestPlainGameAgainstComputer(t *testing.T) {
	p, buf, sched := newPlain(t)
	err := p.Run(context.Background(), strings.NewReader("5\n"), domain.HumanVsComputer)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sched.flush()
	out := buf.String()
	if !strings.Contains(out, " 1 | 2 | 3\n") {
		t.Fatalf("expected empty board on start, got:\n%s", out)
	}
	if !strings.Contains(out, " 4 | X | 6\n") {
		t.Fatalf("expected X in the center, got:\n%s", out)
	}
	if !strings.Contains(out, " O | 2 | 3\n") {
		t.Fatalf("expected computer reply in the corner, got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("ascii profile must not emit escapes")
	}
}

// endless never runs dry, so only done can stop the scanner.
type endless struct{}

func (endless) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = "1\n"[i%2]
	}
	return len(b), nil
}

func TestScanLinesStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	lines, _ := scanLines(endless{}, done)
	if got := <-lines; got != "1" {
		t.Fatalf("unexpected line %q", got)
	}
	close(done)
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("scanner goroutine kept running after done")
		}
	}
}

func TestPlainCommands(t *testing.T) {
	p, buf, sched := newPlain(t)
	p.Session().StartGame(domain.HumanVsHuman)
	for _, c := range []string{"1", "", "2", "nonsense"} {
		if !p.Handle(c) {
			t.Fatalf("%q should not quit", c)
		}
		sched.flush()
	}
	if v := p.Session().View(); v.Moves != 2 || v.Board[1] != domain.O {
		t.Fatalf("unexpected view %+v", v)
	}
	if !strings.Contains(buf.String(), "1-9 play a cell") {
		t.Fatalf("expected help after an unknown command")
	}
	p.Handle("h")
	if !strings.Contains(buf.String(), "Home.") {
		t.Fatalf("expected home notice")
	}
	p.Handle("p")
	if v := p.Session().View(); v.Phase != "playing" || v.Mode != "human" || v.Moves != 0 {
		t.Fatalf("unexpected view after new game %+v", v)
	}
	if p.Handle("q") {
		t.Fatalf("expected q to quit")
	}
}

func TestPlainGameOverMessage(t *testing.T) {
	p, buf, sched := newPlain(t)
	p.Session().StartGame(domain.HumanVsHuman)
	for _, c := range []string{"1", "4", "2", "5", "3"} {
		p.Handle(c)
		sched.flush()
	}
	if !strings.Contains(buf.String(), "X Wins!") {
		t.Fatalf("expected win message, got:\n%s", buf.String())
	}
}

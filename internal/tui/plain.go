package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/domain"
)

// Plain plays over line-based input, printing the board whenever a move
// lands or the game ends.
type Plain struct {
	out   *termenv.Output
	sess  *app.Session
	moves int
	phase string
}

// NewPlain writes to w using the colour profile termenv detects for it.
func NewPlain(w io.Writer, opts app.Options, outOpts ...termenv.OutputOption) *Plain {
	p := &Plain{out: termenv.NewOutput(w, outOpts...), moves: -1}
	opts.OnChange = p.onChange
	p.sess = app.NewSession("plain", opts)
	return p
}

// Session exposes the session driven by p.
func (p *Plain) Session() *app.Session { return p.sess }

// Run starts a game in mode and reads commands until EOF, "q" or ctx ends.
func (p *Plain) Run(ctx context.Context, in io.Reader, mode domain.Mode) error {
	p.help()
	p.sess.StartGame(mode)

	done := make(chan struct{})
	defer close(done)
	lines, errc := scanLines(in, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if !p.Handle(line) {
				return nil
			}
		}
	}
}

// scanLines feeds lines from in until EOF or until done is closed.
// lines is closed when the reader goroutine exits.
func scanLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// Handle applies one command and reports false when the user quits.
// Ignored moves print nothing.
func (p *Plain) Handle(line string) bool {
	cmd := strings.TrimSpace(strings.ToLower(line))
	switch {
	case cmd == "":
	case cmd == "q" || cmd == "quit":
		return false
	case cmd == "r" || cmd == "restart":
		p.sess.Restart()
	case cmd == "h" || cmd == "home":
		p.sess.GoHome()
	case cmd == "c" || cmd == "computer":
		p.sess.StartGame(domain.HumanVsComputer)
	case cmd == "p" || cmd == "human":
		p.sess.StartGame(domain.HumanVsHuman)
	case len(cmd) == 1 && cmd[0] >= '1' && cmd[0] <= '9':
		p.sess.Move(int(cmd[0] - '1'))
	default:
		p.help()
	}
	return true
}

func (p *Plain) help() {
	fmt.Fprintln(p.out, "1-9 play a cell, r restart, h home, c vs computer, p two players, q quit")
}

// onChange runs under the session lock; it only writes output.
func (p *Plain) onChange(v app.View) {
	if v.Phase == p.phase && v.Moves == p.moves {
		return
	}
	p.phase, p.moves = v.Phase, v.Moves
	if v.Phase == app.PhaseHome.String() {
		fmt.Fprintln(p.out, "Home. c: vs computer, p: two players, q: quit")
		return
	}
	fmt.Fprint(p.out, p.renderBoard(v.Board))
	fmt.Fprintln(p.out, p.out.String(v.Message).Bold())
}

func (p *Plain) renderBoard(b domain.Board) string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			i := r*3 + c
			sb.WriteString(" ")
			sb.WriteString(p.cell(b[i], i))
			if c < 2 {
				sb.WriteString(" |")
			}
		}
		sb.WriteString("\n")
		if r < 2 {
			sb.WriteString("---+---+---\n")
		}
	}
	return sb.String()
}

func (p *Plain) cell(c domain.Cell, i int) string {
	switch c {
	case domain.X:
		return p.out.String("X").Foreground(p.out.Color("#e06c75")).Bold().String()
	case domain.O:
		return p.out.String("O").Foreground(p.out.Color("#61afef")).Bold().String()
	default:
		return p.out.String(cellLabel(c, i)).Faint().String()
	}
}

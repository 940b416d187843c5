// Package tui is the terminal front-end: a tview board for interactive
// terminals and a line-oriented mode for pipes.
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/domain"
)

const (
	pageHome = "home"
	pageGame = "game"
)

// UI wires a session to a tview application.
type UI struct {
	app    *tview.Application
	pages  *tview.Pages
	cells  [9]*tview.Button
	status *tview.TextView
	board  *tview.Grid
	sess   *app.Session
}

// New builds the screens. opts.OnChange is replaced by the UI.
func New(opts app.Options) *UI {
	u := &UI{app: tview.NewApplication(), pages: tview.NewPages()}
	opts.OnChange = u.onChange
	u.sess = app.NewSession("tui", opts)

	u.pages.AddPage(pageHome, u.homePage(), true, true)
	u.pages.AddPage(pageGame, u.gamePage(), true, false)
	u.pages.SetBorder(true).SetTitle(" tic-tac-toe ")
	u.app.SetInputCapture(u.handleKey)
	return u
}

// Session exposes the session driven by the UI.
func (u *UI) Session() *app.Session { return u.sess }

// Run blocks until the user quits.
func (u *UI) Run() error {
	return u.app.SetRoot(u.pages, true).Run()
}

// Start jumps straight into a game, skipping the home screen.
func (u *UI) Start(mode domain.Mode) {
	u.sess.StartGame(mode)
	u.render(u.sess.View())
}

func (u *UI) homePage() tview.Primitive {
	vsComputer := tview.NewButton("Play vs Computer").SetSelectedFunc(func() { u.Start(domain.HumanVsComputer) })
	vsHuman := tview.NewButton("Two Players").SetSelectedFunc(func() { u.Start(domain.HumanVsHuman) })
	quit := tview.NewButton("Quit").SetSelectedFunc(u.app.Stop)

	hint := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("c: vs computer   p: two players   q: quit")

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(vsComputer, 3, 0, true).
		AddItem(vsHuman, 3, 0, false).
		AddItem(quit, 3, 0, false).
		AddItem(hint, 1, 0, false).
		AddItem(nil, 0, 1, false)
}

func (u *UI) gamePage() tview.Primitive {
	u.board = tview.NewGrid().SetRows(3, 3, 3).SetColumns(7, 7, 7).SetGap(1, 1)
	for i := range u.cells {
		i := i
		b := tview.NewButton(" ").SetSelectedFunc(func() { u.play(i) })
		u.cells[i] = b
		u.board.AddItem(b, i/3, i%3, 1, 1, 0, 0, i == 0)
	}
	u.status = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	u.status.SetBorder(true).SetTitle(" Status ")

	home := tview.NewButton("Home").SetSelectedFunc(u.goHome)
	hint := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("1-9: play   r: restart   h: home   q: quit")

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.board, 13, 0, true).
		AddItem(u.status, 3, 0, false).
		AddItem(home, 1, 0, false).
		AddItem(hint, 1, 0, false)
}

func (u *UI) play(i int) {
	if u.sess.Move(i) {
		u.render(u.sess.View())
	}
}

func (u *UI) goHome() {
	u.render(u.sess.GoHome())
}

// handleKey maps global shortcuts; unhandled keys reach the focused widget.
func (u *UI) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	r := ev.Rune()
	if r == 'q' {
		u.app.Stop()
		return nil
	}
	name, _ := u.pages.GetFrontPage()
	if name == pageHome {
		switch r {
		case 'c':
			u.Start(domain.HumanVsComputer)
			return nil
		case 'p':
			u.Start(domain.HumanVsHuman)
			return nil
		}
		return ev
	}
	switch {
	case r >= '1' && r <= '9':
		u.play(int(r - '1'))
		return nil
	case r == 'h':
		u.goHome()
		return nil
	case r == 'r':
		u.render(u.sess.Restart())
		return nil
	}
	return ev
}

// onChange runs under the session lock, so it only queues a redraw that
// reads a fresh view later.
func (u *UI) onChange(app.View) {
	go u.app.QueueUpdateDraw(func() { u.render(u.sess.View()) })
}

func (u *UI) render(v app.View) {
	if v.Phase == app.PhaseHome.String() {
		u.pages.SwitchToPage(pageHome)
		return
	}
	u.pages.SwitchToPage(pageGame)
	for i, b := range u.cells {
		b.SetLabel(cellLabel(v.Board[i], i))
	}
	u.status.SetText(v.Message)
}

// cellLabel shows the mark, or the key that plays an empty cell.
func cellLabel(c domain.Cell, i int) string {
	if c == domain.Empty {
		return string(rune('1' + i))
	}
	return c.String()
}

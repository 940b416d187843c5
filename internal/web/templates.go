package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string { return c.String() },
		"isEmpty":    func(c domain.Cell) bool { return c == domain.Empty },
		"add":        func(a, b int) int { return a + b },
		"mul":        func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

// boardData feeds the board fragment.
type boardData struct {
	ID   string
	View app.View
}

const indexTemplate = `<h1>Tic-Tac-Toe</h1>
<div id="home-screen">
  <form action="/game" method="post"><input type="hidden" name="mode" value="computer"><button data-mode="computer">Play vs Computer</button></form>
  <form action="/game" method="post"><input type="hidden" name="mode" value="human"><button data-mode="human">Two Players</button></form>
</div>`

const boardTemplate = `
<div id="board">
  {{if eq .View.Phase "home"}}
  <div class="status">Back on the home screen.</div>
  <a href="/">New game</a>
  {{else}}
  <div id="status" class="status">{{.View.Message}}</div>
  {{$id := .ID}}{{$v := .View}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}{{$cell := index $v.Board $i}}
      <form hx-post="/game/{{$id}}/play" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{$id}}/play">
        <input type="hidden" name="i" value="{{$i}}">
        <button class="cell" data-index="{{$i}}" type="submit"{{if or (not (isEmpty $cell)) (not $v.Accepting)}} disabled{{end}}>{{cellSymbol $cell}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form action="/game/{{$id}}/restart" method="post"><button class="restart-btn">Restart</button></form>
  <form action="/game/{{$id}}/home" method="post"><button class="home-btn">Home</button></form>
  {{end}}
</div>
`

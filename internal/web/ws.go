package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/domain"
)

const wsWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// intent is an inbound websocket message.
type intent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Mode  string `json:"mode,omitempty"`
}

// ws streams the game view as JSON after every change and forwards
// inbound intents to the session.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.svc.Session(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade", "game", id, "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var in intent
			if err := conn.ReadJSON(&in); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.log.Debugw("websocket read", "game", id, "error", err)
				}
				return
			}
			h.dispatch(sess, in)
		}
	}()

	if err := writeView(conn, sess.View()); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case _, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := writeView(conn, sess.View()); err != nil {
				h.log.Debugw("websocket write", "game", id, "error", err)
				return
			}
		}
	}
}

func (h *handlers) dispatch(sess *app.Session, in intent) {
	switch in.Type {
	case "move":
		sess.Move(in.Index)
	case "home":
		sess.GoHome()
	case "restart":
		sess.Restart()
	case "start":
		mode, err := domain.ParseMode(in.Mode)
		if err != nil {
			h.log.Debugw("websocket start rejected", "game", sess.ID(), "mode", in.Mode)
			return
		}
		sess.StartGame(mode)
	default:
		h.log.Debugw("websocket intent ignored", "game", sess.ID(), "type", in.Type)
	}
}

func writeView(conn *websocket.Conn, v app.View) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(v)
}

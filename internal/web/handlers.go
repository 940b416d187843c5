package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/domain"
	"github.com/jaminalder/tictactoe-minimax/internal/solver"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *zap.SugaredLogger
	heartbeat time.Duration
}

func (h *handlers) renderBoard(v app.View) []byte {
	return renderTemplate(h.tpl.board, "", boardData{ID: v.ID, View: v})
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	mode, err := domain.ParseMode(r.Form.Get("mode"))
	if err != nil {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}
	v, err := h.svc.CreateGame(mode)
	if err != nil {
		h.log.Errorw("create game", "error", err)
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+v.ID+"/", http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	v, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := boardData{ID: v.ID, View: v}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	// Render page with embedded board container
	_, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

// play forwards a cell click. Ignored clicks still get the current board.
func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	idx, err := strconv.Atoi(r.Form.Get("i"))
	if err != nil {
		idx = -1
	}
	v, accepted, err := h.svc.Move(id, idx)
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if !accepted {
		h.log.Debugw("move ignored", "game", id, "index", idx)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(v))
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Home(chi.URLParam(r, "id")); errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.Restart(id); errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/game/"+id+"/", http.StatusSeeOther)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Session(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, _ := h.svc.Subscribe(ctx, id)
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: board\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", oneLine(b))
			flusher.Flush()
		}
	}
}

func (h *handlers) apiGet(w http.ResponseWriter, r *http.Request) {
	v, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{ErrorDescription: app.ErrNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type hintBody struct {
	Side  string             `json:"side"`
	Best  int                `json:"best"`
	Moves []solver.MoveScore `json:"moves"`
}

// apiHint scores every free cell for the side to move.
func (h *handlers) apiHint(w http.ResponseWriter, r *http.Request) {
	v, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{ErrorDescription: app.ErrNotFound.Error()})
		return
	}
	if v.Status != domain.InProgress.String() {
		writeJSON(w, http.StatusConflict, errorBody{ErrorDescription: "game is over"})
		return
	}
	side := v.Board.ToMove()
	writeJSON(w, http.StatusOK, hintBody{
		Side:  side.String(),
		Best:  solver.BestMove(v.Board, side),
		Moves: solver.Analyze(v.Board, side),
	})
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "ok")
}

// oneLine keeps an SSE data field on a single line.
func oneLine(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == '\n' || c == '\r' {
			continue
		}
		out = append(out, c)
	}
	return out
}

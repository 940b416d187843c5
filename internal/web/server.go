package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
)

// DefaultHeartbeat spaces SSE keep-alive comments.
const DefaultHeartbeat = 15 * time.Second

// Options tunes the HTTP front-end.
type Options struct {
	Logger    *zap.SugaredLogger
	Heartbeat time.Duration
}

// NewServer wires routes and returns an http.Handler. It installs the
// board fragment renderer on s for SSE broadcasts.
func NewServer(s *app.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	h := &handlers{svc: s, tpl: loadTemplates(), log: opts.Logger, heartbeat: opts.Heartbeat}
	s.SetRenderer(h.renderBoard)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.Logger))

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/home", h.home)
		r.Post("/restart", h.restart)
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
	})
	r.Route("/api/game/{id}", func(r chi.Router) {
		r.Get("/", h.apiGet)
		r.Get("/hint", h.apiHint)
	})
	return r
}

// requestLogger logs one line per request through zap.
func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debugw("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

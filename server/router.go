package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"blackjack-tutor/server/alexa"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// pinger is whatever backs the session store, when there is one.
type pinger interface {
	Ping(ctx context.Context) error
}

func Router(d *alexa.Dispatcher, store pinger, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))

	// Health
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				log.Warn("health: session store unreachable", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": "session store unreachable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	// Voice webhook; the dispatcher throttles per user.
	r.Post("/alexa", d.ServeHTTP)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// Package httpapi exposes the conversation core over HTTP. It owns the
// per-session serialization the core requires: messages for one session are
// processed strictly one at a time, while sessions proceed in parallel.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tripweave/tripweave/flow"
	"github.com/tripweave/tripweave/form"
	"github.com/tripweave/tripweave/session"
)

const welcomeMessage = `Welcome to the travel planner!

I'll help you create a personalized travel itinerary. Just tell me about your trip naturally, and I'll collect all the details.

For example, you can say:
- "I want to visit Jaipur for 3 days with my family"
- "Planning a solo trip to Goa from March 15 to 20"

What destination are you dreaming of?`

type Server struct {
	store  session.Store
	flow   *flow.Controller
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func NewServer(store session.Store, fc *flow.Controller, opts ...Option) *Server {
	s := &Server{
		store:  store,
		flow:   fc,
		logger: slog.Default(),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sessionLock returns the mutex serializing one session's messages.
func (s *Server) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.createSession)
		r.Post("/chat", s.chat)
		r.Get("/form/{sessionID}", s.formStatus)
		r.Post("/form/{sessionID}", s.submitForm)
		r.Put("/form/{sessionID}", s.updateForm)
		r.Get("/itinerary/{sessionID}", s.itinerary)
		r.Get("/itinerary/{sessionID}/versions", s.itineraryVersions)
		r.Get("/messages/{sessionID}", s.messages)
	})
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, session.ErrFormLocked):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form is locked and cannot be modified"})
	default:
		var missing *flow.MissingRequiredError
		var invalid form.ValidationErrors
		if errors.As(err, &missing) {
			s.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":          missing.Error(),
				"missing_fields": missing.Fields,
			})
			return
		}
		if errors.As(err, &invalid) {
			s.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":          invalid.Error(),
				"invalid_fields": invalid,
			})
			return
		}
		s.logger.Error("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (s *Server) decode(r *http.Request, v any) error {
	return sonic.ConfigDefault.NewDecoder(r.Body).Decode(v)
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripweave/tripweave/session"
)

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess.AddMessage(session.RoleAssistant, welcomeMessage)
	if err := s.store.Update(r.Context(), sess); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, createSessionResponse{
		SessionID: sess.ID,
		Message:   welcomeMessage,
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	ResponseType string              `json:"response_type"`
	Message      string              `json:"message"`
	FormStatus   *session.FormStatus `json:"form_status,omitempty"`
	Itinerary    any                 `json:"itinerary,omitempty"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := s.decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// One message at a time per session; concurrent handlers would race on
	// the append-only lists and the state field.
	lock := s.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.flow.ProcessMessage(r.Context(), sess, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := chatResponse{
		ResponseType: string(resp.Kind),
		Message:      resp.Message,
		FormStatus:   sess.FormStatus(),
	}
	if resp.Itinerary != nil {
		out.Itinerary = resp.Itinerary
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) formStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.FormStatus())
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if err := s.decode(r, &updates); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	id := chi.URLParam(r, "sessionID")
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.flow.SubmitForm(r.Context(), sess, updates); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"form_locked": true,
		"form_status": sess.FormStatus(),
	})
}

type formUpdateRequest struct {
	FieldUpdates map[string]any `json:"field_updates"`
}

func (s *Server) updateForm(w http.ResponseWriter, r *http.Request) {
	var req formUpdateRequest
	if err := s.decode(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	id := chi.URLParam(r, "sessionID")
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.flow.ApplyFieldUpdates(r.Context(), sess, req.FieldUpdates, true); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"form_status": sess.FormStatus(),
	})
}

func (s *Server) itinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	current, ok := sess.CurrentItinerary()
	if !ok {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"itinerary": nil,
			"message":   "No itinerary generated yet",
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"itinerary":      current.Export(),
		"total_versions": len(sess.Itineraries),
	})
}

type versionSummary struct {
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	Summary   string `json:"summary"`
}

func (s *Server) itineraryVersions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	versions := make([]versionSummary, 0, len(sess.Itineraries))
	for _, it := range sess.Itineraries {
		versions = append(versions, versionSummary{
			Version:   it.Version,
			CreatedAt: it.CreatedAt.Format(time.RFC3339),
			Summary:   it.Summary,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"versions": versions})
}

func (s *Server) messages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"messages": sess.Messages})
}

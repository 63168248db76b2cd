// Package session owns the per-conversation aggregate: one constraint form,
// the append-only chat history, and the append-only itinerary version list.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/tripweave/tripweave/form"
	"github.com/tripweave/tripweave/itinerary"
)

type State string

const (
	StateCollecting   State = "collecting"
	StateFormComplete State = "form_complete"
	StatePlanning     State = "planning"
	StateIterating    State = "iterating"
	StateComplete     State = "complete"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	State      State `json:"state"`
	FormLocked bool  `json:"form_locked"`

	Form            form.Form `json:"form"`
	SoftPreferences []string  `json:"soft_preferences"`

	Messages    []ChatMessage         `json:"messages"`
	Itineraries []itinerary.Itinerary `json:"itineraries"`
}

func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		State:     StateCollecting,
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// AddMessage appends to the conversation history. Ordering is arrival order;
// messages are never rewritten.
func (s *Session) AddMessage(role, content string) ChatMessage {
	msg := ChatMessage{Role: role, Content: content, Timestamp: time.Now()}
	s.Messages = append(s.Messages, msg)
	s.touch()
	return msg
}

// AddSoftPreference records a free-text wish, skipping duplicates.
func (s *Session) AddSoftPreference(pref string) {
	if pref == "" {
		return
	}
	for _, existing := range s.SoftPreferences {
		if existing == pref {
			return
		}
	}
	s.SoftPreferences = append(s.SoftPreferences, pref)
	s.touch()
}

// MergeForm folds extracted values into the form, then fires the automatic
// COLLECTING to FORM_COMPLETE transition the instant the form became whole.
func (s *Session) MergeForm(partial form.Form) {
	s.Form = s.Form.MergeExtracted(partial)
	s.touch()
	s.checkComplete()
}

// OverwriteForm replaces fields unconditionally. Rejected once the form is
// locked; field constraint violations propagate unapplied.
func (s *Session) OverwriteForm(updates map[string]any) error {
	if s.FormLocked {
		return ErrFormLocked
	}
	updated, err := s.Form.OverwriteFields(updates)
	if err != nil {
		return err
	}
	s.Form = updated
	s.touch()
	s.checkComplete()
	return nil
}

func (s *Session) checkComplete() {
	if s.State == StateCollecting && s.Form.IsComplete() {
		s.State = StateFormComplete
	}
}

// Lock freezes the form as ground truth. The flag is monotonic; chat-driven
// extraction stops mutating the form from here on.
func (s *Session) Lock() {
	s.FormLocked = true
	s.touch()
}

// AddItinerary appends a new version. The version number is always derived
// from the list length, never trusted from the generator.
func (s *Session) AddItinerary(it itinerary.Itinerary) itinerary.Itinerary {
	it.Version = len(s.Itineraries) + 1
	s.Itineraries = append(s.Itineraries, it)
	s.touch()
	return it
}

// CurrentItinerary returns the latest version, if any exists.
func (s *Session) CurrentItinerary() (itinerary.Itinerary, bool) {
	if len(s.Itineraries) == 0 {
		return itinerary.Itinerary{}, false
	}
	return s.Itineraries[len(s.Itineraries)-1], true
}

// FormStatus is the form progress snapshot exposed to API clients.
type FormStatus struct {
	FilledFields  map[string]any `json:"filled_fields"`
	MissingFields []string       `json:"missing_fields"`
	IsComplete    bool           `json:"is_complete"`
	IsLocked      bool           `json:"is_locked"`
}

func (s *Session) FormStatus() *FormStatus {
	return &FormStatus{
		FilledFields:  s.Form.FilledFields(),
		MissingFields: s.Form.MissingFields(),
		IsComplete:    s.Form.IsComplete(),
		IsLocked:      s.FormLocked,
	}
}

// Package flow orchestrates a travel-planning conversation: it routes each
// inbound message through the session state machine, invokes extraction and
// planning, and folds recovered results back into the session. Generation
// and parsing faults never escape to the caller as errors; they come back as
// typed ERROR or degraded responses. Callers must serialize messages per
// session; different sessions are independent.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tripweave/tripweave/extract"
	"github.com/tripweave/tripweave/intent"
	"github.com/tripweave/tripweave/itinerary"
	"github.com/tripweave/tripweave/planner"
	"github.com/tripweave/tripweave/recovery"
	"github.com/tripweave/tripweave/session"
)

type Kind string

const (
	KindQuestion     Kind = "question"
	KindConfirmation Kind = "confirmation"
	KindReadyToPlan  Kind = "ready_to_plan"
	KindItinerary    Kind = "itinerary"
	KindModification Kind = "modification"
	KindError        Kind = "error"
)

type Response struct {
	Kind       Kind                `json:"response_type"`
	Message    string              `json:"message"`
	FormStatus *session.FormStatus `json:"form_status,omitempty"`
	Itinerary  *itinerary.Export   `json:"itinerary,omitempty"`
}

type Controller struct {
	store      session.Store
	extractor  *extract.Extractor
	planner    *planner.Planner
	classifier *intent.Classifier
	logger     *slog.Logger
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController wires the collaborators explicitly; there are no package
// level singletons.
func NewController(store session.Store, ex *extract.Extractor, pl *planner.Planner, cl *intent.Classifier, opts ...Option) *Controller {
	c := &Controller{
		store:      store,
		extractor:  ex,
		planner:    pl,
		classifier: cl,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessMessage drives one conversation turn. The returned error is
// reserved for store faults; everything the backend gets wrong surfaces as a
// typed response instead.
func (c *Controller) ProcessMessage(ctx context.Context, s *session.Session, userText string) (*Response, error) {
	s.AddMessage(session.RoleUser, userText)

	// A locked form is frozen ground truth: skip collection entirely and
	// route the session to the confirmation/planning handlers.
	if s.FormLocked && s.State == session.StateCollecting {
		s.State = session.StateFormComplete
		if err := c.store.Update(ctx, s); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("processing message", "session", s.ID, "state", s.State)

	switch s.State {
	case session.StateCollecting:
		return c.handleCollecting(ctx, s, userText)
	case session.StateFormComplete:
		return c.handleFormComplete(ctx, s, userText)
	case session.StatePlanning, session.StateIterating, session.StateComplete:
		return c.handlePostPlanning(ctx, s, userText)
	default:
		return c.respond(ctx, s, &Response{
			Kind:    KindError,
			Message: fmt.Sprintf("Unknown session state %q. Please start a new session.", s.State),
		})
	}
}

func (c *Controller) handleCollecting(ctx context.Context, s *session.Session, userText string) (*Response, error) {
	partial, softPrefs, err := c.extractor.Extract(ctx, userText, s.Form)
	if err != nil {
		return c.backendError(ctx, s, err)
	}
	for _, pref := range softPrefs {
		s.AddSoftPreference(pref)
	}
	extracted := partial.FilledFields()
	s.MergeForm(partial)
	if err := c.store.Update(ctx, s); err != nil {
		return nil, err
	}

	if s.State == session.StateFormComplete {
		message := formSummary(s.Form) +
			"\n\nAll information collected! Would you like me to generate your itinerary?"
		return c.respond(ctx, s, &Response{
			Kind:       KindReadyToPlan,
			Message:    message,
			FormStatus: s.FormStatus(),
		})
	}

	missing := s.Form.MissingFields()
	return c.respond(ctx, s, &Response{
		Kind:       KindQuestion,
		Message:    nextQuestion(missing, extracted),
		FormStatus: s.FormStatus(),
	})
}

func (c *Controller) handleFormComplete(ctx context.Context, s *session.Session, userText string) (*Response, error) {
	if c.classifier.IsConfirmation(userText) {
		s.Lock()
		s.State = session.StatePlanning
		if err := c.store.Update(ctx, s); err != nil {
			return nil, err
		}

		it, err := c.planner.Generate(ctx, s.Form, s.SoftPreferences)
		if err != nil {
			var failure *recovery.ParseFailure
			if !errors.As(err, &failure) {
				s.State = session.StateFormComplete
				_ = c.store.Update(ctx, s)
				return c.backendError(ctx, s, err)
			}
			c.logger.Warn("planner output unrecoverable, substituting degraded plan",
				"session", s.ID, "log_id", failure.LogID)
			it = itinerary.Degraded(failure.Error())
		}
		appended := s.AddItinerary(it)
		s.State = session.StateComplete
		if err := c.store.Update(ctx, s); err != nil {
			return nil, err
		}

		message := "Your itinerary is ready!\n\n" + itinerarySummary(appended) +
			"\n\nWould you like me to make any changes?"
		return c.respond(ctx, s, &Response{
			Kind:      KindItinerary,
			Message:   message,
			Itinerary: appended.Export(),
		})
	}

	// Not a go-ahead. The form stays frozen for hard fields, but soft
	// preferences are still welcome.
	_, softPrefs, err := c.extractor.Extract(ctx, userText, s.Form)
	if err != nil {
		return c.backendError(ctx, s, err)
	}
	for _, pref := range softPrefs {
		s.AddSoftPreference(pref)
	}
	if err := c.store.Update(ctx, s); err != nil {
		return nil, err
	}

	message := "Your travel information is complete! Say 'generate' or 'yes' to create your itinerary."
	if len(softPrefs) > 0 {
		message = fmt.Sprintf("Noted your preferences: %s\n\nReady to generate your itinerary. Just say 'yes' or 'generate'!",
			strings.Join(softPrefs, ", "))
	}
	return c.respond(ctx, s, &Response{
		Kind:       KindConfirmation,
		Message:    message,
		FormStatus: s.FormStatus(),
	})
}

func (c *Controller) handlePostPlanning(ctx context.Context, s *session.Session, userText string) (*Response, error) {
	current, ok := s.CurrentItinerary()
	if !ok {
		return c.respond(ctx, s, &Response{
			Kind:    KindError,
			Message: "No itinerary found. Please start over.",
		})
	}

	// Extraction is the expensive signal, so the classifier asks for it
	// lazily: only when the textual rules could not already decide.
	var prefs []string
	hardFields := func() bool {
		p, sp, err := c.extractor.Extract(ctx, userText, s.Form)
		if err != nil {
			c.logger.Debug("post-planning extraction failed, treating as empty", "error", err)
			return false
		}
		prefs = sp
		return extract.HasHardFields(p)
	}

	if c.classifier.Classify(userText, hardFields) == intent.Question {
		answer, err := c.planner.AnswerQuestion(ctx, current, userText, strings.Join(s.Form.Destinations, ", "))
		if err != nil {
			return c.backendError(ctx, s, err)
		}
		return c.respond(ctx, s, &Response{
			Kind:      KindQuestion,
			Message:   answer,
			Itinerary: current.Export(),
		})
	}

	for _, pref := range prefs {
		s.AddSoftPreference(pref)
	}

	s.State = session.StateIterating
	if err := c.store.Update(ctx, s); err != nil {
		return nil, err
	}

	next, err := c.planner.Modify(ctx, current, s.Form, userText, s.SoftPreferences)
	if err != nil {
		var failure *recovery.ParseFailure
		if !errors.As(err, &failure) {
			s.State = session.StateComplete
			_ = c.store.Update(ctx, s)
			return c.backendError(ctx, s, err)
		}
		c.logger.Warn("modification output unrecoverable, substituting degraded plan",
			"session", s.ID, "log_id", failure.LogID)
		next = itinerary.Degraded(failure.Error())
		next.Version = current.Version + 1
	}

	if next.Version <= current.Version {
		// The backend could not identify an applicable change; answer
		// conversationally and leave the version list untouched.
		s.State = session.StateComplete
		if err := c.store.Update(ctx, s); err != nil {
			return nil, err
		}
		message := next.ChangeSummary
		if message == "" {
			message = "I couldn't apply that change given the constraints. Could you rephrase?"
		}
		return c.respond(ctx, s, &Response{
			Kind:      KindQuestion,
			Message:   message,
			Itinerary: current.Export(),
		})
	}

	appended := s.AddItinerary(next)
	s.State = session.StateComplete
	if err := c.store.Update(ctx, s); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Itinerary updated (Version %d)!\n\n", appended.Version)
	if appended.ChangeSummary != "" {
		b.WriteString(appended.ChangeSummary + "\n\n")
	} else if len(appended.ChangesMade) > 0 {
		b.WriteString("Changes made:\n")
		for _, change := range appended.ChangesMade {
			b.WriteString("- " + change + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(itinerarySummary(appended))
	b.WriteString("\n\nWould you like any other changes?")
	return c.respond(ctx, s, &Response{
		Kind:      KindModification,
		Message:   b.String(),
		Itinerary: appended.Export(),
	})
}

// respond appends the assistant turn to the history, persists, and returns
// the typed response.
func (c *Controller) respond(ctx context.Context, s *session.Session, resp *Response) (*Response, error) {
	s.AddMessage(session.RoleAssistant, resp.Message)
	if err := c.store.Update(ctx, s); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Controller) backendError(ctx context.Context, s *session.Session, err error) (*Response, error) {
	c.logger.Error("generation backend failure", "session", s.ID, "error", err)
	return c.respond(ctx, s, &Response{
		Kind:    KindError,
		Message: "I hit a problem reaching the planning backend. Please try again in a moment.",
	})
}

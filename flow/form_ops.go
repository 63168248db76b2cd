package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripweave/tripweave/form"
	"github.com/tripweave/tripweave/session"
)

// submissionRequired is the fixed field set a direct form submission must
// carry. Submission is rejected listing every absent member.
var submissionRequired = []string{
	"destinations", "group_type", "traveler_count", "trip_duration_days",
	"start_date", "end_date", "daily_start_time", "daily_end_time",
	"sightseeing_pace", "travel_mode",
}

// MissingRequiredError rejects a form submission that lacks mandatory keys.
type MissingRequiredError struct {
	Fields []string
}

func (e *MissingRequiredError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ApplyFieldUpdates is the direct form entry point, bypassing extraction.
// With overwrite set, values replace existing ones and constraint failures
// are hard per-field errors; without it, only unset fields are filled and
// invalid values are dropped. Both paths reject a locked form.
func (c *Controller) ApplyFieldUpdates(ctx context.Context, s *session.Session, updates map[string]any, overwrite bool) error {
	if s.FormLocked {
		return session.ErrFormLocked
	}
	if overwrite {
		if err := s.OverwriteForm(updates); err != nil {
			return err
		}
	} else {
		s.MergeForm(form.FromMap(updates))
	}
	return c.store.Update(ctx, s)
}

// SubmitForm applies a complete direct submission and locks the form, the
// form-first path that skips chat collection entirely.
func (c *Controller) SubmitForm(ctx context.Context, s *session.Session, updates map[string]any) error {
	if s.FormLocked {
		return session.ErrFormLocked
	}
	var missing []string
	for _, name := range submissionRequired {
		if v, ok := updates[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingRequiredError{Fields: missing}
	}
	if err := s.OverwriteForm(updates); err != nil {
		return fmt.Errorf("apply submission: %w", err)
	}
	s.Lock()
	if s.State == session.StateCollecting {
		s.State = session.StateFormComplete
	}
	return c.store.Update(ctx, s)
}

// Package extract pulls hard constraint fields and soft preferences out of
// free-form user messages. Values the generator got wrong are extraction
// noise: dropped quietly, never surfaced to the conversation.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/schema"

	"github.com/tripweave/tripweave/form"
	"github.com/tripweave/tripweave/llm"
	"github.com/tripweave/tripweave/prompt"
	"github.com/tripweave/tripweave/recovery"
)

const systemPrompt = `You are a travel information extractor. Your ONLY job is to extract travel planning facts from user messages and return them as JSON.

STRICT RULES:
1. Extract ONLY what the user explicitly states
2. Return null for any field not mentioned
3. Do NOT guess or infer missing values
4. Do NOT ask questions
5. Do NOT plan trips or give suggestions
6. Return ONLY valid JSON matching the exact field names below

FIELDS TO EXTRACT (use exact field names):
- trip_duration_days: integer (number of days)
- trip_duration_nights: integer (number of nights)
- traveler_count: integer (how many people)
- group_type: "solo" | "couple" | "family" | "friends" | "group" | "business"
- destinations: array of strings (places to visit)
- start_date: "YYYY-MM-DD" format
- end_date: "YYYY-MM-DD" format
- daily_start_time: "HH:MM" format (when to start daily activities)
- daily_end_time: "HH:MM" format (when to end daily activities)
- weather_preference: "any" | "sunny" | "cloudy" | "mild"
- closed_days_restrictions: array of strings (days/dates to avoid)
- local_guidelines: string (any local rules mentioned)
- max_travel_distance_km: integer (max daily travel in km)
- sightseeing_pace: "relaxed" | "moderate" | "packed"
- cab_pickup_required: boolean
- hotel_checkin_time: "HH:MM" format
- hotel_checkout_time: "HH:MM" format
- traffic_consideration: boolean
- travel_mode: "driving" | "walking" | "public_transport" | "mixed"

ALSO EXTRACT:
- soft_preferences: array of strings (any preferences, wishes, or "I prefer..." statements that don't fit the above fields)

Respond with ONLY a JSON object. No explanations.`

type Extractor struct {
	gen llm.Generator
}

func New(gen llm.Generator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract returns the hard-field partial and soft preferences found in the
// message. An unrecoverable generator payload yields an empty partial, not
// an error; a transport failure is returned as one.
func (e *Extractor) Extract(ctx context.Context, message string, current form.Form) (form.Form, []string, error) {
	user := prompt.Join(
		"CONTEXT:",
		prompt.CurrentDateSection(),
		prompt.FormStateSection(current),
		prompt.MissingFieldsSection(current.MissingFields()),
		fmt.Sprintf("USER MESSAGE:\n%s", message),
	)
	raw, err := e.gen.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(user),
	})
	if err != nil {
		return form.Form{}, nil, fmt.Errorf("extraction call: %w", err)
	}

	doc, err := recovery.Parse(raw)
	if err != nil {
		var failure *recovery.ParseFailure
		if errors.As(err, &failure) {
			slog.Debug("extraction output unrecoverable, treating as empty", "log_id", failure.LogID)
			return form.Form{}, nil, nil
		}
		return form.Form{}, nil, err
	}

	partial := cleanDocument(doc)
	prefs, _ := doc.Strings("soft_preferences")
	return partial, prefs, nil
}

// HasHardFields reports whether the partial carries any non-null mandatory
// field, the signal the intent fallback rule consumes.
func HasHardFields(partial form.Form) bool {
	return len(partial.FilledFields()) > 0
}

// Package planner drives the itinerary-generation prompts and turns the
// recovered output into typed itinerary versions.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"

	"github.com/tripweave/tripweave/form"
	"github.com/tripweave/tripweave/itinerary"
	"github.com/tripweave/tripweave/llm"
	"github.com/tripweave/tripweave/prompt"
	"github.com/tripweave/tripweave/recovery"
)

const systemPrompt = `You are a travel itinerary planner. Generate a realistic, day-wise travel itinerary.

YOUR JOB:
1. Create a detailed day-by-day plan
2. Ensure all activities fit within the given time constraints
3. Never exceed maximum travel distances
4. Create realistic, achievable schedules

STRICT RULES - FOLLOW ALL HARD CONSTRAINTS:
- NEVER exceed max_travel_distance_km per day
- ALWAYS respect daily_start_time and daily_end_time
- Match the sightseeing_pace (relaxed=3-4 activities, moderate=5-6, packed=7-8 per day)
- Account for hotel check-in on first day and check-out on last day
- If traffic_consideration is true, add buffer time for travel
- Consider the travel_mode for realistic transit times

SOFT PREFERENCES:
Apply these ONLY if they don't conflict with hard constraints. If a preference conflicts, ignore it.

OUTPUT FORMAT - Return ONLY valid JSON:
{
  "summary": "Brief 1-2 sentence trip summary",
  "days": [
    {
      "day_number": 1,
      "date": "YYYY-MM-DD",
      "theme": "Day theme or focus",
      "activities": [
        {
          "time_slot": "HH:MM - HH:MM",
          "location": "Place name",
          "activity_type": "sightseeing|meal|travel|rest|shopping|adventure|cultural|checkin|checkout",
          "description": "What to do there",
          "travel_distance_km": 0.0,
          "duration_minutes": 60,
          "notes": "Optional tips"
        }
      ],
      "total_distance_km": 0.0
    }
  ],
  "change_summary": "For modifications: one sentence on what changed",
  "changes_made": ["for modifications: list of changes"],
  "soft_preferences_applied": ["list of preferences that were used"],
  "soft_preferences_ignored": ["list of preferences ignored due to conflicts"]
}`

type Planner struct {
	gen llm.Generator
}

func New(gen llm.Generator) *Planner {
	return &Planner{gen: gen}
}

// Generate produces the first itinerary for a completed form. The returned
// version number is zero; the session assigns it on append.
func (p *Planner) Generate(ctx context.Context, f form.Form, softPrefs []string) (itinerary.Itinerary, error) {
	user := prompt.Join(
		"HARD CONSTRAINTS (MUST follow):\n"+prompt.ConstraintsSection(f),
		prompt.SoftPreferencesSection(softPrefs),
		"Generate the itinerary now.",
	)
	doc, err := p.invoke(ctx, user)
	if err != nil {
		return itinerary.Itinerary{}, err
	}
	return buildItinerary(doc), nil
}

// Modify asks for a revised plan. When the generator produced no day plans
// the request is considered not applicable: the returned version equals the
// current one and the caller answers conversationally instead of appending.
func (p *Planner) Modify(ctx context.Context, current itinerary.Itinerary, f form.Form, request string, softPrefs []string) (itinerary.Itinerary, error) {
	currentJSON, err := sonic.MarshalString(current.Export())
	if err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("encode current itinerary: %w", err)
	}
	user := prompt.Join(
		"HARD CONSTRAINTS (still apply):\n"+prompt.ConstraintsSection(f),
		"CURRENT ITINERARY:\n"+currentJSON,
		"MODIFICATION REQUEST:\n"+request,
		prompt.SoftPreferencesSection(softPrefs),
		"Generate the modified itinerary. Remember: constraints cannot be violated even for modifications.",
	)
	doc, err := p.invoke(ctx, user)
	if err != nil {
		return itinerary.Itinerary{}, err
	}
	next := buildItinerary(doc)
	if len(next.Days) == 0 {
		next.Version = current.Version
	} else {
		next.Version = current.Version + 1
	}
	return next, nil
}

// AnswerQuestion responds to an informational question about the current
// plan without touching it.
func (p *Planner) AnswerQuestion(ctx context.Context, it itinerary.Itinerary, question, destination string) (string, error) {
	if destination == "" {
		destination = "your destination"
	}
	var context strings.Builder
	fmt.Fprintf(&context, "Destination: %s\n", destination)
	fmt.Fprintf(&context, "Trip Summary: %s\n", it.Summary)
	for _, day := range it.Days {
		theme := day.Theme
		if theme == "" {
			theme = "Exploration"
		}
		fmt.Fprintf(&context, "Day %d: %s\n", day.DayNumber, theme)
		for _, act := range day.Activities {
			fmt.Fprintf(&context, "- %s: %s (%s)\n", act.TimeSlot, act.Location, act.Type)
		}
	}
	system := fmt.Sprintf("You are a helpful travel assistant for %s. Answer the user's question based on the provided itinerary context. Keep answers regular length (2-3 sentences).", destination)
	answer, err := p.gen.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(fmt.Sprintf("USER QUESTION: %s\n\nITINERARY CONTEXT:\n%s", question, context.String())),
	})
	if err != nil {
		return "", fmt.Errorf("question call: %w", err)
	}
	return answer, nil
}

func (p *Planner) invoke(ctx context.Context, user string) (recovery.Document, error) {
	raw, err := p.gen.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(user),
	})
	if err != nil {
		return nil, fmt.Errorf("planning call: %w", err)
	}
	return recovery.Parse(raw)
}

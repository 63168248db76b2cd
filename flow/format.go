package flow

import (
	"fmt"
	"strings"

	"github.com/tripweave/tripweave/form"
	"github.com/tripweave/tripweave/itinerary"
)

// priorityFields orders the follow-up questions so the conversation nails
// the trip skeleton before logistics details.
var priorityFields = []string{
	"destinations", "trip_duration_days", "start_date", "end_date",
	"traveler_count", "group_type", "daily_start_time", "daily_end_time",
	"sightseeing_pace", "travel_mode",
}

// nextQuestion acknowledges what was just extracted, asks about the highest
// priority missing field, and appends a progress line.
func nextQuestion(missing []string, justExtracted map[string]any) string {
	var parts []string

	if len(justExtracted) > 0 {
		acks := make([]string, 0, 3)
		for _, name := range form.FieldNames() {
			value, ok := justExtracted[name]
			if !ok {
				continue
			}
			acks = append(acks, fmt.Sprintf("%s: %s", titleize(name), formatValue(value)))
			if len(acks) == 3 {
				break
			}
		}
		if len(acks) > 0 {
			parts = append(parts, "Got it! "+strings.Join(acks, ", "))
		}
	}

	next := ""
	missingSet := make(map[string]bool, len(missing))
	for _, name := range missing {
		missingSet[name] = true
	}
	for _, name := range priorityFields {
		if missingSet[name] {
			next = name
			break
		}
	}
	if next == "" && len(missing) > 0 {
		next = missing[0]
	}
	if next != "" {
		parts = append(parts, form.Question(next))
	}

	filled := form.FieldCount - len(missing)
	parts = append(parts, fmt.Sprintf("Progress: %d/%d fields complete", filled, form.FieldCount))

	return strings.Join(parts, "\n\n")
}

// formSummary renders the headline trip details once the form is complete.
func formSummary(f form.Form) string {
	filled := f.FilledFields()
	lines := []string{"Your trip details:"}
	for _, name := range []string{
		"destinations", "trip_duration_days", "start_date", "end_date",
		"traveler_count", "group_type", "sightseeing_pace", "travel_mode",
	} {
		if value, ok := filled[name]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", titleize(name), formatValue(value)))
		}
	}
	return strings.Join(lines, "\n")
}

const summaryActivityLimit = 4

func itinerarySummary(it itinerary.Itinerary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", it.Summary)
	fmt.Fprintf(&b, "%d days | %.1f km total\n", len(it.Days), it.TotalDistance())
	for _, day := range it.Days {
		title := day.Theme
		if title == "" {
			title = day.Date
		}
		fmt.Fprintf(&b, "\nDay %d - %s", day.DayNumber, title)
		for i, act := range day.Activities {
			if i == summaryActivityLimit {
				fmt.Fprintf(&b, "\n  ... and %d more activities", len(day.Activities)-summaryActivityLimit)
				break
			}
			fmt.Fprintf(&b, "\n  - %s: %s", act.TimeSlot, act.Location)
		}
	}
	return b.String()
}

func formatValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func titleize(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

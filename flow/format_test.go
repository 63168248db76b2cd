package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripweave/tripweave/itinerary"
)

func TestNextQuestionPrefersPriorityFields(t *testing.T) {
	// weather_preference comes before travel_mode in the catalog, but
	// travel_mode is a priority field and wins the next question.
	msg := nextQuestion([]string{"weather_preference", "travel_mode"}, nil)
	assert.Contains(t, msg, "preferred mode of travel")
	assert.Contains(t, msg, "Progress: 17/19 fields complete")
}

func TestNextQuestionFallsBackToCatalogOrder(t *testing.T) {
	msg := nextQuestion([]string{"weather_preference", "local_guidelines"}, nil)
	assert.Contains(t, msg, "weather preference")
}

func TestNextQuestionAcknowledgesAtMostThree(t *testing.T) {
	extracted := map[string]any{
		"trip_duration_days": float64(3),
		"traveler_count":     float64(2),
		"group_type":         "couple",
		"sightseeing_pace":   "moderate",
	}
	msg := nextQuestion([]string{"destinations"}, extracted)
	assert.Contains(t, msg, "Got it!")
	assert.Contains(t, msg, "Trip Duration Days: 3")
	assert.Contains(t, msg, "Group Type: couple")
	// Fourth acknowledgment is cut.
	assert.NotContains(t, msg, "Sightseeing Pace")
}

func TestItinerarySummaryCapsActivities(t *testing.T) {
	day := itinerary.DayPlan{DayNumber: 1, Theme: "Busy day"}
	for i := 0; i < 6; i++ {
		day.Activities = append(day.Activities, itinerary.Activity{
			TimeSlot: "09:00 - 10:00", Location: "Stop",
		})
	}
	it := itinerary.Itinerary{Summary: "Packed trip", Days: []itinerary.DayPlan{day}}

	out := itinerarySummary(it)
	assert.Contains(t, out, "Day 1 - Busy day")
	assert.Contains(t, out, "... and 2 more activities")
}

func TestTitleize(t *testing.T) {
	assert.Equal(t, "Trip Duration Days", titleize("trip_duration_days"))
	assert.Equal(t, "Destinations", titleize("destinations"))
}

func TestFormatValueJoinsLists(t *testing.T) {
	assert.Equal(t, "Goa, Mumbai", formatValue([]any{"Goa", "Mumbai"}))
	assert.Equal(t, "3", formatValue(float64(3)))
}

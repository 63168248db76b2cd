package planner

import (
	"time"

	"github.com/tripweave/tripweave/itinerary"
	"github.com/tripweave/tripweave/recovery"
)

// buildItinerary converts a recovered document into a typed itinerary. An
// activity that survived truncation repair without both a time slot and a
// location is an incomplete fragment and is dropped rather than padded with
// guessed values. Day distances are always recomputed from the activities.
func buildItinerary(doc recovery.Document) itinerary.Itinerary {
	it := itinerary.Itinerary{
		CreatedAt: time.Now(),
		Summary:   "Travel itinerary",
	}
	if summary, ok := doc.String("summary"); ok && summary != "" {
		it.Summary = summary
	}
	if s, ok := doc.String("change_summary"); ok {
		it.ChangeSummary = s
	}
	if list, ok := doc.Strings("changes_made"); ok {
		it.ChangesMade = list
	}
	if list, ok := doc.Strings("soft_preferences_applied"); ok {
		it.SoftPreferencesApplied = list
	}
	if list, ok := doc.Strings("soft_preferences_ignored"); ok {
		it.SoftPreferencesIgnored = list
	}

	for i, dayDoc := range doc.Objects("days") {
		day := itinerary.DayPlan{DayNumber: i + 1}
		if n, ok := dayDoc.Number("day_number"); ok {
			day.DayNumber = int(n)
		}
		if s, ok := dayDoc.String("date"); ok {
			day.Date = s
		}
		if s, ok := dayDoc.String("theme"); ok {
			day.Theme = s
		}
		for _, actDoc := range dayDoc.Objects("activities") {
			if act, ok := buildActivity(actDoc); ok {
				day.Activities = append(day.Activities, act)
			}
		}
		day.RecomputeDistance()
		it.Days = append(it.Days, day)
	}
	return it
}

func buildActivity(doc recovery.Document) (itinerary.Activity, bool) {
	timeSlot, hasTime := doc.String("time_slot")
	location, hasLocation := doc.String("location")
	if !hasTime || !hasLocation || timeSlot == "" || location == "" {
		return itinerary.Activity{}, false
	}
	act := itinerary.Activity{
		TimeSlot:        timeSlot,
		Location:        location,
		Type:            itinerary.ActivitySightseeing,
		DurationMinutes: 60,
	}
	if s, ok := doc.String("activity_type"); ok {
		act.Type = itinerary.NormalizeActivityType(s)
	}
	if s, ok := doc.String("description"); ok {
		act.Description = s
	}
	if n, ok := doc.Number("travel_distance_km"); ok && n >= 0 {
		act.TravelDistanceKm = n
	}
	if n, ok := doc.Number("duration_minutes"); ok && n >= 0 {
		act.DurationMinutes = int(n)
	}
	if s, ok := doc.String("notes"); ok {
		act.Notes = s
	}
	return act, true
}

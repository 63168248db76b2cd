package itinerary

import (
	"fmt"
	"time"
)

type ActivityType string

const (
	ActivitySightseeing ActivityType = "sightseeing"
	ActivityMeal        ActivityType = "meal"
	ActivityTravel      ActivityType = "travel"
	ActivityRest        ActivityType = "rest"
	ActivityShopping    ActivityType = "shopping"
	ActivityAdventure   ActivityType = "adventure"
	ActivityCultural    ActivityType = "cultural"
	ActivityCheckin     ActivityType = "checkin"
	ActivityCheckout    ActivityType = "checkout"
)

var validActivityTypes = map[ActivityType]bool{
	ActivitySightseeing: true,
	ActivityMeal:        true,
	ActivityTravel:      true,
	ActivityRest:        true,
	ActivityShopping:    true,
	ActivityAdventure:   true,
	ActivityCultural:    true,
	ActivityCheckin:     true,
	ActivityCheckout:    true,
}

// NormalizeActivityType maps free-form type tags to a known ActivityType,
// falling back to sightseeing for anything unrecognized.
func NormalizeActivityType(s string) ActivityType {
	t := ActivityType(s)
	if validActivityTypes[t] {
		return t
	}
	return ActivitySightseeing
}

type Activity struct {
	TimeSlot         string       `json:"time_slot"`
	Location         string       `json:"location"`
	Type             ActivityType `json:"activity_type"`
	Description      string       `json:"description"`
	TravelDistanceKm float64      `json:"travel_distance_km"`
	DurationMinutes  int          `json:"duration_minutes"`
	Notes            string       `json:"notes,omitempty"`
}

type DayPlan struct {
	DayNumber       int        `json:"day_number"`
	Date            string     `json:"date"`
	Theme           string     `json:"theme,omitempty"`
	Activities      []Activity `json:"activities"`
	TotalDistanceKm float64    `json:"total_distance_km"`
}

// RecomputeDistance derives TotalDistanceKm from the activities. The stored
// value is never authored independently.
func (d *DayPlan) RecomputeDistance() float64 {
	var total float64
	for _, a := range d.Activities {
		total += a.TravelDistanceKm
	}
	d.TotalDistanceKm = total
	return total
}

// Itinerary is one immutable plan version. Modifications append a new
// version; existing versions are never edited in place.
type Itinerary struct {
	Version                int       `json:"version"`
	CreatedAt              time.Time `json:"created_at"`
	Summary                string    `json:"summary"`
	Days                   []DayPlan `json:"days"`
	SoftPreferencesApplied []string  `json:"soft_preferences_applied,omitempty"`
	SoftPreferencesIgnored []string  `json:"soft_preferences_ignored,omitempty"`
	ChangesMade            []string  `json:"changes_made,omitempty"`
	ChangeSummary          string    `json:"change_summary,omitempty"`
}

func (it Itinerary) TotalDistance() float64 {
	var total float64
	for _, d := range it.Days {
		total += d.TotalDistanceKm
	}
	return total
}

// Degraded builds the zero-length plan substituted when the planner backend
// produced unrecoverable output. The conversation keeps progressing; the
// failure reason is visible in the summary.
func Degraded(reason string) Itinerary {
	return Itinerary{
		CreatedAt:     time.Now(),
		Summary:       fmt.Sprintf("Itinerary generation failed: %s. Please try again.", reason),
		Days:          nil,
		ChangeSummary: "",
	}
}

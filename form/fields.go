package form

import (
	"fmt"
	"math"
	"time"
)

type GroupType string

const (
	GroupSolo     GroupType = "solo"
	GroupCouple   GroupType = "couple"
	GroupFamily   GroupType = "family"
	GroupFriends  GroupType = "friends"
	GroupGroup    GroupType = "group"
	GroupBusiness GroupType = "business"
)

type WeatherPreference string

const (
	WeatherAny    WeatherPreference = "any"
	WeatherSunny  WeatherPreference = "sunny"
	WeatherCloudy WeatherPreference = "cloudy"
	WeatherMild   WeatherPreference = "mild"
)

type SightseeingPace string

const (
	PaceRelaxed  SightseeingPace = "relaxed"
	PaceModerate SightseeingPace = "moderate"
	PacePacked   SightseeingPace = "packed"
)

type TravelMode string

const (
	ModeDriving       TravelMode = "driving"
	ModeWalking       TravelMode = "walking"
	ModePublicTransit TravelMode = "public_transport"
	ModeMixed         TravelMode = "mixed"
)

// fieldSpec describes one mandatory form field: its JSON key, the follow-up
// question asked while it is missing, and the constraint applied to any
// JSON-shaped value written into it.
type fieldSpec struct {
	name     string
	question string
	validate func(v any) error
}

// fieldCatalog fixes the declaration order used by MissingFields and by
// deterministic error listings.
var fieldCatalog = []fieldSpec{
	{"trip_duration_days", "How many days will your trip be?", intRange(1, 30)},
	{"trip_duration_nights", "How many nights will you stay?", intRange(0, 30)},
	{"traveler_count", "How many people will be traveling?", intRange(1, 50)},
	{"group_type", "What type of group is this? (solo, couple, family, friends, group, or business)",
		oneOf("solo", "couple", "family", "friends", "group", "business")},
	{"destinations", "Which destinations would you like to visit?", stringList(1)},
	{"start_date", "What is your trip start date?", dateValue},
	{"end_date", "What is your trip end date?", dateValue},
	{"daily_start_time", "What time would you like to start your activities each day?", timeValue},
	{"daily_end_time", "What time would you like to end your activities each day?", timeValue},
	{"weather_preference", "Do you have a weather preference? (any, sunny, cloudy, or mild)",
		oneOf("any", "sunny", "cloudy", "mild")},
	{"closed_days_restrictions", "Are there any days or dates when certain places might be closed that we should consider?",
		stringList(0)},
	{"local_guidelines", "Are there any local or government guidelines we should consider?", stringValue},
	{"max_travel_distance_km", "What's the maximum distance you'd like to travel per day (in kilometers)?",
		intRange(1, 500)},
	{"sightseeing_pace", "What pace of sightseeing do you prefer? (relaxed, moderate, or packed)",
		oneOf("relaxed", "moderate", "packed")},
	{"cab_pickup_required", "Do you need cab pickup services?", boolValue},
	{"hotel_checkin_time", "What time is your hotel check-in?", timeValue},
	{"hotel_checkout_time", "What time is your hotel check-out?", timeValue},
	{"traffic_consideration", "Should we consider traffic in the planning?", boolValue},
	{"travel_mode", "What's your preferred mode of travel? (driving, walking, public transport, or mixed)",
		oneOf("driving", "walking", "public_transport", "mixed")},
}

var fieldByName = func() map[string]fieldSpec {
	m := make(map[string]fieldSpec, len(fieldCatalog))
	for _, spec := range fieldCatalog {
		m[spec.name] = spec
	}
	return m
}()

// FieldCount is the number of mandatory fields a complete form carries.
const FieldCount = 19

// FieldNames returns the mandatory field names in declaration order.
func FieldNames() []string {
	names := make([]string, len(fieldCatalog))
	for i, spec := range fieldCatalog {
		names[i] = spec.name
	}
	return names
}

// Question returns the follow-up question for a field, or a generic prompt
// for unknown names.
func Question(field string) string {
	if spec, ok := fieldByName[field]; ok {
		return spec.question
	}
	return fmt.Sprintf("Please provide %s", field)
}

// IsKnownField reports whether name is one of the mandatory fields.
func IsKnownField(name string) bool {
	_, ok := fieldByName[name]
	return ok
}

// ValidateField checks a JSON-shaped value against the named field's range or
// enum constraint. Unknown field names are rejected.
func ValidateField(name string, value any) error {
	spec, ok := fieldByName[name]
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	return spec.validate(value)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func intRange(min, max int) func(any) error {
	return func(v any) error {
		n, ok := asInt(v)
		if !ok {
			return fmt.Errorf("expected an integer, got %T", v)
		}
		if n < min || n > max {
			return fmt.Errorf("value %d outside range %d-%d", n, min, max)
		}
		return nil
	}
}

func oneOf(values ...string) func(any) error {
	set := make(map[string]bool, len(values))
	for _, s := range values {
		set[s] = true
	}
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", v)
		}
		if !set[s] {
			return fmt.Errorf("%q is not one of the allowed values", s)
		}
		return nil
	}
}

func stringList(minItems int) func(any) error {
	return func(v any) error {
		var n int
		switch list := v.(type) {
		case []any:
			for _, item := range list {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("expected a list of strings, found %T", item)
				}
			}
			n = len(list)
		case []string:
			n = len(list)
		default:
			return fmt.Errorf("expected a list of strings, got %T", v)
		}
		if n < minItems {
			return fmt.Errorf("list needs at least %d item(s)", minItems)
		}
		return nil
	}
}

func stringValue(v any) error {
	if _, ok := v.(string); !ok {
		return fmt.Errorf("expected a string, got %T", v)
	}
	return nil
}

func boolValue(v any) error {
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("expected a boolean, got %T", v)
	}
	return nil
}

func dateValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected a date string, got %T", v)
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return nil
}

func timeValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected a time string, got %T", v)
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("%q is not a HH:MM time", s)
	}
	return nil
}

// Package form holds the mandatory trip-constraint fields. Every field is
// optional until filled; the itinerary planner only runs once all of them are
// present. Merging never clears a value that is already set; only an explicit
// overwrite replaces one.
package form

import (
	"log/slog"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Form is the constraint form. Nil means "not provided yet" for every field.
// JSON field names are the canonical identifiers used by merge, overwrite and
// the extraction prompt.
type Form struct {
	TripDurationDays       *int               `json:"trip_duration_days"`
	TripDurationNights     *int               `json:"trip_duration_nights"`
	TravelerCount          *int               `json:"traveler_count"`
	GroupType              *GroupType         `json:"group_type"`
	Destinations           []string           `json:"destinations"`
	StartDate              *string            `json:"start_date"`
	EndDate                *string            `json:"end_date"`
	DailyStartTime         *string            `json:"daily_start_time"`
	DailyEndTime           *string            `json:"daily_end_time"`
	WeatherPreference      *WeatherPreference `json:"weather_preference"`
	ClosedDaysRestrictions []string           `json:"closed_days_restrictions"`
	LocalGuidelines        *string            `json:"local_guidelines"`
	MaxTravelDistanceKm    *int               `json:"max_travel_distance_km"`
	SightseeingPace        *SightseeingPace   `json:"sightseeing_pace"`
	CabPickupRequired      *bool              `json:"cab_pickup_required"`
	HotelCheckinTime       *string            `json:"hotel_checkin_time"`
	HotelCheckoutTime      *string            `json:"hotel_checkout_time"`
	TrafficConsideration   *bool              `json:"traffic_consideration"`
	TravelMode             *TravelMode        `json:"travel_mode"`
}

// rawMap renders the form as a JSON object. Unset fields appear as nil
// values so callers distinguish "absent" from "empty list".
func (f Form) rawMap() map[string]any {
	data, err := sonic.Marshal(f)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := sonic.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// MissingFields lists every unset field in declaration order.
func (f Form) MissingFields() []string {
	raw := f.rawMap()
	var missing []string
	for _, spec := range fieldCatalog {
		if raw[spec.name] == nil {
			missing = append(missing, spec.name)
		}
	}
	return missing
}

func (f Form) IsComplete() bool {
	return len(f.MissingFields()) == 0
}

// FilledFields returns the set fields and their JSON-shaped values.
func (f Form) FilledFields() map[string]any {
	raw := f.rawMap()
	filled := make(map[string]any)
	for _, spec := range fieldCatalog {
		if v := raw[spec.name]; v != nil {
			filled[spec.name] = v
		}
	}
	return filled
}

// MergeExtracted writes each set value from partial into the receiver, but
// only where the receiver's field is still unset. Values that fail their
// field constraint are extraction noise and are dropped without surfacing an
// error. The receiver is not mutated; a new form value is returned.
func (f Form) MergeExtracted(partial Form) Form {
	current := f.rawMap()
	candidate := make(map[string]any)
	for name, value := range partial.rawMap() {
		if value == nil || current[name] != nil {
			continue
		}
		spec, ok := fieldByName[name]
		if !ok {
			continue
		}
		if err := spec.validate(value); err != nil {
			slog.Debug("discarding extracted field", "field", name, "reason", err)
			continue
		}
		candidate[name] = value
	}
	if len(candidate) == 0 {
		return f
	}
	merged, err := applyMergePatch(f, candidate)
	if err != nil {
		slog.Debug("merge patch failed, keeping previous form", "error", err)
		return f
	}
	return merged
}

// OverwriteFields unconditionally replaces the listed fields. Unrecognized
// keys are ignored. A value failing its constraint is a hard error; the form
// is returned unchanged with every offending field listed. A nil value
// clears the field.
func (f Form) OverwriteFields(updates map[string]any) (Form, error) {
	patch := make(map[string]any)
	var errs ValidationErrors
	for _, spec := range fieldCatalog {
		value, present := updates[spec.name]
		if !present {
			continue
		}
		if value == nil {
			patch[spec.name] = nil
			continue
		}
		if err := spec.validate(value); err != nil {
			errs = append(errs, FieldError{Field: spec.name, Reason: err.Error()})
			continue
		}
		patch[spec.name] = value
	}
	if len(errs) > 0 {
		return f, errs
	}
	if len(patch) == 0 {
		return f, nil
	}
	return applyMergePatch(f, patch)
}

// FromMap decodes a JSON-shaped field map into a partial form. Keys that do
// not belong to the catalog and values of the wrong shape are dropped.
func FromMap(values map[string]any) Form {
	clean := make(map[string]any, len(values))
	for name, value := range values {
		if value == nil || !IsKnownField(name) {
			continue
		}
		clean[name] = value
	}
	var partial Form
	data, err := sonic.Marshal(clean)
	if err != nil {
		return partial
	}
	// A type mismatch anywhere aborts the decode; retry field by field so
	// one bad value does not throw away the rest. The aborted decode may
	// have left zero-value pointers behind, so the retry starts from a
	// fresh form.
	if err := sonic.Unmarshal(data, &partial); err == nil {
		return partial
	}
	partial = Form{}
	for name, value := range clean {
		single, mErr := sonic.Marshal(map[string]any{name: value})
		if mErr != nil {
			continue
		}
		var attempt Form
		if uErr := sonic.Unmarshal(single, &attempt); uErr == nil {
			partial = partial.MergeExtracted(attempt)
		}
	}
	return partial
}

func applyMergePatch(f Form, patch map[string]any) (Form, error) {
	currentJSON, err := sonic.Marshal(f)
	if err != nil {
		return f, err
	}
	patchJSON, err := sonic.Marshal(patch)
	if err != nil {
		return f, err
	}
	mergedJSON, err := jsonpatch.MergePatch(currentJSON, patchJSON)
	if err != nil {
		return f, err
	}
	var out Form
	if err := sonic.Unmarshal(mergedJSON, &out); err != nil {
		return f, err
	}
	return out, nil
}

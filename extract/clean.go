package extract

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/tripweave/tripweave/form"
	"github.com/tripweave/tripweave/recovery"
)

// Models drift between the prompt vocabulary and the canonical enum values;
// fold the common aliases before validation sees them.
var enumAliases = map[string]string{
	"public_transit":   "public_transport",
	"public transit":   "public_transport",
	"public transport": "public_transport",
}

// cleanDocument coerces the extractor's output into a typed partial form.
// Each field tolerates the usual model slop (numbers as strings, yes/no for
// booleans, a bare string where a list belongs); anything that still does not
// fit its field, or fails the field's range or enum constraint, is noise and
// is skipped.
func cleanDocument(doc recovery.Document) form.Form {
	values := make(map[string]any)
	keep := func(name string, value any) {
		if err := form.ValidateField(name, value); err != nil {
			slog.Debug("discarding extracted field", "field", name, "reason", err)
			return
		}
		values[name] = value
	}

	for _, name := range []string{
		"trip_duration_days", "trip_duration_nights", "traveler_count",
		"max_travel_distance_km",
	} {
		if n, ok := coerceInt(doc, name); ok {
			keep(name, n)
		}
	}
	for _, name := range []string{
		"group_type", "sightseeing_pace", "weather_preference", "travel_mode",
		"local_guidelines", "start_date", "end_date", "daily_start_time",
		"daily_end_time", "hotel_checkin_time", "hotel_checkout_time",
	} {
		if s, ok := coerceString(doc, name); ok {
			keep(name, s)
		}
	}
	for _, name := range []string{"destinations", "closed_days_restrictions"} {
		if list, ok := doc.Strings(name); ok && len(list) > 0 {
			keep(name, list)
		}
	}
	for _, name := range []string{"cab_pickup_required", "traffic_consideration"} {
		if b, ok := coerceBool(doc, name); ok {
			keep(name, b)
		}
	}

	return form.FromMap(values)
}

func coerceInt(doc recovery.Document, key string) (int, bool) {
	if n, ok := doc.Number(key); ok {
		return int(n), true
	}
	if s, ok := doc.String(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func coerceString(doc recovery.Document, key string) (string, bool) {
	s, ok := doc.String(key)
	if !ok || s == "" {
		return "", false
	}
	if alias, found := enumAliases[strings.ToLower(s)]; found {
		return alias, true
	}
	return s, true
}

func coerceBool(doc recovery.Document, key string) (bool, bool) {
	if b, ok := doc.Bool(key); ok {
		return b, true
	}
	if s, ok := doc.String(key); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

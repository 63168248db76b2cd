package itinerary

import "time"

// Export is the display shape handed to API clients.
type Export struct {
	Version         int         `json:"version"`
	CreatedAt       string      `json:"createdAt"`
	Summary         string      `json:"summary"`
	Days            []DayExport `json:"days"`
	TotalDistanceKm float64     `json:"totalDistanceKm"`
	ChangesMade     []string    `json:"changesMade,omitempty"`
	ChangeSummary   string      `json:"changeSummary,omitempty"`
}

type DayExport struct {
	DayNumber       int              `json:"dayNumber"`
	Date            string           `json:"date"`
	Theme           string           `json:"theme,omitempty"`
	Activities      []ActivityExport `json:"activities"`
	TotalDistanceKm float64          `json:"totalDistanceKm"`
}

type ActivityExport struct {
	TimeSlot    string  `json:"timeSlot"`
	Location    string  `json:"location"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	DistanceKm  float64 `json:"distanceKm"`
	Notes       string  `json:"notes,omitempty"`
}

func (it Itinerary) Export() *Export {
	out := &Export{
		Version:         it.Version,
		CreatedAt:       it.CreatedAt.Format(time.RFC3339),
		Summary:         it.Summary,
		Days:            make([]DayExport, 0, len(it.Days)),
		TotalDistanceKm: it.TotalDistance(),
		ChangesMade:     it.ChangesMade,
		ChangeSummary:   it.ChangeSummary,
	}
	for _, d := range it.Days {
		day := DayExport{
			DayNumber:       d.DayNumber,
			Date:            d.Date,
			Theme:           d.Theme,
			Activities:      make([]ActivityExport, 0, len(d.Activities)),
			TotalDistanceKm: d.TotalDistanceKm,
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, ActivityExport{
				TimeSlot:    a.TimeSlot,
				Location:    a.Location,
				Type:        string(a.Type),
				Description: a.Description,
				DistanceKm:  a.TravelDistanceKm,
				Notes:       a.Notes,
			})
		}
		out.Days = append(out.Days, day)
	}
	return out
}

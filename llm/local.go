package llm

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
)

// LocalGenerator is a deterministic offline backend for demos and smoke
// runs. It inspects the system prompt to tell extraction, planning and
// question calls apart and answers each with minimal well-formed output.
type LocalGenerator struct{}

func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

func (g *LocalGenerator) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	system, user := "", ""
	for _, m := range messages {
		switch m.Role {
		case schema.System:
			if system == "" {
				system = m.Content
			}
		case schema.User:
			user = m.Content
		}
	}
	lower := strings.ToLower(system)
	switch {
	case strings.Contains(lower, "extractor"):
		return "{}", nil
	case strings.Contains(lower, "itinerary planner"):
		return g.cannedItinerary(user), nil
	default:
		return "I can only answer plan questions from local data in offline mode.", nil
	}
}

func (g *LocalGenerator) cannedItinerary(prompt string) string {
	day := map[string]any{
		"day_number": 1,
		"date":       time.Now().Format("2006-01-02"),
		"theme":      "Walking highlights",
		"activities": []map[string]any{
			{
				"time_slot":          "09:00 - 11:00",
				"location":           "Old Town",
				"activity_type":      "sightseeing",
				"description":        "Self-guided walk through the historic center",
				"travel_distance_km": 2.0,
				"duration_minutes":   120,
			},
			{
				"time_slot":          "12:00 - 13:00",
				"location":           "Central Market",
				"activity_type":      "meal",
				"description":        "Lunch at the market hall",
				"travel_distance_km": 1.0,
				"duration_minutes":   60,
			},
		},
	}
	payload := map[string]any{
		"summary": "A compact offline sample itinerary.",
		"days":    []any{day},
	}
	if strings.Contains(prompt, "MODIFICATION REQUEST") {
		payload["change_summary"] = "Swapped the afternoon slot as requested."
		payload["changes_made"] = []string{"Adjusted day 1 afternoon"}
	}
	out, err := sonic.MarshalString(payload)
	if err != nil {
		return "{}"
	}
	return out
}

var _ Generator = (*LocalGenerator)(nil)

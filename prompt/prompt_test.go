package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/form"
)

func TestCurrentDateSection(t *testing.T) {
	section := CurrentDateSection()
	assert.Contains(t, section, "# Current Date:")
	assert.Contains(t, section, time.Now().Format("2006-01-02"))
}

func TestFormStateSectionEmpty(t *testing.T) {
	assert.Equal(t, "# Form state:\nNothing collected yet.", FormStateSection(form.Form{}))
}

func TestFormStateSectionRendersJSON(t *testing.T) {
	f, err := form.Form{}.OverwriteFields(map[string]any{"traveler_count": 2})
	require.NoError(t, err)

	section := FormStateSection(f)
	assert.Contains(t, section, "```json")
	assert.Contains(t, section, `"traveler_count":2`)
}

func TestMissingFieldsSectionTable(t *testing.T) {
	section := MissingFieldsSection([]string{"travel_mode", "start_date"})
	assert.Contains(t, section, "# Missing required fields:")
	assert.Contains(t, section, "travel_mode")
	assert.Contains(t, section, "start_date")
	assert.Contains(t, section, "What is your trip start date?")
	assert.Contains(t, section, "|")
}

func TestMissingFieldsSectionEmpty(t *testing.T) {
	assert.Empty(t, MissingFieldsSection(nil))
}

func TestSoftPreferencesSection(t *testing.T) {
	assert.Contains(t, SoftPreferencesSection(nil), "None provided")

	section := SoftPreferencesSection([]string{"rooftop dinners", "no early mornings"})
	assert.Contains(t, section, "rooftop dinners\nno early mornings")
}

func TestConstraintsSectionOrderAndLabels(t *testing.T) {
	f, err := form.Form{}.OverwriteFields(map[string]any{
		"destinations":       []any{"Jaipur", "Udaipur"},
		"traveler_count":     2,
		"trip_duration_days": 3,
	})
	require.NoError(t, err)

	section := ConstraintsSection(f)
	assert.Contains(t, section, "- trip duration days: 3")
	assert.Contains(t, section, "- traveler count: 2")
	assert.Contains(t, section, "- destinations: Jaipur, Udaipur")

	// Declaration order: duration before count before destinations.
	lines := []string{"- trip duration days: 3", "- traveler count: 2", "- destinations:"}
	last := -1
	for _, line := range lines {
		idx := strings.Index(section, line)
		require.GreaterOrEqual(t, idx, 0, "missing line %q", line)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestJoinSkipsEmptySections(t *testing.T) {
	assert.Equal(t, "a\n\nb", Join("a", "", "b"))
	assert.Equal(t, "", Join("", ""))
}

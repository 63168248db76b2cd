// Package prompt assembles the context sections shared by the extraction and
// planning prompts.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"

	"github.com/tripweave/tripweave/form"
)

// CurrentDateSection anchors relative dates ("next Friday") in the prompt.
func CurrentDateSection() string {
	return fmt.Sprintf("# Current Date:\n%s", time.Now().Format("2006-01-02"))
}

// FormStateSection renders the filled fields as a JSON block.
func FormStateSection(f form.Form) string {
	filled := f.FilledFields()
	if len(filled) == 0 {
		return "# Form state:\nNothing collected yet."
	}
	data, err := sonic.MarshalString(filled)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("# Form state JSON:\n```json\n%s\n```", data)
}

// MissingFieldsSection lays the unfilled fields out as a markdown table so
// the model sees field names next to the question each one answers.
func MissingFieldsSection(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Missing required fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Question")
	for _, name := range missing {
		_ = table.Append(name, form.Question(name))
	}
	_ = table.Render()
	return buf.String()
}

// SoftPreferencesSection lists free-text wishes, or notes their absence.
func SoftPreferencesSection(prefs []string) string {
	if len(prefs) == 0 {
		return "SOFT PREFERENCES (optional, apply if no conflict):\nNone provided"
	}
	return "SOFT PREFERENCES (optional, apply if no conflict):\n" + strings.Join(prefs, "\n")
}

// ConstraintsSection renders the filled fields as readable bullet lines for
// the planner.
func ConstraintsSection(f form.Form) string {
	filled := f.FilledFields()
	var lines []string
	for _, name := range form.FieldNames() {
		value, ok := filled[name]
		if !ok {
			continue
		}
		if list, isList := value.([]any); isList {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			value = strings.Join(parts, ", ")
		}
		label := strings.ReplaceAll(name, "_", " ")
		lines = append(lines, fmt.Sprintf("- %s: %v", label, value))
	}
	return strings.Join(lines, "\n")
}

// Join glues non-empty sections with blank lines.
func Join(sections ...string) string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}

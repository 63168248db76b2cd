package llm

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/recovery"
)

func TestLocalGeneratorExtraction(t *testing.T) {
	g := NewLocalGenerator()
	out, err := g.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("You are a travel information extractor."),
		schema.UserMessage("3 days in Jaipur"),
	})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestLocalGeneratorPlanIsRecoverable(t *testing.T) {
	g := NewLocalGenerator()
	out, err := g.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("You are a travel itinerary planner."),
		schema.UserMessage("HARD CONSTRAINTS (MUST follow):\n- destinations: Jaipur"),
	})
	require.NoError(t, err)

	doc, err := recovery.Parse(out)
	require.NoError(t, err)
	days := doc.Objects("days")
	require.Len(t, days, 1)
	assert.NotEmpty(t, days[0].Objects("activities"))
	assert.False(t, doc.Has("change_summary"))
}

func TestLocalGeneratorModificationCarriesChangeSummary(t *testing.T) {
	g := NewLocalGenerator()
	out, err := g.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("You are a travel itinerary planner."),
		schema.UserMessage("CURRENT ITINERARY:\n{}\n\nMODIFICATION REQUEST:\nadd a beach day"),
	})
	require.NoError(t, err)

	doc, err := recovery.Parse(out)
	require.NoError(t, err)
	assert.True(t, doc.Has("change_summary"))
}

func TestLocalGeneratorQuestionFallback(t *testing.T) {
	g := NewLocalGenerator()
	out, err := g.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("You are a helpful travel assistant for Jaipur."),
		schema.UserMessage("USER QUESTION: when does the fort open?"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

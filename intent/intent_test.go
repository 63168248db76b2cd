package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func noFields() bool  { return false }
func hasFields() bool { return true }

func TestClassifyQuestionTrigger(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("What are the best local markets near the old city", hasFields)
	assert.Equal(t, Question, got)
}

func TestClassifyModificationTrigger(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("Replace day 2's museum with a market visit", noFields)
	assert.Equal(t, Modification, got)
}

func TestClassifyModifierBeatsQuestionWord(t *testing.T) {
	// Both trigger sets fire; the modification side wins because the
	// question-trigger rule requires no modifier present.
	c := NewClassifier()
	got := c.Classify("What if you add a beach day at the end", hasFields)
	assert.Equal(t, Modification, got)
}

func TestClassifyQuestionMarkWithoutModifier(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("trains between the two cities?", hasFields)
	assert.Equal(t, Question, got)
}

func TestClassifyQuestionMarkWithModifierIsModification(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("could you add a spa afternoon?", noFields)
	assert.Equal(t, Modification, got)
}

func TestClassifyEmptyExtractionFallsBackToQuestion(t *testing.T) {
	c := NewClassifier()
	called := false
	got := c.Classify("the fort at sunrise", func() bool {
		called = true
		return false
	})
	assert.Equal(t, Question, got)
	assert.True(t, called)
}

func TestClassifyHardFieldsDefaultToModification(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("three days in the hills starting friday", hasFields)
	assert.Equal(t, Modification, got)
}

func TestClassifyExtractionSkippedWhenTextDecides(t *testing.T) {
	c := NewClassifier()
	called := false
	c.Classify("what is the local speciality", func() bool {
		called = true
		return true
	})
	assert.False(t, called, "extraction must be lazy when a textual rule matches")
}

func TestInsteadAloneIsNotAModifier(t *testing.T) {
	c := NewClassifier()
	assert.False(t, c.HasModificationTrigger("the beach instead"))
	// With extraction finding nothing, it classifies as a question.
	assert.Equal(t, Question, c.Classify("the beach instead", noFields))
}

func TestClassifyNilExtractionCallback(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, Question, c.Classify("somewhere quiet", nil))
}

func TestCustomTriggerSets(t *testing.T) {
	c := NewClassifier(
		WithModificationTriggers("rework"),
		WithQuestionTriggers("curious"),
	)
	assert.Equal(t, Modification, c.Classify("rework the evenings", hasFields))
	assert.Equal(t, Question, c.Classify("curious about day two", hasFields))
	// Defaults were replaced, so "change" no longer triggers.
	assert.False(t, c.HasModificationTrigger("change the hotel"))
}

func TestExtraModificationTriggersExtendDefaults(t *testing.T) {
	c := NewClassifier(WithExtraModificationTriggers("shuffle"))
	assert.True(t, c.HasModificationTrigger("shuffle the mornings"))
	assert.True(t, c.HasModificationTrigger("change the hotel"))
}

func TestIsConfirmation(t *testing.T) {
	c := NewClassifier()
	for _, text := range []string{
		"Yes, go ahead",
		"generate it",
		"ok",
		"Sure, plan it out",
	} {
		assert.True(t, c.IsConfirmation(text), "expected confirmation: %q", text)
	}
	assert.False(t, c.IsConfirmation("not quite ready"))
}

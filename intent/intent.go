// Package intent labels an in-conversation message as a question, a
// modification request, or a confirmation. Classification is a strict
// ordered rule list over configurable trigger sets; later rules assume the
// earlier ones did not match, so the order is part of the contract.
package intent

import "strings"

type Intent string

const (
	Question     Intent = "question"
	Modification Intent = "modification"
	Confirmation Intent = "confirmation"
)

// Default trigger sets, matched as lowercase substrings. The trailing space
// on short verbs keeps "is " from firing inside "visit". Note "instead" is
// deliberately absent from the modification set: on its own it carries no
// signal, it only rides along with a real modification verb.
var (
	defaultQuestionTriggers = []string{
		"what", "how", "where", "when", "is ", "are ", "can ", "does ",
		"best ", "famous", "top", "recommend", "suggest", "tell", "info",
		"popular", "worth",
	}
	defaultModificationTriggers = []string{
		"change", "add", "remove", "replace", "delete", "move", "swap",
		"update", "modify", "put", "use ",
	}
	defaultConfirmTriggers = []string{
		"yes", "generate", "plan", "create", "go ahead", "sure", "okay", "ok",
	}
)

type Classifier struct {
	questionTriggers     []string
	modificationTriggers []string
	confirmTriggers      []string
	rules                []rule
}

type rule struct {
	name string
	eval func(m *message) (Intent, bool)
}

type message struct {
	lower       string
	hasQuestion bool
	hasModifier bool
	hardFields  func() bool
}

type Option func(*Classifier)

// WithQuestionTriggers replaces the question-trigger set.
func WithQuestionTriggers(triggers ...string) Option {
	return func(c *Classifier) { c.questionTriggers = triggers }
}

// WithModificationTriggers replaces the modification-trigger set.
func WithModificationTriggers(triggers ...string) Option {
	return func(c *Classifier) { c.modificationTriggers = triggers }
}

// WithExtraModificationTriggers extends the default modification set, for
// deployments whose users favor verbs the defaults miss.
func WithExtraModificationTriggers(triggers ...string) Option {
	return func(c *Classifier) {
		c.modificationTriggers = append(c.modificationTriggers, triggers...)
	}
}

// WithConfirmTriggers replaces the confirmation keyword set.
func WithConfirmTriggers(triggers ...string) Option {
	return func(c *Classifier) { c.confirmTriggers = triggers }
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		questionTriggers:     defaultQuestionTriggers,
		modificationTriggers: defaultModificationTriggers,
		confirmTriggers:      defaultConfirmTriggers,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rules = []rule{
		{"question-trigger", func(m *message) (Intent, bool) {
			if m.hasQuestion && !m.hasModifier {
				return Question, true
			}
			return "", false
		}},
		{"question-mark", func(m *message) (Intent, bool) {
			if !m.hasModifier && strings.HasSuffix(m.lower, "?") {
				return Question, true
			}
			return "", false
		}},
		{"empty-extraction", func(m *message) (Intent, bool) {
			if !m.hasModifier && !m.hardFields() {
				return Question, true
			}
			return "", false
		}},
		{"modification-default", func(m *message) (Intent, bool) {
			return Modification, true
		}},
	}
	return c
}

// Classify runs the rule list in order and returns the first verdict.
// hardFieldsExtracted is invoked at most once, and only when the cheaper
// textual rules were inconclusive; it should run hard-field extraction on
// the message and report whether any field came back non-null.
func (c *Classifier) Classify(text string, hardFieldsExtracted func() bool) Intent {
	if hardFieldsExtracted == nil {
		hardFieldsExtracted = func() bool { return false }
	}
	m := &message{
		lower:      strings.ToLower(strings.TrimSpace(text)),
		hardFields: hardFieldsExtracted,
	}
	m.hasQuestion = containsAny(m.lower, c.questionTriggers)
	m.hasModifier = containsAny(m.lower, c.modificationTriggers)
	for _, r := range c.rules {
		if verdict, ok := r.eval(m); ok {
			return verdict
		}
	}
	return Modification
}

// HasModificationTrigger reports whether the message contains any token of
// the modification set.
func (c *Classifier) HasModificationTrigger(text string) bool {
	return containsAny(strings.ToLower(text), c.modificationTriggers)
}

// IsConfirmation reports whether the message reads as a go-ahead. Used by
// the form-complete handler, where the only decision is whether to start
// planning.
func (c *Classifier) IsConfirmation(text string) bool {
	return containsAny(strings.ToLower(text), c.confirmTriggers)
}

func containsAny(s string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Package recovery decodes a structured object out of generator output that
// may be wrapped in commentary, fenced in markdown, sprinkled with
// typographic punctuation, or truncated mid-object. Strategies run in a
// fixed order from strict to permissive; the first decodable candidate wins.
package recovery

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// ParseFailure is returned once every strategy has been exhausted. The raw
// text is logged under LogID for offline inspection; callers substitute a
// degraded result instead of propagating the fault into the conversation.
type ParseFailure struct {
	InputLen int
	LogID    string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("unrecoverable structured output (%d bytes, log %s)", e.InputLen, e.LogID)
}

type strategy struct {
	name    string
	extract func(string) (string, bool)
}

var strategies = []strategy{
	{"direct", func(s string) (string, bool) { return s, s != "" }},
	{"fenced-block", fencedBlock},
	{"brace-substring", braceSubstring},
	{"single-quote-literal", looseLiteral},
	{"trailing-comma", trailingCommaRepair},
	{"truncation", truncationRepair},
}

// Generators routinely emit typographic quotes and dashes that break strict
// decoding; fold them to ASCII before any strategy runs.
var punctuation = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	"–", "-", "—", "-",
)

// Parse recovers a Document from raw generator output.
func Parse(raw string) (Document, error) {
	text := strings.TrimSpace(punctuation.Replace(raw))
	for _, s := range strategies {
		candidate, ok := s.extract(text)
		if !ok {
			continue
		}
		var doc Document
		if err := sonic.UnmarshalString(candidate, &doc); err != nil {
			continue
		}
		if doc == nil {
			continue
		}
		slog.Debug("recovered structured payload", "strategy", s.name, "bytes", len(raw))
		return doc, nil
	}
	failure := &ParseFailure{InputLen: len(raw), LogID: uuid.NewString()}
	slog.Debug("structured payload unrecoverable", "log_id", failure.LogID, "raw", raw)
	return nil, failure
}

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

func fencedBlock(s string) (string, bool) {
	m := fenceRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	inner := strings.TrimSpace(m[1])
	return inner, inner != ""
}

func braceSubstring(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// looseLiteral tolerates single-quoted keys and strings by rewriting them as
// double-quoted, leaving genuine double-quoted strings untouched.
func looseLiteral(s string) (string, bool) {
	sub, ok := braceSubstring(s)
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.Grow(len(sub))
	inDouble, inSingle, escaped := false, false, false
	for _, r := range sub {
		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
		case r == '\\':
			escaped = true
			b.WriteRune(r)
		case inDouble:
			if r == '"' {
				inDouble = false
			}
			b.WriteRune(r)
		case inSingle:
			switch r {
			case '\'':
				inSingle = false
				b.WriteByte('"')
			case '"':
				b.WriteString(`\"`)
			default:
				b.WriteRune(r)
			}
		case r == '"':
			inDouble = true
			b.WriteRune(r)
		case r == '\'':
			inSingle = true
			b.WriteByte('"')
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), true
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

func trailingCommaRepair(s string) (string, bool) {
	sub, ok := braceSubstring(s)
	if !ok {
		return "", false
	}
	repaired := trailingCommaRe.ReplaceAllString(sub, "$1")
	return repaired, repaired != sub
}

// truncationRepair assumes the tail of the object was cut off. The dangling
// key/value fragment behind the last comma of the innermost still-open
// structure is discarded rather than guessed; commas inside structures that
// already closed are not trim points. The scanner is string-aware, so braces
// inside quoted values never unbalance the stack.
func truncationRepair(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}
	text := strings.TrimRight(s[start:], "` \n\t")

	lastOpen, depth := -1, 0
	commaAt := make(map[int]int)
	inString, escaped := false, false
	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{', '[':
			lastOpen = i
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			commaAt[depth] = i
		}
	}
	if lastComma, ok := commaAt[depth]; ok && lastComma > lastOpen {
		text = text[:lastComma]
	}

	var closers []byte
	inString, escaped = false, false
	for _, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			closers = append(closers, '}')
		case '[':
			closers = append(closers, ']')
		case '}', ']':
			if n := len(closers); n > 0 && closers[n-1] == byte(r) {
				closers = closers[:n-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(text)
	if inString {
		b.WriteByte('"')
	}
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteByte(closers[i])
	}
	return b.String(), true
}

package recovery

// Document is the schema-checked intermediate representation produced by
// Parse. Typed accessors stand between raw generator output and domain
// construction so untyped maps never travel deeper into the system.
type Document map[string]any

func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

func (d Document) Number(key string) (float64, bool) {
	switch n := d[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func (d Document) Bool(key string) (bool, bool) {
	b, ok := d[key].(bool)
	return b, ok
}

// Strings returns the value as a string list. A bare string becomes a
// single-element list; non-string members are skipped.
func (d Document) Strings(key string) ([]string, bool) {
	switch v := d[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		if v == "" {
			return nil, false
		}
		return []string{v}, true
	default:
		return nil, false
	}
}

// Objects returns the value as a list of child documents; non-object members
// are skipped.
func (d Document) Objects(key string) []Document {
	list, ok := d[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Document(m))
		}
	}
	return out
}

// Raw exposes the underlying value for keys with no dedicated accessor.
func (d Document) Raw(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

package metadata

import "github.com/spf13/cast"

// Kind discriminates the shapes a frontmatter value can take.
type Kind int

const (
	Absent Kind = iota
	Scalar
	List
	Boolean
)

// Value is a tagged union over the loosely-typed shapes YAML frontmatter
// produces: a scalar string, a list of strings, a boolean, or nothing.
// Non-string list entries are dropped at this boundary.
type Value struct {
	Kind Kind
	Str  string
	Strs []string
	Bool bool
}

// valueOf converts a raw YAML value into a Value. Booleans stay booleans
// (the read flag requires strict typing), lists keep only string entries,
// and any other scalar is coerced to its string form.
func valueOf(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: Absent}
	case bool:
		return Value{Kind: Boolean, Bool: t}
	case string:
		return Value{Kind: Scalar, Str: t}
	case []interface{}:
		strs := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				strs = append(strs, s)
			}
		}
		return Value{Kind: List, Strs: strs}
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return Value{Kind: Absent}
		}
		return Value{Kind: Scalar, Str: s}
	}
}

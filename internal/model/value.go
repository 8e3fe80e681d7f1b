package model

// ValueKind tags the variant of a literal value observed in source.
type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindArray
	KindNull
	// KindConstRef marks a reference to a named constant rather than a
	// literal. Its type is the dynamic type of the referenced constant's
	// value, when that constant is known.
	KindConstRef
)

// Value is a tagged-union representation of a literal or constant reference
// appearing as a default value or constant initializer. Raw holds the source
// text verbatim.
type Value struct {
	Kind ValueKind `json:"-"`
	Raw  string    `json:"raw"`
	// Ref is the referenced constant name when Kind is KindConstRef.
	Ref string `json:"ref,omitempty"`
}

// TypeName maps the value's variant to its canonical type name. Unknown values
// map to the empty unknown marker.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	default:
		return ""
	}
}

// IsZero reports whether no value was observed at all.
func (v Value) IsZero() bool {
	return v.Kind == KindUnknown && v.Raw == ""
}

package model

import "sort"

// Modifier is one normalized declaration modifier.
type Modifier string

const (
	ModifierAbstract  Modifier = "abstract"
	ModifierFinal     Modifier = "final"
	ModifierStatic    Modifier = "static"
	ModifierReadonly  Modifier = "readonly"
	ModifierPublic    Modifier = "public"
	ModifierProtected Modifier = "protected"
	ModifierPrivate   Modifier = "private"
)

// Modifiers is a normalized modifier set, serialized as a sorted list so that
// repeated renders of the same report are byte-identical.
type Modifiers []Modifier

// NewModifiers builds a deduplicated, sorted modifier set.
func NewModifiers(mods ...Modifier) Modifiers {
	seen := make(map[Modifier]bool, len(mods))
	out := make(Modifiers, 0, len(mods))
	for _, m := range mods {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether the set contains the given modifier.
func (m Modifiers) Has(mod Modifier) bool {
	for _, v := range m {
		if v == mod {
			return true
		}
	}
	return false
}

// Strings returns the modifiers as plain strings.
func (m Modifiers) Strings() []string {
	out := make([]string, len(m))
	for i, v := range m {
		out[i] = string(v)
	}
	return out
}

// HasModifiers is implemented by every introspectable declaration variant that
// carries a modifier set.
type HasModifiers interface {
	ModifierSet() Modifiers
}

func (e EntityRecord) ModifierSet() Modifiers   { return e.Modifiers }
func (c ConstantRecord) ModifierSet() Modifiers { return c.Modifiers }
func (p PropertyRecord) ModifierSet() Modifiers { return p.Modifiers }
func (f FunctionRecord) ModifierSet() Modifiers { return f.Modifiers }

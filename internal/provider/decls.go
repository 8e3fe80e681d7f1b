package provider

import "github.com/mvp-joe/phpscope/internal/model"

// ParamDecl is one declared parameter as reported by the parser.
type ParamDecl struct {
	Name         string // without the leading "$"
	DeclaredType string // "" when the site carries no annotation; unions are "|"-joined
	Nullable     bool   // declared with a leading "?"
	Variadic     bool
	ByRef        bool
	HasDefault   bool
	Default      model.Value
}

// Optional reports whether the parameter is non-required by the calling
// convention: it has a default, is variadic, or is nullable by position.
func (p ParamDecl) Optional() bool {
	return p.HasDefault || p.Variadic || p.Nullable
}

// FunctionDecl is a free function or a method. DeclaredIn is the entity where
// the method was originally declared; it is empty for free functions.
type FunctionDecl struct {
	Name       string
	Params     []ParamDecl
	ReturnType string
	Modifiers  model.Modifiers
	DocComment string
	DeclaredIn string
}

// ConstantDecl is a top-level or class constant.
type ConstantDecl struct {
	Name       string
	Value      model.Value
	Modifiers  model.Modifiers
	DocComment string
	DeclaredIn string
}

// PropertyDecl is a class or trait property.
type PropertyDecl struct {
	Name         string // without the leading "$"
	DeclaredType string
	Nullable     bool
	HasDefault   bool
	Default      model.Value
	Modifiers    model.Modifiers
	DocComment   string
	DeclaredIn   string
}

// EntityDecl is one class-like declaration (interface, trait, or class).
// Member slices hold own members in declaration order; the merged view
// including inherited members comes from Provider.Entity.
type EntityDecl struct {
	Name       string
	Category   model.SymbolCategory
	Parent     string
	Interfaces []string
	Traits     []string
	Modifiers  model.Modifiers
	DocComment string
	Constants  []ConstantDecl
	Properties []PropertyDecl
	Methods    []FunctionDecl
}

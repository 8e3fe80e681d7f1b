// Package model defines the symbol report produced by scanning a single PHP
// source file. The whole tree is built once per scan and never mutated after
// it is handed to an exporter.
package model

// SymbolCategory identifies which kind of top-level symbol a name belongs to.
// A name appears in at most one category of a FileReport.
type SymbolCategory string

const (
	CategoryConstant  SymbolCategory = "constant"
	CategoryFunction  SymbolCategory = "function"
	CategoryInterface SymbolCategory = "interface"
	CategoryTrait     SymbolCategory = "trait"
	CategoryClass     SymbolCategory = "class"
)

// Categories lists every symbol category in report order.
func Categories() []SymbolCategory {
	return []SymbolCategory{
		CategoryConstant,
		CategoryFunction,
		CategoryInterface,
		CategoryTrait,
		CategoryClass,
	}
}

// OwnerSelf marks a member declared on the entity being reported rather than
// inherited from an ancestor.
const OwnerSelf = "self"

// FileReport is the root record for one scanned file. Category slices keep
// declaration order and are present (possibly empty) for every category.
type FileReport struct {
	FilePath   string             `json:"file_path"`
	Constants  []ConstantRecord   `json:"constants"`
	Functions  []FunctionRecord   `json:"functions"`
	Interfaces []EntityRecord     `json:"interfaces"`
	Traits     []EntityRecord     `json:"traits"`
	Classes    []EntityRecord     `json:"classes"`
}

// EntityRecord describes one class-like symbol: an interface, trait, or class.
type EntityRecord struct {
	Name        string                    `json:"name"`
	Category    SymbolCategory            `json:"category"`
	ParentName  string                    `json:"parent_name,omitempty"`
	Interfaces  []string                  `json:"interfaces,omitempty"`
	Traits      []string                  `json:"traits,omitempty"`
	Modifiers   Modifiers                 `json:"modifiers,omitempty"`
	Description string                    `json:"description,omitempty"`
	Constants   map[string]ConstantRecord `json:"constants,omitempty"`
	Properties  map[string]PropertyRecord `json:"properties,omitempty"`
	Methods     map[string]FunctionRecord `json:"methods,omitempty"`
}

// ConstantRecord describes a class constant or a top-level constant. Constants
// carry no static type, so DeclaredType is the dynamic type of the evaluated
// value.
type ConstantRecord struct {
	Name         string    `json:"name"`
	DeclaredType string    `json:"declared_type"`
	Value        string    `json:"value"`
	Modifiers    Modifiers `json:"modifiers,omitempty"`
	Description  string    `json:"description,omitempty"`
	Owner        string    `json:"owner"`
}

// PropertyRecord describes a class or trait property.
type PropertyRecord struct {
	Name         string    `json:"name"`
	ResolvedType string    `json:"resolved_type"`
	DefaultValue string    `json:"default_value,omitempty"`
	HasDefault   bool      `json:"has_default"`
	Modifiers    Modifiers `json:"modifiers,omitempty"`
	Description  string    `json:"description,omitempty"`
	Owner        string    `json:"owner"`
}

// FunctionRecord describes a free function or a method. Modifiers is empty and
// Owner is "self" for free functions.
type FunctionRecord struct {
	Name        string            `json:"name"`
	Parameters  []ParameterRecord `json:"parameters"`
	ReturnType  string            `json:"return_type"`
	Modifiers   Modifiers         `json:"modifiers,omitempty"`
	Description string            `json:"description,omitempty"`
	Owner       string            `json:"owner"`
}

// ParameterRecord describes one declared parameter, in declaration order.
type ParameterRecord struct {
	Name         string `json:"name"`
	ResolvedType string `json:"resolved_type"`
	DefaultValue string `json:"default_value,omitempty"`
	HasDefault   bool   `json:"has_default"`
	Description  string `json:"description,omitempty"`
	IsOptional   bool   `json:"is_optional"`
}

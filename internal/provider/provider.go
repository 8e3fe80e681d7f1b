// Package provider implements the PHP source-parser collaborator: an isolated,
// per-instance symbol table populated by parsing files with tree-sitter.
//
// Each Provider owns its own namespace. Loading a file parses it and registers
// its top-level declarations; nothing is shared between Provider instances, so
// concurrent scans are safe as long as each scan uses its own Provider.
package provider

import (
	"fmt"
	"sort"

	"github.com/mvp-joe/phpscope/internal/model"
)

// Provider is the symbol table. The zero value is not usable; construct with
// New.
type Provider struct {
	names     map[model.SymbolCategory][]string
	index     map[model.SymbolCategory]map[string]bool
	constants map[string]ConstantDecl
	functions map[string]FunctionDecl
	entities  map[string]*EntityDecl
	hier      *hierarchy

	noBuiltins bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithoutBuiltins skips seeding the PHP builtin baseline. Mainly useful in
// tests that want a completely empty namespace.
func WithoutBuiltins() Option {
	return func(p *Provider) {
		p.names = make(map[model.SymbolCategory][]string)
		p.noBuiltins = true
	}
}

// New creates a Provider seeded with the builtin baseline.
func New(opts ...Option) *Provider {
	p := &Provider{
		names:     make(map[model.SymbolCategory][]string),
		index:     make(map[model.SymbolCategory]map[string]bool),
		constants: make(map[string]ConstantDecl),
		functions: make(map[string]FunctionDecl),
		entities:  make(map[string]*EntityDecl),
		hier:      newHierarchy(),
	}
	p.seedBuiltins()
	for _, opt := range opts {
		opt(p)
	}
	for _, cat := range model.Categories() {
		p.index[cat] = make(map[string]bool, len(p.names[cat]))
		for _, name := range p.names[cat] {
			p.index[cat][name] = true
		}
	}
	return p
}

// Names returns the ordered symbol names currently known for a category. The
// returned slice is a copy; enumeration order is stable between calls.
func (p *Provider) Names(cat model.SymbolCategory) []string {
	return append([]string(nil), p.names[cat]...)
}

// Load parses the file at path and registers its top-level declarations.
// It fails with ErrSourceLoad if the file is missing or unparsable, and with
// ErrDuplicateDeclaration if any declaration collides with a known name. On
// failure nothing is registered.
func (p *Provider) Load(path string) error {
	decls, err := parseFile(path)
	if err != nil {
		return err
	}

	// Validate before registering so a failed load leaves the table intact.
	seen := make(map[model.SymbolCategory]map[string]bool)
	for _, cat := range model.Categories() {
		seen[cat] = make(map[string]bool)
	}
	check := func(cat model.SymbolCategory, name string) error {
		if p.index[cat][name] || seen[cat][name] {
			return fmt.Errorf("%w: %s %s (%s)", ErrDuplicateDeclaration, cat, name, path)
		}
		seen[cat][name] = true
		return nil
	}

	for _, c := range decls.constants {
		if err := check(model.CategoryConstant, c.Name); err != nil {
			return err
		}
	}
	for _, f := range decls.functions {
		if err := check(model.CategoryFunction, f.Name); err != nil {
			return err
		}
	}
	for _, e := range decls.entities {
		if err := check(e.Category, e.Name); err != nil {
			return err
		}
	}

	if err := p.hier.addEntities(decls.entities); err != nil {
		return err
	}

	for _, c := range decls.constants {
		p.register(model.CategoryConstant, c.Name)
		p.constants[c.Name] = c
	}
	for _, f := range decls.functions {
		p.register(model.CategoryFunction, f.Name)
		p.functions[f.Name] = f
	}
	for _, e := range decls.entities {
		p.register(e.Category, e.Name)
		p.entities[e.Name] = e
	}
	return nil
}

func (p *Provider) register(cat model.SymbolCategory, name string) {
	p.names[cat] = append(p.names[cat], name)
	p.index[cat][name] = true
}

// Constant returns the declaration of a registered top-level constant.
func (p *Provider) Constant(name string) (ConstantDecl, bool) {
	if c, ok := p.constants[name]; ok {
		return c, true
	}
	if v, ok := builtinConstants[name]; ok && !p.noBuiltins {
		return ConstantDecl{Name: name, Value: v}, true
	}
	return ConstantDecl{}, false
}

// Function returns the declaration of a registered free function.
func (p *Provider) Function(name string) (FunctionDecl, bool) {
	f, ok := p.functions[name]
	return f, ok
}

// Entity returns the merged view of a class-like symbol: its own members in
// declaration order followed by inherited members (traits, then the parent
// chain, then interfaces), each keeping the name of its declaring entity.
func (p *Provider) Entity(name string) (*EntityDecl, bool) {
	own, ok := p.entities[name]
	if !ok {
		return nil, false
	}

	m := &EntityDecl{
		Name:       own.Name,
		Category:   own.Category,
		Parent:     own.Parent,
		Modifiers:  own.Modifiers,
		DocComment: own.DocComment,
		Constants:  append([]ConstantDecl(nil), own.Constants...),
		Properties: append([]PropertyDecl(nil), own.Properties...),
		Methods:    append([]FunctionDecl(nil), own.Methods...),
	}

	constSeen := make(map[string]bool, len(m.Constants))
	propSeen := make(map[string]bool, len(m.Properties))
	methSeen := make(map[string]bool, len(m.Methods))
	for _, c := range m.Constants {
		constSeen[c.Name] = true
	}
	for _, pr := range m.Properties {
		propSeen[pr.Name] = true
	}
	for _, mt := range m.Methods {
		methSeen[mt.Name] = true
	}

	merge := func(depName string) {
		dep, ok := p.Entity(depName)
		if !ok {
			return
		}
		for _, c := range dep.Constants {
			if !constSeen[c.Name] {
				constSeen[c.Name] = true
				m.Constants = append(m.Constants, c)
			}
		}
		for _, pr := range dep.Properties {
			if !propSeen[pr.Name] {
				propSeen[pr.Name] = true
				m.Properties = append(m.Properties, pr)
			}
		}
		for _, mt := range dep.Methods {
			if !methSeen[mt.Name] {
				methSeen[mt.Name] = true
				m.Methods = append(m.Methods, mt)
			}
		}
	}

	// Precedence mirrors PHP: own members win, then composed traits, then the
	// parent chain, then interface constants and abstract signatures.
	for _, t := range own.Traits {
		merge(t)
	}
	if own.Parent != "" {
		merge(own.Parent)
	}
	for _, i := range own.Interfaces {
		merge(i)
	}

	m.Interfaces = p.mergedInterfaces(own)
	m.Traits = append([]string(nil), own.Traits...)
	sort.Strings(m.Traits)
	return m, true
}

// mergedInterfaces collects every interface name reachable through the
// entity's inheritance edges. An interface's first extended interface is
// reported as its parent, not as part of the set.
func (p *Provider) mergedInterfaces(e *EntityDecl) []string {
	seen := make(map[string]bool)
	var out []string

	var visit func(d *EntityDecl, isRoot bool)
	add := func(n string) {
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		if de, ok := p.entities[n]; ok {
			visit(de, false)
		}
	}
	visit = func(d *EntityDecl, isRoot bool) {
		for _, i := range d.Interfaces {
			add(i)
		}
		if d.Parent == "" {
			return
		}
		if d.Category == model.CategoryInterface && !isRoot {
			add(d.Parent)
			return
		}
		// The root interface's parent is reported via ParentName; a class
		// parent contributes its interfaces without joining the set itself.
		if pe, ok := p.entities[d.Parent]; ok {
			visit(pe, false)
		}
	}
	visit(e, true)

	sort.Strings(out)
	return out
}

// LookupConstantValue resolves a constant reference appearing as a default
// value: either a global constant name or a class constant access such as
// "Foo::BAR" or "self::BAR" (self resolves against selfEntity).
func (p *Provider) LookupConstantValue(ref, selfEntity string) (model.Value, bool) {
	entity, constName, isClassConst := splitClassConst(ref)
	if !isClassConst {
		if c, ok := p.Constant(ref); ok {
			return c.Value, true
		}
		return model.Value{}, false
	}

	if entity == "self" || entity == "static" || entity == "parent" {
		if entity == "parent" {
			own, ok := p.entities[selfEntity]
			if !ok || own.Parent == "" {
				return model.Value{}, false
			}
			entity = own.Parent
		} else {
			entity = selfEntity
		}
	}

	e, ok := p.Entity(entity)
	if !ok {
		return model.Value{}, false
	}
	for _, c := range e.Constants {
		if c.Name == constName {
			return c.Value, true
		}
	}
	return model.Value{}, false
}

func splitClassConst(ref string) (entity, constName string, ok bool) {
	for i := 0; i+1 < len(ref); i++ {
		if ref[i] == ':' && ref[i+1] == ':' {
			return ref[:i], ref[i+2:], true
		}
	}
	return "", ref, false
}

package scan

import (
	"github.com/mvp-joe/phpscope/internal/model"
	"github.com/mvp-joe/phpscope/internal/provider"
)

// builder assembles full metadata records for declared symbols, pulling
// structural facts from the provider and documentation from the shared doc
// resolver cache.
type builder struct {
	provider *provider.Provider
	docs     *docResolver
}

func newBuilder(p *provider.Provider) *builder {
	return &builder{provider: p, docs: newDocResolver()}
}

// buildFunction assembles the record of a free function.
func (b *builder) buildFunction(name string) (model.FunctionRecord, bool) {
	fn, ok := b.provider.Function(name)
	if !ok {
		return model.FunctionRecord{}, false
	}
	return b.functionRecord(fn, ""), true
}

// buildConstant assembles the record of a top-level constant.
func (b *builder) buildConstant(name string) (model.ConstantRecord, bool) {
	c, ok := b.provider.Constant(name)
	if !ok {
		return model.ConstantRecord{}, false
	}
	return b.constantRecord(c, ""), true
}

// buildEntity assembles the full record of a class-like symbol, including
// members with inherited-owner attribution. Property extraction is skipped
// for interfaces, which carry no properties in this model.
func (b *builder) buildEntity(name string) (model.EntityRecord, bool) {
	e, ok := b.provider.Entity(name)
	if !ok {
		return model.EntityRecord{}, false
	}

	block := b.docs.describe(name, e.DocComment)

	record := model.EntityRecord{
		Name:        e.Name,
		Category:    e.Category,
		ParentName:  e.Parent,
		Interfaces:  e.Interfaces,
		Modifiers:   e.Modifiers,
		Description: block.Description,
		Constants:   b.extractConstants(e),
		Methods:     b.extractMethods(e),
	}
	if e.Category != model.CategoryInterface {
		record.Traits = e.Traits
		record.Properties = b.extractProperties(e)
	}
	return record, true
}

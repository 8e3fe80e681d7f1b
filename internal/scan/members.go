package scan

import (
	"github.com/mvp-joe/phpscope/internal/model"
	"github.com/mvp-joe/phpscope/internal/phpdoc"
	"github.com/mvp-joe/phpscope/internal/provider"
)

// docIdentity builds the stable cache key for a symbol: the declaring entity
// plus member name, or the bare name for top-level symbols.
func docIdentity(declaredIn, name string) string {
	if declaredIn == "" {
		return name
	}
	return declaredIn + "::" + name
}

// ownerOf computes the declaring-owner marker: "self" when the member is
// declared on the entity being reported, otherwise the ancestor's name.
func ownerOf(declaredIn, current string) string {
	if declaredIn == "" || declaredIn == current {
		return model.OwnerSelf
	}
	return declaredIn
}

// effectiveValue resolves a constant reference to the referenced constant's
// current value so its dynamic type can serve as a resolution fallback.
// Literals pass through unchanged.
func (b *builder) effectiveValue(v model.Value, selfEntity string) model.Value {
	if v.Kind != model.KindConstRef {
		return v
	}
	if resolved, ok := b.provider.LookupConstantValue(v.Ref, selfEntity); ok {
		return resolved
	}
	return model.Value{Kind: model.KindUnknown, Raw: v.Raw}
}

// defaultString renders a default value for the report. A reference to a
// named constant is recorded symbolically rather than by its current value.
func defaultString(v model.Value) string {
	if v.Kind == model.KindConstRef {
		return "const " + v.Ref
	}
	return v.Raw
}

// extractConstants builds the constant records of one class-like entity,
// own and inherited.
func (b *builder) extractConstants(e *provider.EntityDecl) map[string]model.ConstantRecord {
	out := make(map[string]model.ConstantRecord, len(e.Constants))
	for _, c := range e.Constants {
		out[c.Name] = b.constantRecord(c, e.Name)
	}
	return out
}

// constantRecord converts one constant declaration; current is the entity
// being reported, empty for top-level constants.
func (b *builder) constantRecord(c provider.ConstantDecl, current string) model.ConstantRecord {
	block := b.docs.describe(docIdentity(c.DeclaredIn, c.Name), c.DocComment)
	value := b.effectiveValue(c.Value, c.DeclaredIn)

	return model.ConstantRecord{
		Name:         c.Name,
		DeclaredType: value.TypeName(),
		Value:        c.Value.Raw,
		Modifiers:    c.Modifiers,
		Description:  block.Description,
		Owner:        ownerOf(c.DeclaredIn, current),
	}
}

// extractProperties builds the property records of one class-like entity.
// Interfaces carry no properties; callers skip this extractor for them.
func (b *builder) extractProperties(e *provider.EntityDecl) map[string]model.PropertyRecord {
	out := make(map[string]model.PropertyRecord, len(e.Properties))
	for _, p := range e.Properties {
		identity := docIdentity(p.DeclaredIn, p.Name)
		block := b.docs.describe(identity, p.DocComment)

		docType := ""
		if tags := b.docs.tagsNamed(identity, p.DocComment, "var"); len(tags) > 0 {
			docType = tags[0].Type
		}

		record := model.PropertyRecord{
			Name:         p.Name,
			ResolvedType: resolveType(p.DeclaredType, docType, b.effectiveValue(p.Default, p.DeclaredIn)),
			Modifiers:    p.Modifiers,
			Description:  block.Description,
			Owner:        ownerOf(p.DeclaredIn, e.Name),
		}
		if p.HasDefault {
			record.HasDefault = true
			record.DefaultValue = defaultString(p.Default)
		}
		out[p.Name] = record
	}
	return out
}

// extractMethods builds the method records of one class-like entity.
func (b *builder) extractMethods(e *provider.EntityDecl) map[string]model.FunctionRecord {
	out := make(map[string]model.FunctionRecord, len(e.Methods))
	for _, m := range e.Methods {
		out[m.Name] = b.functionRecord(m, e.Name)
	}
	return out
}

// functionRecord converts one function or method declaration; current is the
// entity being reported, empty for free functions.
func (b *builder) functionRecord(fn provider.FunctionDecl, current string) model.FunctionRecord {
	identity := docIdentity(fn.DeclaredIn, fn.Name)
	block := b.docs.describe(identity, fn.DocComment)

	docReturn := ""
	if tags := b.docs.tagsNamed(identity, fn.DocComment, "return"); len(tags) > 0 {
		docReturn = tags[0].Type
	}

	return model.FunctionRecord{
		Name:        fn.Name,
		Parameters:  b.extractParameters(fn, identity),
		ReturnType:  resolveReturnType(fn.ReturnType, docReturn),
		Modifiers:   fn.Modifiers,
		Description: block.Description,
		Owner:       ownerOf(fn.DeclaredIn, current),
	}
}

// extractParameters builds parameter records in declaration order. Param tags
// are indexed by parameter name first, so documentation order does not need
// to match declaration order.
func (b *builder) extractParameters(fn provider.FunctionDecl, identity string) []model.ParameterRecord {
	tagByName := make(map[string]phpdoc.Tag)
	for _, tag := range b.docs.tagsNamed(identity, fn.DocComment, "param") {
		if tag.Var == "" {
			continue
		}
		if _, ok := tagByName[tag.Var]; !ok {
			tagByName[tag.Var] = tag
		}
	}

	out := make([]model.ParameterRecord, 0, len(fn.Params))
	for _, p := range fn.Params {
		tag := tagByName[p.Name]

		record := model.ParameterRecord{
			Name:         p.Name,
			ResolvedType: resolveType(p.DeclaredType, tag.Type, b.effectiveValue(p.Default, fn.DeclaredIn)),
			Description:  tag.Description,
			IsOptional:   p.Optional(),
		}
		if p.HasDefault {
			record.HasDefault = true
			record.DefaultValue = defaultString(p.Default)
		}
		out = append(out, record)
	}
	return out
}

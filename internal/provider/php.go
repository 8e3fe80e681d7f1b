package provider

import (
	"fmt"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/phpscope/internal/model"
)

var phpLanguage = sitter.NewLanguage(php.LanguagePHP())

// fileDecls holds every top-level declaration parsed out of one file, in
// declaration order.
type fileDecls struct {
	constants []ConstantDecl
	functions []FunctionDecl
	entities  []*EntityDecl
}

// parseFile parses a PHP source file and extracts its top-level declarations.
func parseFile(path string) (*fileDecls, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceLoad, err)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(phpLanguage)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: failed to parse %s", ErrSourceLoad, path)
	}
	defer tree.Close()

	// Tree-sitter recovers from bad input by emitting ERROR nodes instead of
	// failing, so an explicit check is needed to keep unparsable files fatal.
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: syntax error in %s", ErrSourceLoad, path)
	}

	decls := &fileDecls{}
	extractScope(root, source, decls)
	return decls, nil
}

// extractScope walks one statement list (the program or a namespace body) and
// collects declarations. A docblock comment immediately preceding a
// declaration is attached to it.
func extractScope(container *sitter.Node, source []byte, decls *fileDecls) {
	pendingDoc := ""

	for i := 0; i < int(container.ChildCount()); i++ {
		child := container.Child(uint(i))

		switch child.Kind() {
		case "comment":
			text := extractNodeText(child, source)
			if strings.HasPrefix(text, "/**") {
				pendingDoc = text
			} else {
				pendingDoc = ""
			}
			continue
		case "php_tag", "text", "text_interpolation":
			continue
		case "namespace_definition":
			if body := child.ChildByFieldName("body"); body != nil {
				extractScope(body, source, decls)
			}
		case "class_declaration":
			decls.entities = append(decls.entities, extractEntity(child, source, model.CategoryClass, pendingDoc))
		case "interface_declaration":
			decls.entities = append(decls.entities, extractEntity(child, source, model.CategoryInterface, pendingDoc))
		case "trait_declaration":
			decls.entities = append(decls.entities, extractEntity(child, source, model.CategoryTrait, pendingDoc))
		case "function_definition":
			decls.functions = append(decls.functions, extractFunction(child, source, pendingDoc, ""))
		case "const_declaration":
			decls.constants = append(decls.constants, extractConstElements(child, source, pendingDoc, "")...)
		case "expression_statement":
			if c, ok := extractDefineCall(child, source, pendingDoc); ok {
				decls.constants = append(decls.constants, c)
			}
		}
		pendingDoc = ""
	}
}

// extractEntity extracts a class, interface, or trait declaration.
func extractEntity(node *sitter.Node, source []byte, cat model.SymbolCategory, doc string) *EntityDecl {
	e := &EntityDecl{
		Category:   cat,
		DocComment: doc,
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		e.Name = extractNodeText(nameNode, source)
	}

	var mods []model.Modifier
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(uint(i)).Kind() {
		case "abstract_modifier":
			mods = append(mods, model.ModifierAbstract)
		case "final_modifier":
			mods = append(mods, model.ModifierFinal)
		case "readonly_modifier":
			mods = append(mods, model.ModifierReadonly)
		}
	}
	e.Modifiers = model.NewModifiers(mods...)

	// extends: classes get a single parent; interfaces may extend several, so
	// the first extended interface becomes the parent and the rest join the
	// interface set.
	if base := findChildByType(node, "base_clause"); base != nil {
		parents := namedChildTexts(base, "name", source)
		if len(parents) > 0 {
			e.Parent = parents[0]
			if cat == model.CategoryInterface {
				e.Interfaces = append(e.Interfaces, parents[1:]...)
			}
		}
	}
	if impl := findChildByType(node, "class_interface_clause"); impl != nil {
		e.Interfaces = append(e.Interfaces, namedChildTexts(impl, "name", source)...)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		extractMembers(body, source, e)
	}
	return e
}

// extractMembers walks a class-like body (declaration_list) and collects
// constants, properties, methods, and trait use declarations.
func extractMembers(body *sitter.Node, source []byte, e *EntityDecl) {
	pendingDoc := ""

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))

		switch child.Kind() {
		case "comment":
			text := extractNodeText(child, source)
			if strings.HasPrefix(text, "/**") {
				pendingDoc = text
			} else {
				pendingDoc = ""
			}
			continue
		case "const_declaration":
			e.Constants = append(e.Constants, extractConstElements(child, source, pendingDoc, e.Name)...)
		case "property_declaration":
			e.Properties = append(e.Properties, extractProperties(child, source, pendingDoc, e.Name)...)
		case "method_declaration":
			e.Methods = append(e.Methods, extractFunction(child, source, pendingDoc, e.Name))
		case "use_declaration":
			e.Traits = append(e.Traits, namedChildTexts(child, "name", source)...)
		}
		pendingDoc = ""
	}
}

// extractConstElements extracts every const_element of a const declaration.
// Class constants default to public visibility when none is written.
func extractConstElements(node *sitter.Node, source []byte, doc, declaredIn string) []ConstantDecl {
	var mods []model.Modifier
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "visibility_modifier":
			mods = append(mods, model.Modifier(extractNodeText(child, source)))
		case "final_modifier":
			mods = append(mods, model.ModifierFinal)
		}
	}
	modifiers := memberModifiers(mods, declaredIn != "")

	var out []ConstantDecl
	for _, elem := range findChildrenByType(node, "const_element") {
		c := ConstantDecl{
			Modifiers:  modifiers,
			DocComment: doc,
			DeclaredIn: declaredIn,
		}
		if nameNode := elem.ChildByFieldName("name"); nameNode != nil {
			c.Name = extractNodeText(nameNode, source)
		} else if nameNode := findChildByType(elem, "name"); nameNode != nil {
			c.Name = extractNodeText(nameNode, source)
		}
		if valueNode := initializerNode(elem); valueNode != nil {
			c.Value = classifyValue(valueNode, source)
		}
		out = append(out, c)
	}
	return out
}

// extractProperties extracts every property_element of a property declaration.
func extractProperties(node *sitter.Node, source []byte, doc, declaredIn string) []PropertyDecl {
	var mods []model.Modifier
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "visibility_modifier":
			mods = append(mods, model.Modifier(extractNodeText(child, source)))
		case "static_modifier":
			mods = append(mods, model.ModifierStatic)
		case "readonly_modifier":
			mods = append(mods, model.ModifierReadonly)
		case "var_modifier":
			mods = append(mods, model.ModifierPublic)
		}
	}
	modifiers := memberModifiers(mods, true)

	declaredType, nullable := typeText(node.ChildByFieldName("type"), source)

	var out []PropertyDecl
	for _, elem := range findChildrenByType(node, "property_element") {
		p := PropertyDecl{
			DeclaredType: declaredType,
			Nullable:     nullable,
			Modifiers:    modifiers,
			DocComment:   doc,
			DeclaredIn:   declaredIn,
		}
		if nameNode := findChildByType(elem, "variable_name"); nameNode != nil {
			p.Name = strings.TrimPrefix(extractNodeText(nameNode, source), "$")
		}
		if valueNode := initializerNode(elem); valueNode != nil {
			p.HasDefault = true
			p.Default = classifyValue(valueNode, source)
		}
		out = append(out, p)
	}
	return out
}

// extractFunction extracts a function_definition or method_declaration.
// declaredIn is empty for free functions.
func extractFunction(node *sitter.Node, source []byte, doc, declaredIn string) FunctionDecl {
	f := FunctionDecl{
		DocComment: doc,
		DeclaredIn: declaredIn,
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		f.Name = extractNodeText(nameNode, source)
	}

	if declaredIn != "" {
		var mods []model.Modifier
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			switch child.Kind() {
			case "visibility_modifier":
				mods = append(mods, model.Modifier(extractNodeText(child, source)))
			case "static_modifier":
				mods = append(mods, model.ModifierStatic)
			case "abstract_modifier":
				mods = append(mods, model.ModifierAbstract)
			case "final_modifier":
				mods = append(mods, model.ModifierFinal)
			}
		}
		f.Modifiers = memberModifiers(mods, true)
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		f.Params = extractParams(params, source)
	}
	f.ReturnType, _ = typeText(returnTypeNode(node), source)
	return f
}

// extractParams extracts the parameter list in declaration order.
func extractParams(paramsNode *sitter.Node, source []byte) []ParamDecl {
	var out []ParamDecl

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))

		switch child.Kind() {
		case "simple_parameter", "property_promotion_parameter":
			p := ParamDecl{}
			p.DeclaredType, p.Nullable = typeText(child.ChildByFieldName("type"), source)
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				p.Name = strings.TrimPrefix(extractNodeText(nameNode, source), "$")
			}
			defaultNode := child.ChildByFieldName("default_value")
			if defaultNode == nil {
				defaultNode = initializerNode(child)
			}
			if defaultNode != nil {
				p.HasDefault = true
				p.Default = classifyValue(defaultNode, source)
			}
			p.ByRef = findChildByType(child, "reference_modifier") != nil
			out = append(out, p)
		case "variadic_parameter":
			p := ParamDecl{Variadic: true}
			p.DeclaredType, p.Nullable = typeText(child.ChildByFieldName("type"), source)
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				p.Name = strings.TrimPrefix(extractNodeText(nameNode, source), "$")
			}
			out = append(out, p)
		}
	}
	return out
}

// extractDefineCall recognizes a top-level define('NAME', value) statement and
// turns it into a constant declaration, mirroring how the PHP runtime
// registers such constants alongside const declarations.
func extractDefineCall(stmt *sitter.Node, source []byte, doc string) (ConstantDecl, bool) {
	call := findChildByType(stmt, "function_call_expression")
	if call == nil {
		return ConstantDecl{}, false
	}
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "name" || !strings.EqualFold(extractNodeText(fn, source), "define") {
		return ConstantDecl{}, false
	}
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ConstantDecl{}, false
	}

	arguments := findChildrenByType(args, "argument")
	if len(arguments) < 2 {
		return ConstantDecl{}, false
	}
	nameArg := firstNamedChild(arguments[0])
	valueArg := firstNamedChild(arguments[1])
	if nameArg == nil || valueArg == nil {
		return ConstantDecl{}, false
	}
	nameValue := classifyValue(nameArg, source)
	if nameValue.Kind != model.KindString {
		return ConstantDecl{}, false
	}

	return ConstantDecl{
		Name:       stripQuotes(nameValue.Raw),
		Value:      classifyValue(valueArg, source),
		DocComment: doc,
	}, true
}

// typeText renders a declared type node. Union and intersection types are
// joined member-wise in declaration order; a leading "?" is stripped and
// reported through the nullable flag.
func typeText(node *sitter.Node, source []byte) (string, bool) {
	if node == nil {
		return "", false
	}

	switch node.Kind() {
	case "optional_type":
		if inner := firstNamedChild(node); inner != nil {
			text, _ := typeText(inner, source)
			return text, true
		}
		return strings.TrimPrefix(extractNodeText(node, source), "?"), true
	case "union_type", "intersection_type":
		sep := "|"
		if node.Kind() == "intersection_type" {
			sep = "&"
		}
		var parts []string
		nullable := false
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if !child.IsNamed() {
				continue
			}
			text, n := typeText(child, source)
			nullable = nullable || n || text == "null"
			parts = append(parts, text)
		}
		return strings.Join(parts, sep), nullable
	default:
		return extractNodeText(node, source), false
	}
}

// returnTypeNode finds the declared return type: the node following the ":"
// after the parameter list.
func returnTypeNode(fn *sitter.Node) *sitter.Node {
	if rt := fn.ChildByFieldName("return_type"); rt != nil {
		return rt
	}
	sawColon := false
	for i := 0; i < int(fn.ChildCount()); i++ {
		child := fn.Child(uint(i))
		if !sawColon {
			if !child.IsNamed() && child.Kind() == ":" {
				sawColon = true
			}
			continue
		}
		if child.IsNamed() {
			return child
		}
	}
	return nil
}

// classifyValue maps a literal expression node to the tagged value
// representation. References to named constants are tagged KindConstRef and
// resolved later against the symbol table.
func classifyValue(node *sitter.Node, source []byte) model.Value {
	raw := extractNodeText(node, source)

	switch node.Kind() {
	case "integer":
		return model.Value{Kind: model.KindInt, Raw: raw}
	case "float":
		return model.Value{Kind: model.KindFloat, Raw: raw}
	case "string", "encapsed_string", "heredoc", "nowdoc":
		return model.Value{Kind: model.KindString, Raw: raw}
	case "boolean", "true", "false":
		return model.Value{Kind: model.KindBool, Raw: raw}
	case "null":
		return model.Value{Kind: model.KindNull, Raw: raw}
	case "array_creation_expression":
		return model.Value{Kind: model.KindArray, Raw: raw}
	case "unary_op_expression":
		if inner := firstNamedChild(node); inner != nil {
			v := classifyValue(inner, source)
			v.Raw = raw
			return v
		}
		return model.Value{Kind: model.KindUnknown, Raw: raw}
	case "name", "qualified_name":
		switch strings.ToLower(raw) {
		case "true", "false":
			return model.Value{Kind: model.KindBool, Raw: strings.ToLower(raw)}
		case "null":
			return model.Value{Kind: model.KindNull, Raw: "null"}
		}
		return model.Value{Kind: model.KindConstRef, Raw: raw, Ref: raw}
	case "class_constant_access_expression":
		return model.Value{Kind: model.KindConstRef, Raw: raw, Ref: raw}
	default:
		return model.Value{Kind: model.KindUnknown, Raw: raw}
	}
}

// memberModifiers normalizes a member's modifier list, adding the implicit
// public visibility for class members that declare none.
func memberModifiers(mods []model.Modifier, classMember bool) model.Modifiers {
	set := model.NewModifiers(mods...)
	if !classMember {
		return set
	}
	if !set.Has(model.ModifierPublic) && !set.Has(model.ModifierProtected) && !set.Has(model.ModifierPrivate) {
		set = model.NewModifiers(append(mods, model.ModifierPublic)...)
	}
	return set
}

// initializerNode returns the value node following an "=" inside a
// declaration element, if any.
func initializerNode(elem *sitter.Node) *sitter.Node {
	sawEquals := false
	for i := 0; i < int(elem.ChildCount()); i++ {
		child := elem.Child(uint(i))
		if !sawEquals {
			if !child.IsNamed() && child.Kind() == "=" {
				sawEquals = true
			}
			continue
		}
		if child.IsNamed() {
			return child
		}
	}
	return nil
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.IsNamed() {
			return child
		}
	}
	return nil
}

func namedChildTexts(node *sitter.Node, kind string, source []byte) []string {
	var out []string
	for _, child := range findChildrenByType(node, kind) {
		out = append(out, extractNodeText(child, source))
	}
	return out
}

func stripQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

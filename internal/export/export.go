// Package export renders a FileReport as human-readable text or as JSON. Both
// renderers are pure functions of the report: rendering the same report twice
// produces byte-identical output.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mvp-joe/phpscope/internal/model"
)

// JSON renders the report in the machine-readable mode, preserving the full
// data model.
func JSON(r *model.FileReport) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(out, '\n'), nil
}

// Text renders the report as an indented, human-readable tree. Category blocks
// keep the report's declaration order; members within an entity are sorted by
// name.
func Text(r *model.FileReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", r.FilePath)

	fmt.Fprintf(&b, "\nConstants (%d):\n", len(r.Constants))
	for _, c := range r.Constants {
		writeConstant(&b, "  ", c)
	}

	fmt.Fprintf(&b, "\nFunctions (%d):\n", len(r.Functions))
	for _, f := range r.Functions {
		writeFunction(&b, "  ", f)
	}

	writeEntities(&b, "Interfaces", r.Interfaces)
	writeEntities(&b, "Traits", r.Traits)
	writeEntities(&b, "Classes", r.Classes)

	return b.String()
}

func writeEntities(b *strings.Builder, label string, entities []model.EntityRecord) {
	fmt.Fprintf(b, "\n%s (%d):\n", label, len(entities))
	for _, e := range entities {
		writeEntity(b, e)
	}
}

func writeEntity(b *strings.Builder, e model.EntityRecord) {
	fmt.Fprintf(b, "  %s %s", e.Category, e.Name)
	if e.ParentName != "" {
		fmt.Fprintf(b, " extends %s", e.ParentName)
	}
	if len(e.Interfaces) > 0 {
		fmt.Fprintf(b, " implements %s", strings.Join(e.Interfaces, ", "))
	}
	if len(e.Traits) > 0 {
		fmt.Fprintf(b, " uses %s", strings.Join(e.Traits, ", "))
	}
	writeModifiers(b, e.Modifiers)
	b.WriteString("\n")
	writeDescription(b, "      ", e.Description)

	if len(e.Constants) > 0 {
		b.WriteString("    constants:\n")
		for _, name := range sortedKeys(e.Constants) {
			writeConstant(b, "      ", e.Constants[name])
		}
	}
	if len(e.Properties) > 0 {
		b.WriteString("    properties:\n")
		for _, name := range sortedKeys(e.Properties) {
			writeProperty(b, "      ", e.Properties[name])
		}
	}
	if len(e.Methods) > 0 {
		b.WriteString("    methods:\n")
		for _, name := range sortedKeys(e.Methods) {
			writeFunction(b, "      ", e.Methods[name])
		}
	}
}

func writeConstant(b *strings.Builder, indent string, c model.ConstantRecord) {
	fmt.Fprintf(b, "%s%s = %s", indent, c.Name, c.Value)
	if c.DeclaredType != "" {
		fmt.Fprintf(b, " (%s)", c.DeclaredType)
	}
	writeModifiers(b, c.Modifiers)
	writeOwner(b, c.Owner)
	b.WriteString("\n")
	writeDescription(b, indent+"    ", c.Description)
}

func writeProperty(b *strings.Builder, indent string, p model.PropertyRecord) {
	fmt.Fprintf(b, "%s$%s", indent, p.Name)
	if p.ResolvedType != "" {
		fmt.Fprintf(b, ": %s", p.ResolvedType)
	}
	if p.HasDefault {
		fmt.Fprintf(b, " = %s", p.DefaultValue)
	}
	writeModifiers(b, p.Modifiers)
	writeOwner(b, p.Owner)
	b.WriteString("\n")
	writeDescription(b, indent+"    ", p.Description)
}

func writeFunction(b *strings.Builder, indent string, f model.FunctionRecord) {
	fmt.Fprintf(b, "%s%s(%s)", indent, f.Name, signature(f.Parameters))
	if f.ReturnType != "" {
		fmt.Fprintf(b, ": %s", f.ReturnType)
	}
	writeModifiers(b, f.Modifiers)
	writeOwner(b, f.Owner)
	b.WriteString("\n")
	writeDescription(b, indent+"    ", f.Description)
}

func signature(params []model.ParameterRecord) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		var sb strings.Builder
		if p.ResolvedType != "" {
			sb.WriteString(p.ResolvedType)
			sb.WriteString(" ")
		}
		sb.WriteString("$")
		sb.WriteString(p.Name)
		if p.HasDefault {
			sb.WriteString(" = ")
			sb.WriteString(p.DefaultValue)
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ", ")
}

func writeModifiers(b *strings.Builder, mods model.Modifiers) {
	if len(mods) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(mods.Strings(), " "))
	}
}

func writeOwner(b *strings.Builder, owner string) {
	if owner != "" && owner != model.OwnerSelf {
		fmt.Fprintf(b, " (from %s)", owner)
	}
}

func writeDescription(b *strings.Builder, indent, description string) {
	if description == "" {
		return
	}
	for _, line := range strings.Split(description, "\n") {
		fmt.Fprintf(b, "%s%s\n", indent, line)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

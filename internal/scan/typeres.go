package scan

import (
	"strings"

	"github.com/mvp-joe/phpscope/internal/model"
)

// Type markers. The unknown marker is the empty string; functions with no
// declared or documented return type resolve to the void marker instead.
const (
	TypeUnknown = ""
	TypeVoid    = "void"
)

// typeAliases is the single home of the alias normalization rules: verbose
// type names collapse to their canonical short forms.
var typeAliases = map[string]string{
	"boolean": "bool",
	"integer": "int",
	"double":  "float",
	"real":    "float",
}

// normalizeType applies alias normalization member-wise, preserving union and
// intersection member order.
func normalizeType(t string) string {
	if t == "" {
		return TypeUnknown
	}

	sep := ""
	switch {
	case strings.Contains(t, "|"):
		sep = "|"
	case strings.Contains(t, "&"):
		sep = "&"
	}
	if sep == "" {
		return normalizeOne(t)
	}

	parts := strings.Split(t, sep)
	for i, part := range parts {
		parts[i] = normalizeOne(part)
	}
	return strings.Join(parts, sep)
}

func normalizeOne(t string) string {
	t = strings.TrimSpace(t)
	if canonical, ok := typeAliases[strings.ToLower(t)]; ok {
		return canonical
	}
	return t
}

// resolveType implements the resolution precedence: the declared site type
// wins, then the documented type, then the dynamic type of the sample value,
// then the unknown marker.
func resolveType(siteType, docType string, sample model.Value) string {
	if siteType != "" {
		return normalizeType(siteType)
	}
	if docType != "" {
		return normalizeType(docType)
	}
	if t := sample.TypeName(); t != "" {
		return t
	}
	return TypeUnknown
}

// resolveReturnType is the return-type variant: with neither a declared return
// type nor a documented one, a function returns no value rather than an
// unknown one.
func resolveReturnType(siteType, docType string) string {
	if siteType != "" {
		return normalizeType(siteType)
	}
	if docType != "" {
		return normalizeType(docType)
	}
	return TypeVoid
}

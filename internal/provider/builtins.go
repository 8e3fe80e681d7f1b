package provider

import (
	"sort"

	"github.com/mvp-joe/phpscope/internal/model"
)

// Builtin baseline: names that exist in every PHP runtime before any user file
// is loaded. The scanner's diff never reports these, and a file redeclaring
// one fails with ErrDuplicateDeclaration. The lists cover the symbols a
// single-file scan is realistically going to collide with or reference; they
// are not an exhaustive catalog of the PHP standard library.

var builtinConstants = map[string]model.Value{
	"PHP_EOL":             {Kind: model.KindString, Raw: `"\n"`},
	"PHP_VERSION":         {Kind: model.KindString, Raw: `"8.3.0"`},
	"PHP_OS":              {Kind: model.KindString, Raw: `"Linux"`},
	"PHP_INT_MAX":         {Kind: model.KindInt, Raw: "9223372036854775807"},
	"PHP_INT_MIN":         {Kind: model.KindInt, Raw: "-9223372036854775808"},
	"PHP_INT_SIZE":        {Kind: model.KindInt, Raw: "8"},
	"PHP_FLOAT_EPSILON":   {Kind: model.KindFloat, Raw: "2.220446049250313E-16"},
	"PHP_FLOAT_MAX":       {Kind: model.KindFloat, Raw: "1.7976931348623157E+308"},
	"DIRECTORY_SEPARATOR": {Kind: model.KindString, Raw: `"/"`},
	"PATH_SEPARATOR":      {Kind: model.KindString, Raw: `":"`},
	"E_ALL":               {Kind: model.KindInt, Raw: "32767"},
	"E_ERROR":             {Kind: model.KindInt, Raw: "1"},
	"E_WARNING":           {Kind: model.KindInt, Raw: "2"},
	"E_NOTICE":            {Kind: model.KindInt, Raw: "8"},
	"M_PI":                {Kind: model.KindFloat, Raw: "3.141592653589793"},
	"SORT_REGULAR":        {Kind: model.KindInt, Raw: "0"},
	"JSON_PRETTY_PRINT":   {Kind: model.KindInt, Raw: "128"},
}

var builtinFunctions = []string{
	"array_filter", "array_key_exists", "array_keys", "array_map",
	"array_merge", "array_values", "count", "define", "defined", "explode",
	"implode", "in_array", "is_array", "is_bool", "is_callable", "is_float",
	"is_int", "is_null", "is_string", "json_decode", "json_encode", "printf",
	"sprintf", "str_contains", "str_replace", "strlen", "strtolower",
	"strtoupper", "substr", "trim", "var_dump",
}

var builtinClasses = []string{
	"ArrayIterator", "ArrayObject", "DateTime", "DateTimeImmutable",
	"Error", "ErrorException", "Exception", "Generator",
	"InvalidArgumentException", "LogicException", "RuntimeException",
	"SplObjectStorage", "SplStack", "TypeError", "ValueError", "stdClass",
}

var builtinInterfaces = []string{
	"ArrayAccess", "Countable", "Iterator", "IteratorAggregate",
	"JsonSerializable", "Serializable", "Stringable", "Throwable",
	"Traversable",
}

func (p *Provider) seedBuiltins() {
	for _, name := range builtinFunctions {
		p.names[model.CategoryFunction] = append(p.names[model.CategoryFunction], name)
	}
	constNames := make([]string, 0, len(builtinConstants))
	for name := range builtinConstants {
		constNames = append(constNames, name)
	}
	sort.Strings(constNames)
	p.names[model.CategoryConstant] = append(p.names[model.CategoryConstant], constNames...)
	for _, name := range builtinInterfaces {
		p.names[model.CategoryInterface] = append(p.names[model.CategoryInterface], name)
	}
	for _, name := range builtinClasses {
		p.names[model.CategoryClass] = append(p.names[model.CategoryClass], name)
	}
}

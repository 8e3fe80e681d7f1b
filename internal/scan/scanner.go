// Package scan implements the metadata-extraction pipeline: it loads one PHP
// source file through an isolated provider symbol table, determines which
// symbols the file introduced, and assembles a normalized FileReport for them.
package scan

import (
	"github.com/mvp-joe/phpscope/internal/model"
	"github.com/mvp-joe/phpscope/internal/provider"
)

// Scanner scans files against one provider namespace. A Scanner is not safe
// for concurrent use; create one per scan (or per goroutine) instead.
type Scanner struct {
	provider *provider.Provider
	builder  *builder
}

// NewScanner creates a Scanner over the given provider namespace.
func NewScanner(p *provider.Provider) *Scanner {
	return &Scanner{provider: p, builder: newBuilder(p)}
}

// Scan loads the file and reports every symbol it newly introduced. The diff
// is name-based: a name already present in the namespace before the load is
// never reported. Load failures (missing file, parse failure, duplicate
// declaration) are fatal and yield no report.
func (s *Scanner) Scan(filePath string) (*model.FileReport, error) {
	baseline := make(map[model.SymbolCategory]map[string]bool)
	for _, cat := range model.Categories() {
		baseline[cat] = make(map[string]bool)
		for _, name := range s.provider.Names(cat) {
			baseline[cat][name] = true
		}
	}

	if err := s.provider.Load(filePath); err != nil {
		return nil, err
	}

	introduced := func(cat model.SymbolCategory) []string {
		out := make([]string, 0)
		for _, name := range s.provider.Names(cat) {
			if !baseline[cat][name] {
				out = append(out, name)
			}
		}
		return out
	}

	report := &model.FileReport{
		FilePath:   filePath,
		Constants:  make([]model.ConstantRecord, 0),
		Functions:  make([]model.FunctionRecord, 0),
		Interfaces: make([]model.EntityRecord, 0),
		Traits:     make([]model.EntityRecord, 0),
		Classes:    make([]model.EntityRecord, 0),
	}

	for _, name := range introduced(model.CategoryConstant) {
		if record, ok := s.builder.buildConstant(name); ok {
			report.Constants = append(report.Constants, record)
		}
	}
	for _, name := range introduced(model.CategoryFunction) {
		if record, ok := s.builder.buildFunction(name); ok {
			report.Functions = append(report.Functions, record)
		}
	}
	for _, name := range introduced(model.CategoryInterface) {
		if record, ok := s.builder.buildEntity(name); ok {
			report.Interfaces = append(report.Interfaces, record)
		}
	}
	for _, name := range introduced(model.CategoryTrait) {
		if record, ok := s.builder.buildEntity(name); ok {
			report.Traits = append(report.Traits, record)
		}
	}
	for _, name := range introduced(model.CategoryClass) {
		if record, ok := s.builder.buildEntity(name); ok {
			report.Classes = append(report.Classes, record)
		}
	}

	return report, nil
}

// ExportFile scans a single file in a fresh namespace seeded with the builtin
// baseline. This is the one-shot entry point used by the CLI and MCP
// surfaces.
func ExportFile(filePath string) (*model.FileReport, error) {
	return NewScanner(provider.New()).Scan(filePath)
}

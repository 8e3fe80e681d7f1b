package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mvp-joe/phpscope/internal/model"
)

// ReportWriter writes file reports to SQLite. One report becomes one scans
// row plus its symbols, members, and parameters, written in a single
// transaction.
type ReportWriter struct {
	db *sql.DB
}

// NewReportWriter creates a ReportWriter. The DB must have the schema already
// created via CreateSchema or Open.
func NewReportWriter(db *sql.DB) *ReportWriter {
	return &ReportWriter{db: db}
}

// WriteReport persists the report and returns the generated scan id.
func (w *ReportWriter) WriteReport(r *model.FileReport) (string, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	scanID := uuid.New().String()
	scanSQL, _, err := sq.Insert("scans").
		Columns("scan_id", "file_path", "created_at").
		Values("", "", "").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build scan SQL: %w", err)
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(scanSQL, scanID, r.FilePath, createdAt); err != nil {
		return "", fmt.Errorf("failed to insert scan: %w", err)
	}

	stmts, err := prepareInsertStatements(tx)
	if err != nil {
		return "", err
	}
	defer stmts.close()

	position := 0
	writeEntity := func(e model.EntityRecord) error {
		symbolID := uuid.New().String()
		if _, err := stmts.symbol.Exec(
			symbolID, scanID, e.Name, string(e.Category), e.ParentName,
			strings.Join(e.Interfaces, ","), strings.Join(e.Traits, ","),
			joinModifiers(e.Modifiers), e.Description, position,
		); err != nil {
			return fmt.Errorf("failed to insert symbol %s: %w", e.Name, err)
		}
		position++

		for _, name := range sortedKeys(e.Constants) {
			c := e.Constants[name]
			if _, err := stmts.member.Exec(
				uuid.New().String(), symbolID, "constant", c.Name,
				c.DeclaredType, c.Value, "", false, "",
				joinModifiers(c.Modifiers), c.Description, c.Owner,
			); err != nil {
				return fmt.Errorf("failed to insert constant %s::%s: %w", e.Name, c.Name, err)
			}
		}
		for _, name := range sortedKeys(e.Properties) {
			p := e.Properties[name]
			if _, err := stmts.member.Exec(
				uuid.New().String(), symbolID, "property", p.Name,
				p.ResolvedType, "", p.DefaultValue, p.HasDefault, "",
				joinModifiers(p.Modifiers), p.Description, p.Owner,
			); err != nil {
				return fmt.Errorf("failed to insert property %s::%s: %w", e.Name, p.Name, err)
			}
		}
		for _, name := range sortedKeys(e.Methods) {
			if err := stmts.writeFunction(symbolID, "method", e.Methods[name]); err != nil {
				return fmt.Errorf("failed to insert method %s::%s: %w", e.Name, name, err)
			}
		}
		return nil
	}

	for _, c := range r.Constants {
		symbolID := uuid.New().String()
		if _, err := stmts.symbol.Exec(
			symbolID, scanID, c.Name, string(model.CategoryConstant), "", "", "",
			joinModifiers(c.Modifiers), c.Description, position,
		); err != nil {
			return "", fmt.Errorf("failed to insert constant %s: %w", c.Name, err)
		}
		position++
		if _, err := stmts.member.Exec(
			uuid.New().String(), symbolID, "constant", c.Name,
			c.DeclaredType, c.Value, "", false, "",
			joinModifiers(c.Modifiers), c.Description, c.Owner,
		); err != nil {
			return "", fmt.Errorf("failed to insert constant %s: %w", c.Name, err)
		}
	}

	for _, f := range r.Functions {
		symbolID := uuid.New().String()
		if _, err := stmts.symbol.Exec(
			symbolID, scanID, f.Name, string(model.CategoryFunction), "", "", "",
			joinModifiers(f.Modifiers), f.Description, position,
		); err != nil {
			return "", fmt.Errorf("failed to insert function %s: %w", f.Name, err)
		}
		position++
		if err := stmts.writeFunction(symbolID, "function", f); err != nil {
			return "", fmt.Errorf("failed to insert function %s: %w", f.Name, err)
		}
	}

	for _, e := range r.Interfaces {
		if err := writeEntity(e); err != nil {
			return "", err
		}
	}
	for _, e := range r.Traits {
		if err := writeEntity(e); err != nil {
			return "", err
		}
	}
	for _, e := range r.Classes {
		if err := writeEntity(e); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit report: %w", err)
	}
	return scanID, nil
}

// insertStatements holds the prepared statements shared by one report write.
type insertStatements struct {
	symbol    *sql.Stmt
	member    *sql.Stmt
	parameter *sql.Stmt
}

func prepareInsertStatements(tx *sql.Tx) (*insertStatements, error) {
	symbolSQL, _, err := sq.Insert("symbols").
		Columns(
			"symbol_id", "scan_id", "name", "category", "parent_name",
			"interfaces", "traits", "modifiers", "description", "position",
		).
		Values("", "", "", "", "", "", "", "", "", 0).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build symbol SQL: %w", err)
	}
	memberSQL, _, err := sq.Insert("members").
		Columns(
			"member_id", "symbol_id", "kind", "name", "value_type", "value",
			"default_value", "has_default", "return_type", "modifiers",
			"description", "owner",
		).
		Values("", "", "", "", "", "", "", false, "", "", "", "").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build member SQL: %w", err)
	}
	parameterSQL, _, err := sq.Insert("parameters").
		Columns(
			"parameter_id", "member_id", "position", "name", "resolved_type",
			"default_value", "has_default", "is_optional", "description",
		).
		Values("", "", 0, "", "", "", false, false, "").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build parameter SQL: %w", err)
	}

	stmts := &insertStatements{}
	if stmts.symbol, err = tx.Prepare(symbolSQL); err != nil {
		return nil, fmt.Errorf("failed to prepare symbol statement: %w", err)
	}
	if stmts.member, err = tx.Prepare(memberSQL); err != nil {
		stmts.close()
		return nil, fmt.Errorf("failed to prepare member statement: %w", err)
	}
	if stmts.parameter, err = tx.Prepare(parameterSQL); err != nil {
		stmts.close()
		return nil, fmt.Errorf("failed to prepare parameter statement: %w", err)
	}
	return stmts, nil
}

func (s *insertStatements) writeFunction(symbolID, kind string, f model.FunctionRecord) error {
	memberID := uuid.New().String()
	if _, err := s.member.Exec(
		memberID, symbolID, kind, f.Name, "", "", "", false, f.ReturnType,
		joinModifiers(f.Modifiers), f.Description, f.Owner,
	); err != nil {
		return err
	}
	for i, p := range f.Parameters {
		if _, err := s.parameter.Exec(
			uuid.New().String(), memberID, i, p.Name, p.ResolvedType,
			p.DefaultValue, p.HasDefault, p.IsOptional, p.Description,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *insertStatements) close() {
	if s.symbol != nil {
		s.symbol.Close()
	}
	if s.member != nil {
		s.member.Close()
	}
	if s.parameter != nil {
		s.parameter.Close()
	}
}

func joinModifiers(mods model.Modifiers) string {
	return strings.Join(mods.Strings(), ",")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package query deterministically synthesizes parameterized statements for
// database and SAP destinations. Build is a pure function: identical inputs
// always produce byte-identical statement text.
package query

import (
	"fmt"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/errors"
	"github.com/bridgeflow/gateway/mapping"
	"strings"
)

// Statement is one parameterized statement with its bound arguments, ready
// for the destination adapter.
type Statement struct {
	SQL  string
	Args []any
}

// Build synthesizes the statement for op against the given table from the
// resolved mapping set. The pkColumn is required for update and delete;
// columns participate in the order the mapping engine resolved them.
func Build(dialect Dialect, schema, table string, columns []mapping.ResolvedColumn, op definitions.QueryOperation, pkColumn string) (*Statement, error) {
	target := dialect.qualifiedTable(schema, table)

	switch op {
	case definitions.OpInsert:
		return buildInsert(dialect, target, columns), nil
	case definitions.OpUpsert:
		return buildUpsert(dialect, target, columns), nil
	case definitions.OpUpdate:
		return buildUpdate(dialect, target, columns, pkColumn)
	case definitions.OpDelete:
		return buildDelete(dialect, target, columns, pkColumn)
	case definitions.OpSelect:
		return &Statement{SQL: "SELECT * FROM " + target}, nil
	}
	return nil, errors.NewValidationError("unknown query operation %q", op)
}

func buildInsert(dialect Dialect, target string, columns []mapping.ResolvedColumn) *Statement {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		names[i] = dialect.quote(col.Column)
		placeholders[i] = "?"
		args[i] = col.Value
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		target, strings.Join(names, ","), strings.Join(placeholders, ","))
	return &Statement{SQL: sql, Args: args}
}

func buildUpsert(dialect Dialect, target string, columns []mapping.ResolvedColumn) *Statement {
	insert := buildInsert(dialect, target, columns)
	if dialect == DialectSAP {
		// HANA resolves the conflict against the table's primary key.
		sql := strings.Replace(insert.SQL, "INSERT INTO ", "UPSERT ", 1) + " WITH PRIMARY KEY"
		return &Statement{SQL: sql, Args: insert.Args}
	}
	updates := make([]string, len(columns))
	for i, col := range columns {
		quoted := dialect.quote(col.Column)
		updates[i] = quoted + " = VALUES(" + quoted + ")"
	}
	sql := insert.SQL + " ON DUPLICATE KEY UPDATE " + strings.Join(updates, ",")
	return &Statement{SQL: sql, Args: insert.Args}
}

func buildUpdate(dialect Dialect, target string, columns []mapping.ResolvedColumn, pkColumn string) (*Statement, error) {
	if pkColumn == "" {
		return nil, errors.NewConfigError(errors.ReasonMissingPrimaryKey, "update requires a primary key column")
	}
	var assignments []string
	var args []any
	var pkValue any
	pkFound := false
	for _, col := range columns {
		if col.Column == pkColumn {
			pkValue = col.Value
			pkFound = true
			continue
		}
		assignments = append(assignments, dialect.quote(col.Column)+" = ?")
		args = append(args, col.Value)
	}
	if !pkFound {
		return nil, errors.NewMappingError(errors.ReasonMissingRequiredField, pkColumn, nil)
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		target, strings.Join(assignments, ", "), dialect.quote(pkColumn))
	return &Statement{SQL: sql, Args: append(args, pkValue)}, nil
}

func buildDelete(dialect Dialect, target string, columns []mapping.ResolvedColumn, pkColumn string) (*Statement, error) {
	if pkColumn == "" {
		return nil, errors.NewConfigError(errors.ReasonMissingPrimaryKey, "delete requires a primary key column")
	}
	for _, col := range columns {
		if col.Column == pkColumn {
			sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", target, dialect.quote(pkColumn))
			return &Statement{SQL: sql, Args: []any{col.Value}}, nil
		}
	}
	return nil, errors.NewMappingError(errors.ReasonMissingRequiredField, pkColumn, nil)
}

// BuildSelect returns either the author-supplied query verbatim or the
// default full-table select.
func BuildSelect(dialect Dialect, schema, table, customQuery string) *Statement {
	if customQuery != "" {
		return &Statement{SQL: customQuery}
	}
	return &Statement{SQL: "SELECT * FROM " + dialect.qualifiedTable(schema, table)}
}

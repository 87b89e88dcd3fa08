package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// Literal is a WHERE-clause literal: either text or a number (§3 "Select").
type Literal struct {
	IsText bool
	Text   string
	Num    float64
}

// AsValue converts a parsed literal into the Value it will be compared
// against.
func (l Literal) AsValue() Value {
	if l.IsText {
		return TextValue(l.Text)
	}
	return FloatValue(l.Num)
}

// Filter is the optional `WHERE column = literal` clause.
type Filter struct {
	Column  string
	Literal Literal
}

// SelectStatement is the in-memory descriptor materialized from a parsed
// SELECT (§3 "Select", §4.8). CountStar is set instead of Columns being
// populated when the statement is `SELECT COUNT(*) FROM t` (§4.8's special
// case, handled entirely by the executor).
type SelectStatement struct {
	Columns   []string
	CountStar bool
	Table     string
	Filter    *Filter
}

// parseSelect tokenizes sqlText (already known not to be a `.`-prefixed
// meta command) just deeply enough to materialize a SelectStatement, per
// the grammar in §4.8. Anything outside that restricted grammar (joins,
// multiple tables, non-`=` operators, compound WHERE) is a parse error.
func parseSelect(sqlText string) (*SelectStatement, error) {
	stmt, err := sqlparser.Parse(normalizeSQLiteDialect(sqlText))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatabase, err)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, fmt.Errorf("only SELECT statements are supported, got %T", stmt)
	}

	table, err := extractSingleTableName(sel.From)
	if err != nil {
		return nil, err
	}
	result := &SelectStatement{Table: table}

	if isCountStar(sel.SelectExprs) {
		result.CountStar = true
	} else {
		for _, expr := range sel.SelectExprs {
			aliased, ok := expr.(*sqlparser.AliasedExpr)
			if !ok {
				return nil, fmt.Errorf("unsupported select expression %T", expr)
			}
			col, ok := aliased.Expr.(*sqlparser.ColName)
			if !ok {
				return nil, fmt.Errorf("unsupported select expression %T", aliased.Expr)
			}
			result.Columns = append(result.Columns, col.Name.String())
		}
		if len(result.Columns) == 0 {
			return nil, ErrEmptyProjection
		}
	}

	if sel.Where != nil {
		filter, err := parseWhereEquals(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		result.Filter = filter
	}

	return result, nil
}

func isCountStar(exprs sqlparser.SelectExprs) bool {
	if len(exprs) != 1 {
		return false
	}
	aliased, ok := exprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return false
	}
	fn, ok := aliased.Expr.(*sqlparser.FuncExpr)
	if !ok {
		return false
	}
	return strings.EqualFold(fn.Name.String(), "count")
}

func extractSingleTableName(from sqlparser.TableExprs) (string, error) {
	if len(from) != 1 {
		return "", fmt.Errorf("exactly one table is supported in FROM, got %d", len(from))
	}
	aliased, ok := from[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", fmt.Errorf("unsupported FROM expression %T", from[0])
	}
	tbl, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", fmt.Errorf("unsupported FROM expression %T", aliased.Expr)
	}
	return tbl.Name.String(), nil
}

func parseWhereEquals(expr sqlparser.Expr) (*Filter, error) {
	cmp, ok := expr.(*sqlparser.ComparisonExpr)
	if !ok || cmp.Operator != sqlparser.EqualStr {
		return nil, fmt.Errorf("only `column = literal` WHERE clauses are supported")
	}
	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return nil, fmt.Errorf("WHERE left-hand side must be a column name")
	}
	lit, err := extractLiteral(cmp.Right)
	if err != nil {
		return nil, err
	}
	return &Filter{Column: col.Name.String(), Literal: lit}, nil
}

func extractLiteral(expr sqlparser.Expr) (Literal, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return Literal{}, fmt.Errorf("WHERE literal must be a quoted string or a number, got %T", expr)
	}
	switch val.Type {
	case sqlparser.StrVal:
		return Literal{IsText: true, Text: string(val.Val)}, nil
	case sqlparser.IntVal, sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(val.Val), 64)
		if err != nil {
			return Literal{}, fmt.Errorf("invalid numeric literal %q: %w", val.Val, err)
		}
		return Literal{Num: f}, nil
	default:
		return Literal{}, fmt.Errorf("unsupported literal kind %v", val.Type)
	}
}

// parseCreateTableColumns materializes the column list of a CREATE TABLE
// statement (§3 "Table definition", §4.8). sqlparser supplies name, declared
// type and AUTOINCREMENT; PRIMARY KEY and NOT NULL (which this vendored
// parser doesn't surface as struct fields) are recovered with a manual scan
// of the raw column-definition text.
func parseCreateTableColumns(sql string) ([]Column, error) {
	stmt, err := sqlparser.Parse(normalizeSQLiteDialect(sql))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatabase, err)
	}
	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != sqlparser.CreateStr || ddl.TableSpec == nil {
		return nil, fmt.Errorf("not a CREATE TABLE statement")
	}

	rawDefs := splitTopLevelColumnDefs(sql)

	columns := make([]Column, len(ddl.TableSpec.Columns))
	for i, c := range ddl.TableSpec.Columns {
		isAutoIncrement := bool(c.Type.Autoincrement)
		col := Column{
			Name:       c.Name.String(),
			Type:       strings.ToUpper(c.Type.Type),
			PrimaryKey: isAutoIncrement, // AUTOINCREMENT implies PRIMARY KEY
		}
		if i < len(rawDefs) {
			upper := strings.ToUpper(rawDefs[i])
			if strings.Contains(upper, "PRIMARY KEY") {
				col.PrimaryKey = true
			}
			if strings.Contains(upper, "NOT NULL") {
				col.NotNull = true
			}
		}
		columns[i] = col
	}
	return columns, nil
}

// parseCreateIndexColumns extracts the parenthesized column list of a
// CREATE INDEX statement. The backing table name is not parsed out of this
// text: the catalog already has it from the schema row's table_name
// column, so this only needs the column list (§3 "Index definition").
func parseCreateIndexColumns(sql string) ([]string, error) {
	start := strings.Index(sql, "(")
	end := strings.LastIndex(sql, ")")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("%w: no column list in CREATE INDEX statement", ErrInvalidDatabase)
	}
	parts := strings.Split(sql[start+1:end], ",")
	cols := make([]string, len(parts))
	for i, p := range parts {
		cols[i] = strings.TrimSpace(p)
	}
	return cols, nil
}

// splitTopLevelColumnDefs splits a CREATE TABLE statement's column list on
// commas that are not nested inside a type's own parentheses (e.g.
// DECIMAL(10,2)).
func splitTopLevelColumnDefs(sql string) []string {
	start := strings.Index(sql, "(")
	end := strings.LastIndex(sql, ")")
	if start == -1 || end == -1 || start >= end {
		return nil
	}
	body := sql[start+1 : end]

	var defs []string
	depth := 0
	last := 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				defs = append(defs, body[last:i])
				last = i + 1
			}
		}
	}
	defs = append(defs, body[last:])
	return defs
}

var (
	quotedIdentifier  = regexp.MustCompile(`"([^"]*)"`)
	primaryKeyAutoinc = regexp.MustCompile(`(?i)primary\s+key\s+autoincrement`)
)

// normalizeSQLiteDialect adapts SQLite-specific syntax that the vendored
// MySQL-dialect sqlparser rejects outright: double-quoted identifiers and
// SQLite's `PRIMARY KEY AUTOINCREMENT` column-constraint ordering.
func normalizeSQLiteDialect(sql string) string {
	normalized := quotedIdentifier.ReplaceAllString(sql, "$1")
	normalized = primaryKeyAutoinc.ReplaceAllString(normalized, "AUTO_INCREMENT PRIMARY KEY")
	return strings.TrimSpace(normalized)
}

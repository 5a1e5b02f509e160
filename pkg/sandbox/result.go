package sandbox

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/wemcdonald/sqlsandbox/pkg/sqlparser"
	"github.com/wemcdonald/sqlsandbox/pkg/values"
)

// Result is the fully materialized output of one execution. It never changes
// after it is returned.
type Result struct {
	kind    sqlparser.StatementType
	columns []string
	records []values.Record
}

// Kind returns the type of the statement that produced the result.
func (r *Result) Kind() sqlparser.StatementType {
	return r.kind
}

// Columns returns the result column names in declaration order.
func (r *Result) Columns() []string {
	return slices.Clone(r.columns)
}

// Records returns the rows in the order the engine produced them.
func (r *Result) Records() []values.Record {
	out := make([]values.Record, len(r.records))
	for i, rec := range r.records {
		out[i] = slices.Clone(rec)
	}
	return out
}

// Len returns the number of records.
func (r *Result) Len() int {
	return len(r.records)
}

// coercedTypes are the declared column types the driver reinterprets on
// read, turning stored integers into booleans and times and text into times.
var coercedTypes = map[string]bool{
	"boolean":   true,
	"date":      true,
	"datetime":  true,
	"timestamp": true,
}

// materialize binds the arguments, runs the compiled statement from the
// start and drains every row. A SELECT returning a coerced column is run
// again through nativeQuery; any other statement returning one fails before
// it is stepped.
func (d *Database) materialize(ctx context.Context, c *compiled, binds []values.Bind) (*Result, error) {
	args := values.Args(binds)
	rows, err := c.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	coerced, err := coercedColumns(rows)
	if err != nil {
		rows.Close()
		return nil, err
	}
	if len(coerced) == 0 {
		defer rows.Close()
		return drain(rows, c.kind, columns)
	}

	rows.Close()
	if c.kind != sqlparser.StatementSelect {
		return nil, &DBError{
			Code:    CodeExecution,
			Message: fmt.Sprintf("%s statement returns column %q declared %s, whose stored values the driver converts",
				c.kind, coerced[0].Name(), coerced[0].DatabaseTypeName()),
		}
	}

	native, err := d.conn.PrepareContext(ctx, nativeQuery(c.text, columns))
	if err != nil {
		return nil, err
	}
	defer native.Close()

	rows, err = native.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return drain(rows, c.kind, columns)
}

// coercedColumns returns the result columns whose declared type the driver
// converts.
func coercedColumns(rows *sql.Rows) ([]*sql.ColumnType, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	var coerced []*sql.ColumnType
	for _, ct := range types {
		if coercedTypes[strings.ToLower(ct.DatabaseTypeName())] {
			coerced = append(coerced, ct)
		}
	}
	return coerced, nil
}

// nativeQuery wraps a SELECT so every result column is a unary-plus
// expression. Expressions carry no declared type, so the driver returns the
// stored values unchanged. Column names and order are preserved, and bind
// parameters keep their positions because the statement comes first.
func nativeQuery(text string, columns []string) string {
	var b strings.Builder
	b.WriteString("WITH sandbox_native(")
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "c%d", i)
	}
	b.WriteString(") AS (\n")
	b.WriteString(text)
	b.WriteString("\n) SELECT ")
	for i, name := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "+c%d AS %s", i, quoteIdent(name))
	}
	b.WriteString(" FROM sandbox_native")
	return b.String()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func drain(rows *sql.Rows, kind sqlparser.StatementType, columns []string) (*Result, error) {
	res := &Result{
		kind:    kind,
		columns: columns,
		records: []values.Record{},
	}

	row := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range row {
		dest[i] = &row[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec, err := values.NewRecord(columns, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(res.records), err)
		}
		res.records = append(res.records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

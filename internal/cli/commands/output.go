package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/anoxia/sqlquery"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case sql.NamedArg:
		return x.Name + " = " + formatValue(x.Value)
	case sqlquery.Raw:
		return string(x)
	case sqlquery.Subquery:
		stm, err := x.Statement()
		if err != nil {
			return "<" + err.Error() + ">"
		}
		return "(" + stm + ")"
	default:
		return fmt.Sprint(x)
	}
}

// renderRows writes a result set as a table, or as JSON objects.
func renderRows(w io.Writer, rows *sql.Rows, format string) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	var results [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		results = append(results, values)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if format == "json" {
		objs := make([]map[string]any, len(results))
		for i, values := range results {
			obj := make(map[string]any, len(cols))
			for j, col := range cols {
				obj[col] = values[j]
			}
			objs[i] = obj
		}
		return writeJSON(w, objs)
	}

	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	t := newTable(w)
	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, values := range results {
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

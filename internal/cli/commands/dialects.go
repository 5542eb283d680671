package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/anoxia/sqlquery"
	"github.com/anoxia/sqlquery/internal/cli/config"
	"github.com/anoxia/sqlquery/internal/render"
)

type dialectJSON struct {
	Name       string   `json:"name"`
	Dialect    string   `json:"dialect"`
	Quote      string   `json:"quote"`
	Binds      string   `json:"binds"`
	Returning  []string `json:"returning"`
	Ordered    []string `json:"ordered"`
	Offset     bool     `json:"offset_on_modify"`
	Upsert     bool     `json:"upsert"`
	Replace    string   `json:"replace"`
	Ignore     string   `json:"ignore"`
	RowLocking bool     `json:"for_update"`
}

func describeDialect(name string, d sqlquery.Dialect) dialectJSON {
	caps := d.Capabilities()
	q := d.Quoter()
	out := dialectJSON{
		Name:       name,
		Dialect:    d.Name(),
		Quote:      q.Prefix + "name" + q.Suffix,
		Binds:      caps.Placeholder.String(),
		Returning:  []string{},
		Ordered:    []string{},
		Offset:     caps.OffsetOnModify,
		Upsert:     caps.Upsert,
		Ignore:     caps.IgnoreFlag,
		RowLocking: caps.RowLocking != render.RowLockingNone,
	}
	if caps.ReturningOnInsert {
		out.Returning = append(out.Returning, "insert")
	}
	if caps.ReturningOnUpdate {
		out.Returning = append(out.Returning, "update")
	}
	if caps.ReturningOnDelete {
		out.Returning = append(out.Returning, "delete")
	}
	if caps.OrderedUpdate {
		out.Ordered = append(out.Ordered, "update")
	}
	if caps.OrderedDelete {
		out.Ordered = append(out.Ordered, "delete")
	}
	switch caps.Replace {
	case render.ReplaceVerb:
		out.Replace = "REPLACE INTO"
	case render.ReplaceFlag:
		out.Replace = "INSERT OR REPLACE"
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered dialects and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows []dialectJSON
			for _, name := range sqlquery.Dialects() {
				d, _ := sqlquery.LookupDialect(name)
				rows = append(rows, describeDialect(name, d))
			}

			w := cmd.OutOrStdout()
			if config.FromContext(cmd.Context()).Output == "json" {
				return writeJSON(w, rows)
			}

			t := newTable(w)
			t.AppendHeader(table.Row{"name", "dialect", "quote", "binds", "returning", "ordered", "offset", "upsert", "replace", "ignore", "for update"})
			for _, r := range rows {
				t.AppendRow(table.Row{
					r.Name,
					r.Dialect,
					r.Quote,
					r.Binds,
					orDash(strings.Join(r.Returning, ",")),
					orDash(strings.Join(r.Ordered, ",")),
					yesNo(r.Offset),
					yesNo(r.Upsert),
					orDash(r.Replace),
					orDash(r.Ignore),
					yesNo(r.RowLocking),
				})
			}
			t.Render()
			return nil
		},
	}
}

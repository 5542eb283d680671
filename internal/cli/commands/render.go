package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/anoxia/sqlquery/internal/cli/config"
)

type bindJSON struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type renderedJSON struct {
	Name    string     `json:"name"`
	Kind    string     `json:"kind"`
	Dialect string     `json:"dialect"`
	SQL     string     `json:"sql"`
	Binds   []bindJSON `json:"binds"`
	Args    []any      `json:"args,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var (
		driverArgs bool
		name       string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the statements of a YAML file",
		Long: `Build every statement described in a YAML file and print its SQL and
bind values for the selected dialect.

With --args the :name placeholders are rewritten in the bind style of the
dialect's driver (?, $1, @p1) and the positional arguments are listed.`,
		Example: `  sqlquery render queries.yaml
  sqlquery render queries.yaml --dialect mysql --args
  sqlquery render queries.yaml --name adults -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, built, err := loadStatements(cmd, args[0], name)
			if err != nil {
				return err
			}
			cfg := config.FromContext(cmd.Context())
			w := cmd.OutOrStdout()

			var out []renderedJSON
			for i, b := range built {
				result, err := b.Statement.Render()
				if err != nil {
					return fmt.Errorf("%s: %w", b.Name, err)
				}
				r := renderedJSON{
					Name:    b.Name,
					Kind:    b.Kind,
					Dialect: factory.Dialect().Name(),
					SQL:     result.SQL,
					Binds:   []bindJSON{},
				}
				for k, v := range result.Binds.All() {
					r.Binds = append(r.Binds, bindJSON{Name: k, Value: v})
				}
				if driverArgs {
					r.SQL, r.Args, err = result.Args()
					if err != nil {
						return fmt.Errorf("%s: %w", b.Name, err)
					}
				}

				switch cfg.Output {
				case "json":
					out = append(out, r)
				case "sql":
					if i > 0 {
						_, _ = fmt.Fprintln(w)
					}
					_, _ = fmt.Fprintf(w, "%s;\n", r.SQL)
				default:
					if i > 0 {
						_, _ = fmt.Fprintln(w)
					}
					writeRendered(w, r, driverArgs)
				}
			}
			if cfg.Output == "json" {
				return writeJSON(w, out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&driverArgs, "args", false, "Rewrite placeholders for the dialect's driver")
	cmd.Flags().StringVar(&name, "name", "", "Render only the named statement")
	return cmd
}

func writeRendered(w io.Writer, r renderedJSON, driverArgs bool) {
	_, _ = fmt.Fprintf(w, "-- %s (%s, %s)\n%s\n", r.Name, r.Kind, r.Dialect, r.SQL)
	if driverArgs {
		if len(r.Args) == 0 {
			return
		}
		t := newTable(w)
		t.AppendHeader(table.Row{"#", "arg"})
		for i, a := range r.Args {
			t.AppendRow(table.Row{i + 1, formatValue(a)})
		}
		t.Render()
		return
	}
	if len(r.Binds) == 0 {
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"bind", "value", "type"})
	for _, b := range r.Binds {
		t.AppendRow(table.Row{b.Name, formatValue(b.Value), fmt.Sprintf("%T", b.Value)})
	}
	t.Render()
}

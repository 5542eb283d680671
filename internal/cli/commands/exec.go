package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	// database/sql drivers, one per dialect family
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/anoxia/sqlquery/internal/cli/config"
	"github.com/anoxia/sqlquery/internal/stmtfile"
)

// DriverFor returns the database/sql driver name used for a dialect.
func DriverFor(dialect string) (string, error) {
	switch dialect {
	case "pgsql":
		return "pgx", nil
	case "mysql", "mariadb":
		return "mysql", nil
	case "sqlsrv":
		return "sqlserver", nil
	case "sqlite":
		return "sqlite", nil
	}
	return "", fmt.Errorf("no database driver for dialect %q", dialect)
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var (
		name     string
		rollback bool
	)

	cmd := &cobra.Command{
		Use:   "exec <file>",
		Short: "Run the statements of a YAML file against a database",
		Long: `Build the statements of a YAML file and run them, in order, inside one
transaction on the database named by --dsn.

SELECT statements and statements with RETURNING print their rows; the
others print the number of rows affected. With --rollback the
transaction is rolled back instead of committed.`,
		Example: `  sqlquery exec seed.yaml --dialect sqlite --dsn file:app.db
  sqlquery exec report.yaml --dialect pgsql --dsn postgres://localhost/app --rollback`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg.DSN == "" {
				return errors.New("exec needs a data source name (--dsn or SQLQUERY_DSN)")
			}

			factory, built, err := loadStatements(cmd, args[0], name)
			if err != nil {
				return err
			}
			driver, err := DriverFor(factory.Dialect().Name())
			if err != nil {
				return err
			}

			db, err := sql.Open(driver, cfg.DSN)
			if err != nil {
				return fmt.Errorf("open %s: %w", driver, err)
			}
			defer func() { _ = db.Close() }()

			logger := config.GetLogger(cmd.Context())
			logger.Debug("database opened", "driver", driver)
			return runStatements(cmd.Context(), db, built, cmd.OutOrStdout(), cfg.Output, rollback)
		},
	}

	cmd.Flags().String("dsn", "", "Data source name of the target database")
	cmd.Flags().StringVar(&name, "name", "", "Run only the named statement")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Roll back the transaction after running")
	return cmd
}

func runStatements(ctx context.Context, db *sql.DB, built []stmtfile.Built, w io.Writer, format string, rollback bool) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil || rollback {
			if rbErr := tx.Rollback(); rbErr != nil && err == nil {
				err = fmt.Errorf("rollback: %w", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit: %w", cErr)
		}
	}()

	for i, b := range built {
		result, err := b.Statement.Render()
		if err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}
		query, args, err := result.Args()
		if err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}

		if format != "json" {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintf(w, "-- %s (%s)\n", b.Name, b.Kind)
		}

		if b.Rows {
			rows, err := tx.QueryContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("%s: %w", b.Name, err)
			}
			err = renderRows(w, rows, format)
			_ = rows.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", b.Name, err)
			}
			continue
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}
		if format == "json" {
			if err := writeJSON(w, map[string]any{"name": b.Name, "rows_affected": n}); err != nil {
				return err
			}
			continue
		}
		_, _ = fmt.Fprintf(w, "(%d rows affected)\n", n)
	}
	return nil
}

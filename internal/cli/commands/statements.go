package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anoxia/sqlquery"
	"github.com/anoxia/sqlquery/internal/cli/config"
	"github.com/anoxia/sqlquery/internal/stmtfile"
)

// loadStatements reads and builds the statements of path. A dialect named
// in the file wins over the configured one unless --dialect was given.
func loadStatements(cmd *cobra.Command, path, only string) (*sqlquery.QueryFactory, []stmtfile.Built, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	f, err := stmtfile.Load(path)
	if err != nil {
		return nil, nil, err
	}

	dialect := cfg.Dialect
	if f.Dialect != "" && !cmd.Flags().Changed("dialect") {
		dialect = f.Dialect
	}
	factory := cfg.Factory(dialect, logger)

	built, err := f.Build(factory)
	if err != nil {
		return nil, nil, err
	}
	if only != "" {
		built, err = pick(built, only)
		if err != nil {
			return nil, nil, err
		}
	}
	logger.Debug("statements loaded",
		"file", path,
		"dialect", factory.Dialect().Name(),
		"count", len(built))
	return factory, built, nil
}

func pick(built []stmtfile.Built, name string) ([]stmtfile.Built, error) {
	for _, b := range built {
		if b.Name == name {
			return []stmtfile.Built{b}, nil
		}
	}
	return nil, fmt.Errorf("no statement named %q", name)
}

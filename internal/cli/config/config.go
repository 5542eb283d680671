// Package config loads the sqlquery CLI configuration.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/anoxia/sqlquery"
)

// Defaults.
const (
	DefaultDialect = sqlquery.CommonDialect
	DefaultOutput  = "table"
	DefaultPaging  = 10
)

// OutputFormats lists the accepted values of output.
var OutputFormats = []string{"table", "json", "sql"}

// Config holds the CLI settings.
type Config struct {
	Dialect           string            `koanf:"dialect"`
	Common            bool              `koanf:"common"`
	Output            string            `koanf:"output"`
	Verbose           bool              `koanf:"verbose"`
	Paging            int               `koanf:"paging"`
	DSN               string            `koanf:"dsn"`
	LastInsertIDNames map[string]string `koanf:"last_insert_id_names"`
}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Dialect: DefaultDialect,
		Output:  DefaultOutput,
		Paging:  DefaultPaging,
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("unknown output format %q (want one of %v)", c.Output, OutputFormats)
	}
	if c.Paging < 1 {
		return fmt.Errorf("paging must be positive, got %d", c.Paging)
	}
	return nil
}

// Factory creates a query factory for dialect, or for the configured
// dialect when dialect is empty.
func (c *Config) Factory(dialect string, logger *slog.Logger) *sqlquery.QueryFactory {
	if dialect == "" {
		dialect = c.Dialect
	}
	opts := []sqlquery.Option{
		sqlquery.WithPaging(c.Paging),
		sqlquery.WithLogger(logger),
	}
	if c.Common {
		opts = append(opts, sqlquery.WithCommon())
	}
	if len(c.LastInsertIDNames) > 0 {
		opts = append(opts, sqlquery.WithLastInsertIDNames(c.LastInsertIDNames))
	}
	return sqlquery.NewQueryFactory(dialect, opts...)
}

type (
	configKey struct{}
	loggerKey struct{}
)

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the configuration stored in ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return Default()
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

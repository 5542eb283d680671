package sqlquery

import (
	"log/slog"
	"maps"
)

// QueryFactory creates statements for one dialect.
type QueryFactory struct {
	dialect           Dialect
	common            bool
	paging            int
	lastInsertIDNames map[string]string
	logger            *slog.Logger
}

// Option configures a QueryFactory.
type Option func(*QueryFactory)

// WithCommon renders with the common clause builder while keeping the
// dialect's identifier quoting and bind style.
func WithCommon() Option {
	return func(f *QueryFactory) {
		f.common = true
	}
}

// WithLastInsertIDNames maps "table.col" to the sequence or identity name
// Insert.LastInsertIDName reports for it.
func WithLastInsertIDNames(names map[string]string) Option {
	return func(f *QueryFactory) {
		f.lastInsertIDNames = maps.Clone(names)
	}
}

// WithPaging sets the rows per page of every new SELECT.
func WithPaging(paging int) Option {
	return func(f *QueryFactory) {
		f.paging = paging
	}
}

// WithLogger sets the logger used for debug output. A nil logger keeps
// the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(f *QueryFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewQueryFactory creates a factory for the dialect registered under db.
// Unknown names fall back to the common dialect.
func NewQueryFactory(db string, opts ...Option) *QueryFactory {
	f := &QueryFactory{
		paging: defaultPaging,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}

	d, ok := LookupDialect(db)
	if !ok {
		f.logger.Debug("unknown dialect, using common", "dialect", db)
		d = ResolveDialect(CommonDialect)
	}
	if f.common {
		d = newCommonDialect(d.Name(), d.Quoter(), d.Capabilities().Placeholder)
	}
	f.dialect = d
	f.logger.Debug("query factory ready", "dialect", d.Name(), "common", f.common)
	return f
}

// Dialect returns the dialect statements are rendered for.
func (f *QueryFactory) Dialect() Dialect {
	return f.dialect
}

// NewSelect creates a SELECT builder.
func (f *QueryFactory) NewSelect() *Select {
	f.logger.Debug("new statement", "kind", "SELECT", "dialect", f.dialect.Name())
	return NewSelect(f.dialect).SetPaging(f.paging)
}

// NewInsert creates an INSERT builder carrying the factory's last insert id
// names.
func (f *QueryFactory) NewInsert() *Insert {
	f.logger.Debug("new statement", "kind", "INSERT", "dialect", f.dialect.Name())
	return NewInsert(f.dialect).SetLastInsertIDNames(f.lastInsertIDNames)
}

// NewUpdate creates an UPDATE builder.
func (f *QueryFactory) NewUpdate() *Update {
	f.logger.Debug("new statement", "kind", "UPDATE", "dialect", f.dialect.Name())
	return NewUpdate(f.dialect)
}

// NewDelete creates a DELETE builder.
func (f *QueryFactory) NewDelete() *Delete {
	f.logger.Debug("new statement", "kind", "DELETE", "dialect", f.dialect.Name())
	return NewDelete(f.dialect)
}

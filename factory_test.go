package sqlquery_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/anoxia/sqlquery"
	"github.com/anoxia/sqlquery/internal/testutil"
	sqltest "github.com/anoxia/sqlquery/testing"
)

func TestQueryFactory_Dialects(t *testing.T) {
	tests := []struct {
		db      string
		name    string
		prefix  string
		suffix  string
		binding sqlquery.BindStyle
	}{
		{"common", "common", `"`, `"`, sqlquery.BindNamed},
		{"mysql", "mysql", "`", "`", sqlquery.BindQuestion},
		{"MySQL", "mysql", "`", "`", sqlquery.BindQuestion},
		{"mariadb", "mariadb", "`", "`", sqlquery.BindQuestion},
		{"pgsql", "pgsql", `"`, `"`, sqlquery.BindDollar},
		{"postgres", "pgsql", `"`, `"`, sqlquery.BindDollar},
		{"sqlite", "sqlite", `"`, `"`, sqlquery.BindNamed},
		{"sqlsrv", "sqlsrv", "[", "]", sqlquery.BindAtP},
		{"mssql", "sqlsrv", "[", "]", sqlquery.BindAtP},
		{"oracle", "common", `"`, `"`, sqlquery.BindNamed},
	}

	for _, tt := range tests {
		t.Run(tt.db, func(t *testing.T) {
			f := sqlquery.NewQueryFactory(tt.db, sqlquery.WithLogger(testutil.NewTestLogger(t)))
			if got := f.Dialect().Name(); got != tt.name {
				t.Errorf("Dialect().Name() = %q, want %q", got, tt.name)
			}
			if got := f.Dialect().Capabilities().Placeholder; got != tt.binding {
				t.Errorf("Placeholder = %v, want %v", got, tt.binding)
			}

			want := sqltest.ExpandQuotes("SELECT\n    *\nFROM\n    <<t1>>", tt.prefix, tt.suffix)
			sqltest.AssertSQL(t, want, f.NewSelect().Cols("*").From("t1").String())

			want = sqltest.ExpandQuotes("INSERT INTO <<t1>> (\n    <<a>>\n) VALUES (\n    :a\n)", tt.prefix, tt.suffix)
			sqltest.AssertSQL(t, want, f.NewInsert().Into("t1").Col("a").String())

			want = sqltest.ExpandQuotes("UPDATE <<t1>>\nSET\n    <<a>> = :a", tt.prefix, tt.suffix)
			sqltest.AssertSQL(t, want, f.NewUpdate().Table("t1").Col("a").String())

			want = sqltest.ExpandQuotes("DELETE FROM <<t1>>", tt.prefix, tt.suffix)
			sqltest.AssertSQL(t, want, f.NewDelete().From("t1").String())
		})
	}
}

func TestQueryFactory_WithCommon(t *testing.T) {
	f := sqlquery.NewQueryFactory("sqlsrv", sqlquery.WithCommon())

	sel := f.NewSelect().Cols("*").From("t").Limit(5)
	sqltest.AssertSQL(t, "SELECT\n    *\nFROM\n    [t]\nLIMIT 5", sel.String())
	if got := f.Dialect().Capabilities().Placeholder; got != sqlquery.BindAtP {
		t.Errorf("Placeholder = %v, want %v", got, sqlquery.BindAtP)
	}

	ins := sqlquery.NewQueryFactory("mysql", sqlquery.WithCommon()).NewInsert().
		Into("t").
		Col("a").
		OnDuplicateKeyUpdate("a", "1")
	var target sqlquery.UnsupportedFeatureError
	if !errors.As(ins.Err(), &target) {
		t.Errorf("Err() = %v, want UnsupportedFeatureError", ins.Err())
	}
}

func TestQueryFactory_WithPaging(t *testing.T) {
	sel := sqlquery.NewQueryFactory("pgsql", sqlquery.WithPaging(25)).NewSelect().
		Cols("*").
		From("t").
		Page(2)

	if sel.Paging() != 25 {
		t.Errorf("Paging() = %d, want 25", sel.Paging())
	}
	sqltest.AssertSQL(t, "SELECT\n    *\nFROM\n    \"t\"\nLIMIT 25 OFFSET 25", sel.String())
}

func TestRegisterDialect(t *testing.T) {
	sqlquery.RegisterDialect("Custom-Test", sqlquery.ResolveDialect("mysql"))

	d, ok := sqlquery.LookupDialect("custom-test")
	if !ok {
		t.Fatal("LookupDialect(custom-test) not found")
	}
	if d.Name() != "mysql" {
		t.Errorf("Name() = %q, want mysql", d.Name())
	}
	if !slices.Contains(sqlquery.Dialects(), "custom-test") {
		t.Errorf("Dialects() = %q, want custom-test listed", sqlquery.Dialects())
	}
	if !slices.IsSorted(sqlquery.Dialects()) {
		t.Errorf("Dialects() = %q, want sorted", sqlquery.Dialects())
	}

	if _, ok := sqlquery.LookupDialect("nope"); ok {
		t.Error("LookupDialect(nope) found a dialect")
	}
	if got := sqlquery.ResolveDialect("nope").Name(); got != sqlquery.CommonDialect {
		t.Errorf("ResolveDialect(nope) = %q, want common", got)
	}
}

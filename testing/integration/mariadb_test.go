package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mariadb"

	"github.com/anoxia/sqlquery"
)

// MariaDBContainer wraps a testcontainers MariaDB instance. It serves both
// the mysql and mariadb dialects.
type MariaDBContainer struct {
	container *mariadb.MariaDBContainer
	db        *sql.DB
	connStr   string
}

// Exec executes a SQL statement.
func (mc *MariaDBContainer) Exec(ctx context.Context, t *testing.T, sql string, args ...any) {
	t.Helper()
	_, err := mc.db.ExecContext(ctx, sql, args...)
	if err != nil {
		t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}

// ExecStatement renders stm and executes it, returning the affected row count.
func (mc *MariaDBContainer) ExecStatement(ctx context.Context, t *testing.T, stm sqlquery.Statement) int64 {
	t.Helper()
	query, args := driverArgs(t, stm)
	res, err := mc.db.ExecContext(ctx, query, args...)
	if err != nil {
		t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, query)
	}
	n, err := res.RowsAffected()
	require.NoError(t, err)
	return n
}

// QueryStrings renders stm and collects its single string column.
func (mc *MariaDBContainer) QueryStrings(ctx context.Context, t *testing.T, stm sqlquery.Statement) []string {
	t.Helper()
	query, args := driverArgs(t, stm)
	rows, err := mc.db.QueryContext(ctx, query, args...)
	if err != nil {
		t.Fatalf("Failed to execute query: %v\nSQL: %s", err, query)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		out = append(out, s)
	}
	require.NoError(t, rows.Err())
	return out
}

// setupMariaDB recreates and seeds the schema.
func setupMariaDB(ctx context.Context, t *testing.T) *MariaDBContainer {
	t.Helper()
	skipShort(t)

	mc := getMariaDBContainer(t)

	mc.Exec(ctx, t, `DROP TABLE IF EXISTS counters`)
	mc.Exec(ctx, t, `DROP TABLE IF EXISTS users`)
	mc.Exec(ctx, t, `
		CREATE TABLE users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			age INT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true
		)
	`)
	mc.Exec(ctx, t, `
		CREATE TABLE counters (
			name VARCHAR(64) PRIMARY KEY,
			hits INT NOT NULL
		)
	`)
	mc.Exec(ctx, t, `
		INSERT INTO users (username, age, active) VALUES
		('alice', 30, true),
		('bob', 25, true),
		('charlie', 35, false),
		('diana', 28, true)
	`)
	return mc
}

func TestMariaDB_OnDuplicateKeyUpdate(t *testing.T) {
	ctx := context.Background()
	mc := setupMariaDB(ctx, t)
	f := sqlquery.NewQueryFactory("mysql")

	hit := func() {
		mc.ExecStatement(ctx, t, f.NewInsert().
			Into("counters").
			ColValues(sqlquery.Bind{"name": "home", "hits": 1}).
			OnDuplicateKeyUpdate("hits", "hits + 1"))
	}
	hit()
	hit()
	hit()

	var hits int
	query, args := driverArgs(t, f.NewSelect().
		Cols("hits").
		From("counters").
		Where("name = :name", sqlquery.Bind{"name": "home"}))
	require.NoError(t, mc.db.QueryRowContext(ctx, query, args...).Scan(&hits))
	assert.Equal(t, 3, hits)
}

func TestMariaDB_OnDuplicateKeyUpdateCol(t *testing.T) {
	ctx := context.Background()
	mc := setupMariaDB(ctx, t)
	f := sqlquery.NewQueryFactory("mysql")

	mc.ExecStatement(ctx, t, f.NewInsert().
		Into("users").
		ColValues(sqlquery.Bind{"username": "bob", "age": 99}).
		OnDuplicateKeyUpdateCol("age", 26))

	got := mc.QueryStrings(ctx, t, f.NewSelect().
		Cols("CAST(age AS CHAR)").
		From("users").
		Where("username = :name", sqlquery.Bind{"name": "bob"}))
	assert.Equal(t, []string{"26"}, got)
}

func TestMariaDB_IgnoreAndReplace(t *testing.T) {
	ctx := context.Background()
	mc := setupMariaDB(ctx, t)
	f := sqlquery.NewQueryFactory("mysql")

	n := mc.ExecStatement(ctx, t, f.NewInsert().
		Into("users").
		Ignore().
		ColValues(sqlquery.Bind{"username": "alice", "age": 1}))
	assert.Equal(t, int64(0), n)

	// REPLACE deletes the conflicting row and inserts the new one
	n = mc.ExecStatement(ctx, t, f.NewInsert().
		Into("users").
		OrReplace().
		ColValues(sqlquery.Bind{"username": "alice", "age": 31}))
	assert.Equal(t, int64(2), n)
}

func TestMariaDB_BulkInsert(t *testing.T) {
	ctx := context.Background()
	mc := setupMariaDB(ctx, t)
	f := sqlquery.NewQueryFactory("mysql")

	n := mc.ExecStatement(ctx, t, f.NewInsert().Into("users").AddRows([]sqlquery.Bind{
		{"username": "eve", "age": 40},
		{"username": "fay", "age": 41},
	}))
	assert.Equal(t, int64(2), n)

	got := mc.QueryStrings(ctx, t, f.NewSelect().
		Cols("username").
		From("users").
		Where("age > :age", sqlquery.Bind{"age": 36}).
		OrderBy("username"))
	assert.Equal(t, []string{"eve", "fay"}, got)
}

func TestMariaDB_OrderedUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	mc := setupMariaDB(ctx, t)
	f := sqlquery.NewQueryFactory("mysql")

	n := mc.ExecStatement(ctx, t, f.NewUpdate().
		Table("users").
		Col("active", false).
		Where("active = :active", sqlquery.Bind{"active": true}).
		OrderBy("age DESC").
		Limit(1))
	assert.Equal(t, int64(1), n)

	n = mc.ExecStatement(ctx, t, f.NewDelete().
		From("users").
		Where("active = :active", sqlquery.Bind{"active": false}).
		OrderBy("age").
		Limit(1))
	assert.Equal(t, int64(1), n)

	got := mc.QueryStrings(ctx, t, f.NewSelect().Cols("username").From("users").OrderBy("username"))
	assert.Equal(t, []string{"bob", "charlie", "diana"}, got)
}

func TestMariaDB_Returning(t *testing.T) {
	ctx := context.Background()
	mc := setupMariaDB(ctx, t)
	f := sqlquery.NewQueryFactory("mariadb")

	got := mc.QueryStrings(ctx, t, f.NewInsert().
		Into("users").
		ColValues(sqlquery.Bind{"username": "gus", "age": 50}).
		Returning("username"))
	assert.Equal(t, []string{"gus"}, got)

	got = mc.QueryStrings(ctx, t, f.NewDelete().
		From("users").
		Where("age >= :age", sqlquery.Bind{"age": 35}).
		Returning("username"))
	assert.ElementsMatch(t, []string{"charlie", "gus"}, got)
}

func TestMariaDB_PagingAndForUpdate(t *testing.T) {
	ctx := context.Background()
	mc := setupMariaDB(ctx, t)
	f := sqlquery.NewQueryFactory("mariadb")

	tx, err := mc.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	query, args := driverArgs(t, f.NewSelect().
		Cols("username").
		From("users").
		OrderBy("username").
		SetPaging(3).
		Page(2).
		ForUpdate())

	var name string
	require.NoError(t, tx.QueryRowContext(ctx, query, args...).Scan(&name))
	assert.Equal(t, "diana", name)
	require.NoError(t, tx.Commit())
}

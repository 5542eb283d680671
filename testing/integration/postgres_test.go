package integration

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/anoxia/sqlquery"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container *postgres.PostgresContainer
	conn      *pgx.Conn
	connStr   string
}

// Exec executes a SQL statement.
func (pc *PostgresContainer) Exec(ctx context.Context, t *testing.T, sql string, args ...any) {
	t.Helper()
	_, err := pc.conn.Exec(ctx, sql, args...)
	if err != nil {
		t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}

// ExecStatement renders stm and executes it, returning the affected row count.
func (pc *PostgresContainer) ExecStatement(ctx context.Context, t *testing.T, stm sqlquery.Statement) int64 {
	t.Helper()
	query, args := driverArgs(t, stm)
	tag, err := pc.conn.Exec(ctx, query, args...)
	if err != nil {
		t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, query)
	}
	return tag.RowsAffected()
}

// QueryStatement renders stm and runs it as a query.
func (pc *PostgresContainer) QueryStatement(ctx context.Context, t *testing.T, stm sqlquery.Statement) pgx.Rows {
	t.Helper()
	query, args := driverArgs(t, stm)
	rows, err := pc.conn.Query(ctx, query, args...)
	if err != nil {
		t.Fatalf("Failed to execute query: %v\nSQL: %s", err, query)
	}
	return rows
}

// QueryRowStatement renders stm and runs it as a single-row query.
func (pc *PostgresContainer) QueryRowStatement(ctx context.Context, t *testing.T, stm sqlquery.Statement) pgx.Row {
	t.Helper()
	query, args := driverArgs(t, stm)
	return pc.conn.QueryRow(ctx, query, args...)
}

// setupPostgres creates and seeds the schema, truncating it when t ends.
func setupPostgres(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()
	skipShort(t)

	pc := getPostgresContainer(t)

	pc.Exec(ctx, t, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL,
			age INT,
			active BOOLEAN DEFAULT true
		)
	`)
	pc.Exec(ctx, t, `
		CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			views INT DEFAULT 0,
			published BOOLEAN DEFAULT false
		)
	`)

	// ids are assigned 1..4 after RESTART IDENTITY
	pc.Exec(ctx, t, `
		INSERT INTO users (username, email, age, active) VALUES
		('alice', 'alice@example.com', 30, true),
		('bob', 'bob@example.com', 25, true),
		('charlie', 'charlie@example.com', 35, false),
		('diana', 'diana@example.com', 28, true)
	`)
	pc.Exec(ctx, t, `
		INSERT INTO posts (user_id, title, views, published) VALUES
		(1, 'First Post', 100, true),
		(1, 'Second Post', 50, true),
		(2, 'Bob''s Post', 75, true),
		(3, 'Draft Post', 0, false)
	`)

	t.Cleanup(func() {
		pc.Exec(ctx, t, `TRUNCATE TABLE posts, users RESTART IDENTITY CASCADE`)
	})
	return pc
}

func scanStrings(t *testing.T, rows pgx.Rows) []string {
	t.Helper()
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

func TestPostgres_SelectWhereGroup(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	stm := f.NewSelect().
		Cols("username").
		From("users").
		Where("active = :active", sqlquery.Bind{"active": true}).
		WhereGroup(func(g *sqlquery.Group) {
			g.And("age < :young").Or("age >= :old")
		}, sqlquery.Bind{"young": 26, "old": 30}).
		OrderBy("username")

	assert.Equal(t, []string{"alice", "bob"}, scanStrings(t, pc.QueryStatement(ctx, t, stm)))
}

func TestPostgres_JoinGroupHaving(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	stm := f.NewSelect().
		Cols("u.username").
		From("users AS u").
		InnerJoin("posts AS p", "p.user_id = u.id AND p.published = :published", sqlquery.Bind{"published": true}).
		GroupBy("u.username").
		Having("COUNT(p.id) >= :min", sqlquery.Bind{"min": 2})

	assert.Equal(t, []string{"alice"}, scanStrings(t, pc.QueryStatement(ctx, t, stm)))
}

func TestPostgres_Paging(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	stm := f.NewSelect().
		Cols("username").
		From("users").
		OrderBy("username").
		SetPaging(2).
		Page(2)

	assert.Equal(t, []string{"charlie", "diana"}, scanStrings(t, pc.QueryStatement(ctx, t, stm)))
}

func TestPostgres_InsertReturning(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	var id int64
	var username string
	err := pc.QueryRowStatement(ctx, t, f.NewInsert().
		Into("users").
		ColValues(sqlquery.Bind{"username": "eve", "email": "eve@example.com", "age": 22}).
		Returning("id", "username")).Scan(&id, &username)
	require.NoError(t, err)

	assert.Equal(t, int64(5), id)
	assert.Equal(t, "eve", username)
}

func TestPostgres_BulkInsert(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	n := pc.ExecStatement(ctx, t, f.NewInsert().Into("posts").AddRows([]sqlquery.Bind{
		{"user_id": 4, "title": "one", "views": 1},
		{"user_id": 4, "title": "two", "views": 2},
		{"user_id": 4, "title": "three", "views": 3},
	}))
	assert.Equal(t, int64(3), n)

	var total int64
	err := pc.QueryRowStatement(ctx, t, f.NewSelect().
		Cols("SUM(views)").
		From("posts").
		Where("user_id = :user", sqlquery.Bind{"user": 4})).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
}

func TestPostgres_UpdateReturning(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	stm := f.NewUpdate().
		Table("posts").
		Set("views", "views + :step").
		BindValue("step", 10).
		Where("published = :published", sqlquery.Bind{"published": true}).
		Returning("title")

	titles := scanStrings(t, pc.QueryStatement(ctx, t, stm))
	assert.ElementsMatch(t, []string{"First Post", "Second Post", "Bob's Post"}, titles)

	var views int
	err := pc.QueryRowStatement(ctx, t, f.NewSelect().
		Cols("views").
		From("posts").
		Where("title = :title", sqlquery.Bind{"title": "First Post"})).Scan(&views)
	require.NoError(t, err)
	assert.Equal(t, 110, views)
}

func TestPostgres_DeleteReturning(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	stm := f.NewDelete().
		From("users").
		Where("active = :active", sqlquery.Bind{"active": false}).
		Returning("username")

	assert.Equal(t, []string{"charlie"}, scanStrings(t, pc.QueryStatement(ctx, t, stm)))
}

func TestPostgres_UnionAndSubSelect(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	authors := f.NewSelect().
		Cols("user_id").
		From("posts").
		Where("views >= :views", sqlquery.Bind{"views": 75})

	stm := f.NewSelect().
		Cols("username").
		From("users").
		Where("id IN (:authors)", sqlquery.Bind{"authors": authors}).
		Union().
		Cols("username").
		From("users").
		Where("age > :age", sqlquery.Bind{"age": 33}).
		OrderBy("username")

	assert.Equal(t, []string{"alice", "bob", "charlie"}, scanStrings(t, pc.QueryStatement(ctx, t, stm)))
}

func TestPostgres_RawBindAndCast(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	stm := f.NewSelect().
		Cols("username").
		From("users").
		Where("age = :oldest", sqlquery.Bind{"oldest": sqlquery.Raw("(SELECT MAX(age) FROM users)")}).
		Where("id::text = :id", sqlquery.Bind{"id": "3"})

	assert.Equal(t, []string{"charlie"}, scanStrings(t, pc.QueryStatement(ctx, t, stm)))
}

func TestPostgres_ForUpdate(t *testing.T) {
	ctx := context.Background()
	pc := setupPostgres(ctx, t)
	f := sqlquery.NewQueryFactory("pgsql")

	tx, err := pc.conn.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	query, args := driverArgs(t, f.NewSelect().
		Cols("age").
		From("users").
		Where("username = :name", sqlquery.Bind{"name": "bob"}).
		ForUpdate())

	var age int
	require.NoError(t, tx.QueryRow(ctx, query, args...).Scan(&age))
	assert.Equal(t, 25, age)
	require.NoError(t, tx.Commit(ctx))
}

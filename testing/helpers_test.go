package testing

import (
	"errors"
	"testing"

	"github.com/anoxia/sqlquery/internal/bind"
)

func TestExpandQuotes(t *testing.T) {
	tests := []struct {
		prefix, suffix string
		want           string
	}{
		{`"`, `"`, `SELECT * FROM "t1" AS "a"`},
		{"`", "`", "SELECT * FROM `t1` AS `a`"},
		{"[", "]", "SELECT * FROM [t1] AS [a]"},
	}
	for _, tt := range tests {
		got := ExpandQuotes("SELECT * FROM <<t1>> AS <<a>>", tt.prefix, tt.suffix)
		if got != tt.want {
			t.Errorf("ExpandQuotes(%q, %q) = %q, want %q", tt.prefix, tt.suffix, got, tt.want)
		}
	}
}

func TestNormalizeSQL(t *testing.T) {
	got := NormalizeSQL("\n    SELECT\n        a  \n    FROM\n        t\n")
	want := "SELECT\na\nFROM\nt"
	if got != want {
		t.Errorf("NormalizeSQL() = %q, want %q", got, want)
	}
}

func TestAssertSQL_Match(t *testing.T) {
	AssertSQL(t, "SELECT * FROM users", "SELECT * FROM users")
}

func TestAssertSameSQL_IgnoresIndentation(t *testing.T) {
	AssertSameSQL(t, `
		DELETE FROM <<t1>>
		WHERE
		    foo = :foo
	`, "DELETE FROM <<t1>>\nWHERE\n    foo = :foo")
}

func TestAssertBinds_Match(t *testing.T) {
	v := bind.New()
	v.Set("foo", "bar")
	v.Set("baz", 1)
	AssertBinds(t, map[string]any{"foo": "bar", "baz": 1}, v)
}

func TestAssertBinds_Empty(t *testing.T) {
	AssertBinds(t, nil, bind.New())
}

func TestAssertBindOrder_Match(t *testing.T) {
	v := bind.New()
	v.Set("b", 1)
	v.Set("a", 2)
	AssertBindOrder(t, []string{"b", "a"}, v)
}

func TestAssertContainsBind_Found(t *testing.T) {
	v := bind.New()
	v.Set("id", 1)
	AssertContainsBind(t, v, "id")
}

func TestAssertNoError_Nil(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertError_Error(t *testing.T) {
	AssertError(t, errors.New("test error"))
}

func TestAssertErrorContains_Match(t *testing.T) {
	AssertErrorContains(t, errors.New("column id missing from row 1"), "missing from row")
}

func TestAssertPanics_Panics(t *testing.T) {
	AssertPanics(t, func() { panic("boom") })
}

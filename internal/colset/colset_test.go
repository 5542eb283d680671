package colset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/anoxia/sqlquery/internal/bind"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

func newSet() (*Set, *bind.Values) {
	binds := bind.New()
	return New(quote.New(`"`, `"`), binds), binds
}

func TestSet_Assignments(t *testing.T) {
	s, binds := newSet()
	s.Col("c1", "v1")
	s.Cols("c2", "c3")
	s.ColValues(map[string]any{"c5": 5, "c4": 4})
	s.Expr("c6", "NOW()")
	s.Expr("c7")
	s.Expr("c8", "t.c + 1")

	wantKeys := []string{`"c1"`, `"c2"`, `"c3"`, `"c4"`, `"c5"`, `"c6"`, `"c7"`, `"c8"`}
	if !reflect.DeepEqual(s.Keys(), wantKeys) {
		t.Errorf("Keys() = %q, want %q", s.Keys(), wantKeys)
	}
	wantVals := []string{":c1", ":c2", ":c3", ":c4", ":c5", "NOW()", "NULL", `"t"."c" + 1`}
	if !reflect.DeepEqual(s.Values(), wantVals) {
		t.Errorf("Values() = %q, want %q", s.Values(), wantVals)
	}
	if !reflect.DeepEqual(binds.Keys(), []string{"c1", "c4", "c5"}) {
		t.Errorf("bind keys = %q", binds.Keys())
	}
	if got := s.Assignments()[0]; got != `"c1" = :c1` {
		t.Errorf("Assignments()[0] = %q", got)
	}
}

func TestSet_ReassignKeepsPosition(t *testing.T) {
	s, _ := newSet()
	s.Col("a")
	s.Col("b")
	s.Expr("a", "1")
	if !reflect.DeepEqual(s.Values(), []string{"1", ":b"}) {
		t.Errorf("Values() = %q", s.Values())
	}
}

func TestBulk_ThreeRows(t *testing.T) {
	s, binds := newSet()
	b := NewBulk(s, binds)

	for i, v := range []string{"a", "b", "c"} {
		if i > 0 {
			if err := b.NextRow(); err != nil {
				t.Fatalf("NextRow() error = %v", err)
			}
		}
		s.Col("name", v)
		s.Expr("created", "NOW()")
	}

	if !b.Active() {
		t.Fatal("expected bulk mode")
	}
	rows, err := b.Rows()
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	want := [][]string{
		{":name_0", "NOW()"},
		{":name_1", "NOW()"},
		{":name_2", "NOW()"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() = %q, want %q", rows, want)
	}
	if !reflect.DeepEqual(b.Columns(), []string{`"name"`, `"created"`}) {
		t.Errorf("Columns() = %q", b.Columns())
	}

	out, err := b.Binds()
	if err != nil {
		t.Fatalf("Binds() error = %v", err)
	}
	wantBinds := map[string]any{"name_0": "a", "name_1": "b", "name_2": "c"}
	if !reflect.DeepEqual(out.Map(), wantBinds) {
		t.Errorf("Binds() = %v, want %v", out.Map(), wantBinds)
	}
	if !reflect.DeepEqual(out.Keys(), []string{"name_0", "name_1", "name_2"}) {
		t.Errorf("bind order = %q", out.Keys())
	}
}

func TestBulk_RenderingDoesNotMutate(t *testing.T) {
	s, binds := newSet()
	b := NewBulk(s, binds)
	s.Col("x", 1)
	_ = b.NextRow()
	s.Col("x", 2)

	first, _ := b.Rows()
	second, _ := b.Rows()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Rows() not repeatable: %q vs %q", first, second)
	}
	if b.Row() != 1 {
		t.Errorf("Row() = %d, want 1", b.Row())
	}
	if v, _ := binds.Get("x"); v != 2 {
		t.Errorf("base x = %v, want 2", v)
	}
}

func TestBulk_MissingColumn(t *testing.T) {
	s, binds := newSet()
	b := NewBulk(s, binds)
	s.Cols("foo", "bar")
	_ = b.NextRow()
	s.Cols("foo")

	err := b.NextRow()
	var missing render.MissingBulkColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("NextRow() error = %v, want MissingBulkColumnError", err)
	}
	if missing.Column != `"bar"` || missing.Row != 1 {
		t.Errorf("error = %+v", missing)
	}
	if b.Row() != 1 || s.Len() != 1 {
		t.Errorf("state changed after failure: row=%d cols=%d", b.Row(), s.Len())
	}

	if _, err := b.Rows(); err == nil {
		t.Error("Rows() should report the incomplete pending row")
	}
}

func TestBulk_KeepsUnrelatedBinds(t *testing.T) {
	s, binds := newSet()
	b := NewBulk(s, binds)
	binds.Set("other", "keep")
	s.Col("x", 1)
	_ = b.NextRow()

	out, err := b.Binds()
	if err != nil {
		t.Fatalf("Binds() error = %v", err)
	}
	if !reflect.DeepEqual(out.Keys(), []string{"other", "x_0"}) {
		t.Errorf("bind keys = %q", out.Keys())
	}
}

func TestBulk_UnboundLaterRowStaysUnbound(t *testing.T) {
	s, binds := newSet()
	b := NewBulk(s, binds)
	s.Col("a", 1)
	if err := b.NextRow(); err != nil {
		t.Fatalf("NextRow() error = %v", err)
	}
	s.Col("a")

	rows, err := b.Rows()
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if want := [][]string{{":a_0"}, {":a_1"}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() = %q, want %q", rows, want)
	}

	out, err := b.Binds()
	if err != nil {
		t.Fatalf("Binds() error = %v", err)
	}
	if _, ok := out.Get("a_1"); ok {
		t.Errorf("a_1 bound from the previous row: %v", out.Map())
	}
	if !reflect.DeepEqual(out.Keys(), []string{"a_0"}) {
		t.Errorf("bind keys = %q, want [a_0]", out.Keys())
	}
}

// Package testing provides test utilities for sqlquery.
package testing

import (
	"reflect"
	"regexp"
	"slices"
	"strings"
	"testing"
)

var quoteMarker = regexp.MustCompile(`<<([^<>]*)>>`)

// ExpandQuotes replaces every <<name>> marker with name wrapped in prefix
// and suffix, so one expected statement serves every dialect.
func ExpandQuotes(sql, prefix, suffix string) string {
	return quoteMarker.ReplaceAllString(sql, prefix+"${1}"+suffix)
}

// NormalizeSQL trims the statement and the leading and trailing
// whitespace of each of its lines.
func NormalizeSQL(sql string) string {
	lines := strings.Split(strings.TrimSpace(sql), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// AssertSQL compares expected and actual SQL exactly, reporting both on
// mismatch.
func AssertSQL(t testing.TB, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertSameSQL compares expected and actual SQL line by line, ignoring
// indentation.
func AssertSameSQL(t testing.TB, expected, actual string) {
	t.Helper()
	AssertSQL(t, NormalizeSQL(expected), NormalizeSQL(actual))
}

// BindSource is anything exposing ordered bind values.
type BindSource interface {
	Keys() []string
	Map() map[string]any
}

// AssertBinds checks that the bound values equal expected.
func AssertBinds(t testing.TB, expected map[string]any, actual BindSource) {
	t.Helper()
	got := actual.Map()
	if len(expected) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(expected, got) {
		t.Errorf("Bind mismatch:\nExpected: %v\nActual:   %v", expected, got)
	}
}

// AssertBindOrder checks the order of the bound names.
func AssertBindOrder(t testing.TB, expected []string, actual BindSource) {
	t.Helper()
	if got := actual.Keys(); !slices.Equal(expected, got) {
		t.Errorf("Bind order mismatch:\nExpected: %v\nActual:   %v", expected, got)
	}
}

// AssertContainsBind checks that name is bound.
func AssertContainsBind(t testing.TB, actual BindSource, name string) {
	t.Helper()
	if !slices.Contains(actual.Keys(), name) {
		t.Errorf("Expected bind %q not found in %v", name, actual.Keys())
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t testing.TB, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}

package rules

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/binding"
)

func TestMin_MessageNamesThreshold(t *testing.T) {
	rule := Min(4)
	if err := rule(2); err == nil || err.Error() != "Value must be at least 4" {
		t.Fatalf("unexpected result: %v", err)
	}
	if err := rule(5); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := rule(4); err != nil {
		t.Fatalf("boundary value must pass, got %v", err)
	}
}

func TestRequired_RejectsWhitespace(t *testing.T) {
	rule := Required("Name")
	tests := []struct {
		in string
		ok bool
	}{
		{"", false},
		{"   ", false},
		{"x", true},
	}
	for _, tc := range tests {
		err := rule(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: expected success, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected failure", tc.in)
		}
	}
}

func TestLengthRules_CountRunes(t *testing.T) {
	if err := MinLength(3)("ab"); err == nil {
		t.Fatal("expected failure for short string")
	}
	if err := MinLength(3)("héé"); err != nil {
		t.Fatalf("multibyte string of 3 runes must pass, got %v", err)
	}
	if err := MaxLength(2)("abc"); err == nil {
		t.Fatal("expected failure for long string")
	}
}

func TestPattern_CompileErrors(t *testing.T) {
	if _, err := Pattern("("); err == nil {
		t.Fatal("expected compile error")
	}

	rule, err := Pattern(`^\d+$`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if err := rule("123"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := rule("12a"); err == nil {
		t.Fatal("expected mismatch failure")
	}
}

func TestOneOf(t *testing.T) {
	rule := OneOf("a", "b")
	if err := rule("a"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := rule("z"); err == nil {
		t.Fatal("expected failure")
	}
}

func TestRules_ComposeWithCombine(t *testing.T) {
	combined := binding.Combine(binding.FirstFailure, Required("Title"), MinLength(3))
	if err := combined(""); err == nil || err.Error() != "Title is required" {
		t.Fatalf("expected required failure first, got %v", err)
	}
	if err := combined("ok!"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

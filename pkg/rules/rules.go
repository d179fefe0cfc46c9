// Package rules provides the stock validation rules composed through
// pkg/binding. Every rule is a pure predicate: it inspects the value, never
// mutates it, and reports failures as human-readable reasons.
package rules

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formbind/pkg/binding"
)

// Required rejects empty or whitespace-only strings.
func Required(label string) binding.Rule[string] {
	if label == "" {
		label = "Value"
	}
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// Min rejects values below min.
func Min[T cmp.Ordered](min T) binding.Rule[T] {
	return func(v T) error {
		if v < min {
			return fmt.Errorf("Value must be at least %v", min)
		}
		return nil
	}
}

// Max rejects values above max.
func Max[T cmp.Ordered](max T) binding.Rule[T] {
	return func(v T) error {
		if v > max {
			return fmt.Errorf("Value must be at most %v", max)
		}
		return nil
	}
}

// MinLength rejects strings shorter than n runes.
func MinLength(n int) binding.Rule[string] {
	return func(v string) error {
		if len([]rune(v)) < n {
			return fmt.Errorf("Value must be at least %d characters", n)
		}
		return nil
	}
}

// MaxLength rejects strings longer than n runes.
func MaxLength(n int) binding.Rule[string] {
	return func(v string) error {
		if len([]rune(v)) > n {
			return fmt.Errorf("Value must be at most %d characters", n)
		}
		return nil
	}
}

// Pattern rejects strings that do not match expr. The expression is compiled
// once up front; an invalid expression is a caller error.
func Pattern(expr string) (binding.Rule[string], error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("rules: compile pattern %q: %w", expr, err)
	}
	return func(v string) error {
		if !re.MatchString(v) {
			return fmt.Errorf("Value must match pattern %s", expr)
		}
		return nil
	}, nil
}

// OneOf rejects values outside the allowed set.
func OneOf[T comparable](allowed ...T) binding.Rule[T] {
	set := make(map[T]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return func(v T) error {
		if _, ok := set[v]; !ok {
			return fmt.Errorf("Value %v is not one of the allowed options", v)
		}
		return nil
	}
}

package descriptor

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/rules"
)

// CompileString turns a field's declarative validations into one combined
// rule over string values. Unknown kinds are an error: a descriptor naming
// a rule this module cannot enforce is misconfigured, not ignorable.
func CompileString(field Field, policy binding.Policy) (binding.Rule[string], error) {
	var compiled []binding.Rule[string]
	for _, validation := range field.Validations {
		switch validation.Kind {
		case ValidationRuleRequired:
			compiled = append(compiled, rules.Required(labelFor(field)))
		case ValidationRuleMinLength:
			n, err := intParam(field, validation, "value")
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, rules.MinLength(n))
		case ValidationRuleMaxLength:
			n, err := intParam(field, validation, "value")
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, rules.MaxLength(n))
		case ValidationRulePattern:
			rule, err := rules.Pattern(validation.Params["pattern"])
			if err != nil {
				return nil, fmt.Errorf("descriptor: field %q: %w", field.Name, err)
			}
			compiled = append(compiled, rule)
		case ValidationRuleMin, ValidationRuleMax:
			return nil, fmt.Errorf("descriptor: field %q: numeric rule %q on a string field", field.Name, validation.Kind)
		default:
			return nil, fmt.Errorf("descriptor: field %q: unknown validation kind %q", field.Name, validation.Kind)
		}
	}
	if allowed := stringEnum(field.Enum); len(allowed) > 0 {
		compiled = append(compiled, rules.OneOf(allowed...))
	}
	return binding.Combine(policy, compiled...), nil
}

// CompileNumber turns a field's declarative validations into one combined
// rule over numeric values.
func CompileNumber(field Field, policy binding.Policy) (binding.Rule[float64], error) {
	var compiled []binding.Rule[float64]
	for _, validation := range field.Validations {
		switch validation.Kind {
		case ValidationRuleRequired:
			// Numeric presence cannot be distinguished from a zero value;
			// requiredness is enforced by the surrounding form, not here.
		case ValidationRuleMin:
			threshold, err := floatParam(field, validation, "value")
			if err != nil {
				return nil, err
			}
			if validation.Params["exclusive"] == "true" {
				compiled = append(compiled, exclusiveMin(threshold))
			} else {
				compiled = append(compiled, rules.Min(threshold))
			}
		case ValidationRuleMax:
			threshold, err := floatParam(field, validation, "value")
			if err != nil {
				return nil, err
			}
			if validation.Params["exclusive"] == "true" {
				compiled = append(compiled, exclusiveMax(threshold))
			} else {
				compiled = append(compiled, rules.Max(threshold))
			}
		case ValidationRuleMinLength, ValidationRuleMaxLength, ValidationRulePattern:
			return nil, fmt.Errorf("descriptor: field %q: string rule %q on a numeric field", field.Name, validation.Kind)
		default:
			return nil, fmt.Errorf("descriptor: field %q: unknown validation kind %q", field.Name, validation.Kind)
		}
	}
	return binding.Combine(policy, compiled...), nil
}

func exclusiveMin(threshold float64) binding.Rule[float64] {
	return func(v float64) error {
		if v <= threshold {
			return fmt.Errorf("Value must be greater than %s", formatFloat(threshold))
		}
		return nil
	}
}

func exclusiveMax(threshold float64) binding.Rule[float64] {
	return func(v float64) error {
		if v >= threshold {
			return fmt.Errorf("Value must be less than %s", formatFloat(threshold))
		}
		return nil
	}
}

func labelFor(field Field) string {
	if field.Label != "" {
		return field.Label
	}
	return DefaultLabeler(field.Name)
}

func intParam(field Field, validation ValidationRule, key string) (int, error) {
	raw := validation.Params[key]
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("descriptor: field %q: rule %q needs integer %q, got %q", field.Name, validation.Kind, key, raw)
	}
	return n, nil
}

func floatParam(field Field, validation ValidationRule, key string) (float64, error) {
	raw := validation.Params[key]
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("descriptor: field %q: rule %q needs number %q, got %q", field.Name, validation.Kind, key, raw)
	}
	return f, nil
}

func stringEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

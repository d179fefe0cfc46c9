package promptflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/provider"
)

// Flow builds a creation flow that prompts desc's fields in declaration
// order and resolves with a record of the answers. An interrupt at any
// prompt resolves the flow as cancelled: no item, no error. Lookup and
// array fields are skipped; sub-editors prompt scalar data only.
func Flow(desc descriptor.Form, opts ...FlowOption) provider.CreationFlowFunc[binder.Record] {
	cfg := flowConfig{
		driver: NewSurveyDriver(),
		policy: binding.FirstFailure,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	return func(ctx context.Context) (*binder.Record, error) {
		record := binder.NewRecord()
		for _, field := range desc.Fields {
			if field.Lookup != nil || field.Type == descriptor.FieldTypeArray {
				continue
			}
			value, err := promptField(ctx, cfg, field)
			if errors.Is(err, errCancelled) {
				return nil, nil
			}
			if err != nil {
				return nil, fmt.Errorf("promptflow: field %q: %w", field.Name, err)
			}
			record.Values[field.Name] = value
		}
		return &record, nil
	}
}

type flowConfig struct {
	driver PromptDriver
	policy binding.Policy
}

// FlowOption configures a Flow.
type FlowOption func(*flowConfig)

// WithDriver swaps the prompt driver; tests use a scripted one.
func WithDriver(driver PromptDriver) FlowOption {
	return func(cfg *flowConfig) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithPolicy selects the validation failure policy for prompted values.
func WithPolicy(policy binding.Policy) FlowOption {
	return func(cfg *flowConfig) {
		cfg.policy = policy
	}
}

func promptField(ctx context.Context, cfg flowConfig, field descriptor.Field) (any, error) {
	switch field.Type {
	case descriptor.FieldTypeBoolean:
		return cfg.driver.Confirm(ctx, ConfirmConfig{
			Message: promptLabel(field),
			Default: boolDefault(field.Default),
			Help:    field.Description,
		})
	case descriptor.FieldTypeInteger, descriptor.FieldTypeNumber:
		return promptNumber(ctx, cfg, field)
	default:
		if len(field.Enum) > 0 {
			return promptEnum(ctx, cfg, field)
		}
		return promptString(ctx, cfg, field)
	}
}

func promptString(ctx context.Context, cfg flowConfig, field descriptor.Field) (any, error) {
	rule, err := descriptor.CompileString(field, cfg.policy)
	if err != nil {
		return nil, err
	}
	defaultValue, _ := field.Default.(string)
	return cfg.driver.Input(ctx, InputConfig{
		Message:   promptLabel(field),
		Default:   defaultValue,
		Help:      field.Description,
		Validator: func(v string) error { return rule(v) },
	})
}

// promptNumber re-prompts on parse or rule failures; the terminal is the
// only place left to recover, so the loop only exits on success or
// interrupt.
func promptNumber(ctx context.Context, cfg flowConfig, field descriptor.Field) (any, error) {
	rule, err := descriptor.CompileNumber(field, cfg.policy)
	if err != nil {
		return nil, err
	}
	defaultValue := ""
	switch v := field.Default.(type) {
	case float64:
		defaultValue = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		defaultValue = strconv.Itoa(v)
	}

	for {
		input, err := cfg.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: defaultValue,
			Help:    field.Description,
		})
		if err != nil {
			return nil, err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil {
			if infoErr := cfg.driver.Info(ctx, fmt.Sprintf("%s must be a number", promptLabel(field))); infoErr != nil {
				return nil, infoErr
			}
			continue
		}
		if err := rule(parsed); err != nil {
			if infoErr := cfg.driver.Info(ctx, err.Error()); infoErr != nil {
				return nil, infoErr
			}
			continue
		}
		if field.Type == descriptor.FieldTypeInteger {
			return int64(parsed), nil
		}
		return parsed, nil
	}
}

func promptEnum(ctx context.Context, cfg flowConfig, field descriptor.Field) (any, error) {
	options := make([]string, 0, len(field.Enum))
	for _, value := range field.Enum {
		options = append(options, fmt.Sprint(value))
	}

	defaultIndex := -1
	if s, ok := field.Default.(string); ok {
		for i, option := range options {
			if option == s {
				defaultIndex = i
				break
			}
		}
	}

	index, err := cfg.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(field),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Description,
	})
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(options) {
		return nil, fmt.Errorf("selection %d out of range", index)
	}
	return options[index], nil
}

func promptLabel(field descriptor.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return descriptor.DefaultLabeler(field.Name)
}

func boolDefault(value any) bool {
	b, _ := value.(bool)
	return b
}

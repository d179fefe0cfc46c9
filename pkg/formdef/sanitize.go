package formdef

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbind/pkg/descriptor"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeForm strips markup from the human-facing strings of a definition.
// Form files often travel with content authored outside the codebase; a
// label is plain text, never HTML.
func sanitizeForm(form *descriptor.Form) {
	form.Title = sanitizeText(form.Title)
	form.Description = sanitizeText(form.Description)
	for i := range form.Fields {
		sanitizeField(&form.Fields[i])
	}
}

func sanitizeField(field *descriptor.Field) {
	field.Label = sanitizeText(field.Label)
	field.Placeholder = sanitizeText(field.Placeholder)
	field.Description = sanitizeText(field.Description)
	if field.Items != nil {
		sanitizeField(field.Items)
	}
	for i := range field.Nested {
		sanitizeField(&field.Nested[i])
	}
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(trimmed))
}

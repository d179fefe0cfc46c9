package descriptor

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const profileSpec = `
openapi: 3.0.3
info:
  title: Profiles
  version: "1.0"
paths:
  /profiles:
    post:
      operationId: createProfile
      summary: Create a profile
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [firstName]
              properties:
                firstName:
                  type: string
                  minLength: 2
                  maxLength: 40
                years:
                  type: integer
                  minimum: 4
                country:
                  type: string
                  x-formbind-lookup:
                    provider: countries
                    searchParam: q
                    paramKey: country
                state:
                  type: string
                  x-formbind-lookup:
                    provider: states
                    refreshOn: [country]
      responses:
        "201":
          description: created
`

func TestBuilder_FromData(t *testing.T) {
	builder := NewBuilder(BuilderOptions{})

	form, err := builder.FromData(context.Background(), []byte(profileSpec), "createProfile")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if form.ID != "createProfile" || form.Title != "Create a profile" {
		t.Fatalf("unexpected form header: %#v", form)
	}

	// Properties are emitted in sorted order.
	var names []string
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	want := []string{"country", "firstName", "state", "years"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	first, ok := form.FieldByName("firstName")
	if !ok {
		t.Fatal("expected firstName field")
	}
	if !first.Required || first.Label != "First name" {
		t.Fatalf("unexpected firstName descriptor: %#v", first)
	}
	wantRules := []ValidationRule{
		{Kind: ValidationRuleRequired},
		{Kind: ValidationRuleMinLength, Params: map[string]string{"value": "2"}},
		{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": "40"}},
	}
	if diff := cmp.Diff(wantRules, first.Validations); diff != "" {
		t.Fatalf("firstName validations mismatch (-want +got):\n%s", diff)
	}

	years, _ := form.FieldByName("years")
	if years.Type != FieldTypeInteger {
		t.Fatalf("expected integer type, got %s", years.Type)
	}
	wantRules = []ValidationRule{
		{Kind: ValidationRuleMin, Params: map[string]string{"value": "4"}},
	}
	if diff := cmp.Diff(wantRules, years.Validations); diff != "" {
		t.Fatalf("years validations mismatch (-want +got):\n%s", diff)
	}

	country, _ := form.FieldByName("country")
	if country.Lookup == nil || country.Lookup.Provider != "countries" || country.Lookup.ParamKey != "country" {
		t.Fatalf("unexpected country lookup: %#v", country.Lookup)
	}

	state, _ := form.FieldByName("state")
	if state.Lookup == nil {
		t.Fatal("expected state lookup")
	}
	if diff := cmp.Diff([]string{"country"}, state.Lookup.RefreshOn); diff != "" {
		t.Fatalf("state refreshOn mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_UnknownOperation(t *testing.T) {
	builder := NewBuilder(BuilderOptions{})
	if _, err := builder.FromData(context.Background(), []byte(profileSpec), "missing"); err == nil {
		t.Fatal("expected an error for an unknown operation")
	}
}

func TestDefaultLabeler(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"firstName", "First name"},
		{"first_name", "First Name"},
		{"years", "Years"},
		{"", ""},
		{"employerURL2", "Employer url 2"},
	}
	for _, tc := range tests {
		if got := DefaultLabeler(tc.in); got != tc.want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

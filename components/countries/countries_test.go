package countries

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formbind/pkg/provider"
)

func TestLoadCountries_DedupesSortsAndIgnoresComments(t *testing.T) {
	input := strings.NewReader(`
# Comment
US	United States	Americas
FR	France	Europe
US	United States	Americas

DE	Germany	Europe
`)

	countries, err := LoadCountries(input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(countries) != 3 {
		t.Fatalf("expected 3 countries, got %d", len(countries))
	}
	if countries[0].Name != "France" || countries[1].Name != "Germany" || countries[2].Name != "United States" {
		t.Fatalf("unexpected ordering: %#v", countries)
	}
}

func TestLoadCountries_RejectsMalformedLines(t *testing.T) {
	_, err := LoadCountries(strings.NewReader("US United States"))
	if err == nil {
		t.Fatal("expected an error for a line without tabs")
	}
}

func TestDefaultCountries_ContainsCommonEntries(t *testing.T) {
	countries, err := DefaultCountries()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(countries) < 150 {
		t.Fatalf("expected a reasonably sized list, got %d", len(countries))
	}

	byCode := map[string]Country{}
	for _, country := range countries {
		byCode[country.Code] = country
	}
	us, ok := byCode["US"]
	if !ok || us.Name != "United States" || us.Region != "Americas" {
		t.Fatalf("unexpected US entry: %#v", us)
	}
}

func TestRegions_DistinctAndSorted(t *testing.T) {
	countries, err := DefaultCountries()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	regions := Regions(countries)
	want := []string{"Africa", "Americas", "Asia", "Europe", "Oceania"}
	if len(regions) != len(want) {
		t.Fatalf("unexpected regions: %#v", regions)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Fatalf("unexpected region at %d: got %q want %q", i, regions[i], want[i])
		}
	}
}

func TestSearch_PrefixBeforeContains(t *testing.T) {
	countries := []Country{
		{Code: "US", Name: "United States", Region: "Americas"},
		{Code: "AE", Name: "United Arab Emirates", Region: "Asia"},
		{Code: "TZ", Name: "Tanzania", Region: "Africa"},
	}
	opts := NewOptions()

	results := Search(countries, "united", 10, opts)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %#v", results)
	}
	// Both are prefix matches; the shorter label is the nearer edit.
	if results[0].Code != "US" || results[1].Code != "AE" {
		t.Fatalf("unexpected ordering: %#v", results)
	}
}

func TestSearch_EmptyQueryHonoursMode(t *testing.T) {
	countries := []Country{
		{Code: "US", Name: "United States", Region: "Americas"},
		{Code: "FR", Name: "France", Region: "Europe"},
	}

	none := NewOptions(WithEmptySearchMode(EmptySearchNone))
	if results := Search(countries, "", 10, none); results != nil {
		t.Fatalf("expected no results, got %#v", results)
	}

	top := NewOptions(WithEmptySearchMode(EmptySearchTop), WithDefaultLimit(1))
	results := Search(countries, "", 0, top)
	if len(results) != 1 {
		t.Fatalf("expected the limit applied, got %#v", results)
	}
}

func TestCountryProvider_FiltersByRegionParam(t *testing.T) {
	p := NewProvider()

	options, err := p.Values(context.Background(), provider.Query{
		Params: map[string]string{"region": "Oceania"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(options) == 0 {
		t.Fatal("expected Oceania countries")
	}
	for _, opt := range options {
		if opt.Value == "DE" {
			t.Fatalf("Germany must not appear in Oceania: %#v", options)
		}
	}
}

func TestCountryProvider_RanksByTerm(t *testing.T) {
	p := NewProvider()

	options, err := p.Values(context.Background(), provider.Query{Term: "germ"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(options) == 0 || options[0].Value != "DE" {
		t.Fatalf("expected Germany first, got %#v", options)
	}
}

func TestRegionProvider_ServesDistinctRegions(t *testing.T) {
	p := NewRegionProvider()

	options, err := p.Values(context.Background(), provider.Query{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(options) != 5 {
		t.Fatalf("expected 5 regions, got %#v", options)
	}
}

package countries

import (
	"strings"

	"github.com/goliatone/go-formbind/pkg/provider"
)

// Search returns the countries matching query, ranked the way lookup
// fields rank options: prefix matches first, then substring matches, each
// tier ordered by edit distance. An empty query honours the configured
// empty-search mode.
func Search(countries []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" && opts.EmptySearchMode == EmptySearchNone {
		return nil
	}

	ranked := provider.Rank(toOptions(countries), query, limit)
	byCode := make(map[string]Country, len(countries))
	for _, country := range countries {
		byCode[country.Code] = country
	}

	out := make([]Country, 0, len(ranked))
	for _, opt := range ranked {
		out = append(out, byCode[opt.Value])
	}
	return out
}

// SearchOptions runs Search and maps the hits to value/label options.
func SearchOptions(countries []Country, query string, limit int, opts Options) []provider.Option {
	results := Search(countries, query, limit, opts)
	if len(results) == 0 {
		return nil
	}
	return toOptions(results)
}

func toOptions(countries []Country) []provider.Option {
	out := make([]provider.Option, 0, len(countries))
	for _, country := range countries {
		out = append(out, provider.Option{Value: country.Code, Label: country.Name})
	}
	return out
}

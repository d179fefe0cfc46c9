package provider

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Option is a value/label pair served by option providers.
type Option struct {
	Value string
	Label string
}

// StaticOption configures a StaticProvider.
type StaticOption func(*StaticProvider)

// WithLimit caps the number of options returned per query.
func WithLimit(limit int) StaticOption {
	return func(p *StaticProvider) {
		if limit > 0 {
			p.limit = limit
		}
	}
}

// WithFilterParam restricts served options to those whose group matches the
// named query parameter, using the supplied group lookup.
func WithFilterParam(param string, groupOf func(Option) string) StaticOption {
	return func(p *StaticProvider) {
		p.filterParam = param
		p.groupOf = groupOf
	}
}

// StaticProvider serves an in-memory option list with ranked search. It is
// the reference ValuesProvider for tests, examples, and small embedded
// datasets.
type StaticProvider struct {
	options     []Option
	limit       int
	filterParam string
	groupOf     func(Option) string
}

// NewStatic builds a provider over a copy of options.
func NewStatic(options []Option, fns ...StaticOption) *StaticProvider {
	p := &StaticProvider{
		options: append([]Option(nil), options...),
		limit:   50,
	}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(p)
	}
	return p
}

// Values serves the ranked options matching the query.
func (p *StaticProvider) Values(ctx context.Context, query Query) ([]Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := p.options
	if p.filterParam != "" && p.groupOf != nil {
		group := query.Param(p.filterParam)
		filtered := make([]Option, 0, len(candidates))
		for _, opt := range candidates {
			if p.groupOf(opt) == group {
				filtered = append(filtered, opt)
			}
		}
		candidates = filtered
	}

	return Rank(candidates, query.Term, p.limit), nil
}

type rankedOption struct {
	opt      Option
	isPrefix bool
	distance int
}

// Rank orders options against term: prefix matches first, then substring
// matches, each tier sorted by edit distance between the lowercased label
// and the term so near-misses surface before distant ones. An empty term
// returns the first limit options unranked.
func Rank(options []Option, term string, limit int) []Option {
	if limit <= 0 {
		limit = len(options)
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		if len(options) <= limit {
			return append([]Option(nil), options...)
		}
		return append([]Option(nil), options[:limit]...)
	}

	matches := make([]rankedOption, 0, 16)
	for _, opt := range options {
		label := strings.ToLower(opt.Label)
		if !strings.Contains(label, term) {
			continue
		}
		matches = append(matches, rankedOption{
			opt:      opt,
			isPrefix: strings.HasPrefix(label, term),
			distance: levenshtein.ComputeDistance(label, term),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].opt.Label < matches[j].opt.Label
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.opt)
	}
	return out
}

package countries

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/provider"
)

// CountryProvider serves country options, optionally narrowed to the region
// named by the configured query parameter. It satisfies the values-provider
// contract lookup fields fetch against.
type CountryProvider struct {
	opts Options
}

// NewProvider constructs a country provider with default options plus any
// overrides. Without WithCountries the embedded dataset is used, loaded
// lazily on the first query.
func NewProvider(fns ...OptionFn) *CountryProvider {
	return &CountryProvider{opts: NewOptions(fns...)}
}

// Values serves the ranked countries matching the query. The region query
// parameter, when present and non-empty, filters candidates before ranking.
func (p *CountryProvider) Values(ctx context.Context, query provider.Query) ([]provider.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	countries, err := p.dataset()
	if err != nil {
		return nil, err
	}

	if region := query.Param(p.opts.RegionParam); region != "" {
		filtered := make([]Country, 0, len(countries))
		for _, country := range countries {
			if country.Region == region {
				filtered = append(filtered, country)
			}
		}
		countries = filtered
	}

	return SearchOptions(countries, query.Term, 0, p.opts), nil
}

func (p *CountryProvider) dataset() ([]Country, error) {
	if p.opts.Countries != nil {
		return p.opts.Countries, nil
	}
	return DefaultCountries()
}

// RegionProvider serves the distinct regions of the dataset as options. It
// pairs with CountryProvider as the upstream half of a region/country
// cascade.
type RegionProvider struct {
	opts Options
}

// NewRegionProvider constructs a region provider.
func NewRegionProvider(fns ...OptionFn) *RegionProvider {
	return &RegionProvider{opts: NewOptions(fns...)}
}

// Values serves the regions matching the query term.
func (p *RegionProvider) Values(ctx context.Context, query provider.Query) ([]provider.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	countries := p.opts.Countries
	if countries == nil {
		var err error
		countries, err = DefaultCountries()
		if err != nil {
			return nil, err
		}
	}

	regions := Regions(countries)
	options := make([]provider.Option, 0, len(regions))
	for _, region := range regions {
		options = append(options, provider.Option{Value: region, Label: region})
	}
	return provider.Rank(options, query.Term, clampLimit(0, p.opts)), nil
}

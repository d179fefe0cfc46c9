// Package countries provides deterministic ISO 3166 country data, ranked
// search helpers, and ready-made option providers for lookup fields.
//
// The region provider and the country provider pair up into a cascade:
// selecting a region contributes a "region" query parameter that narrows
// the country provider's option set. The backing data is loaded from the
// embedded list under data/countries.tsv.
package countries

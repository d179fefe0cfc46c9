package countries

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/countries.tsv
var dataFS embed.FS

const defaultListPath = "data/countries.tsv"

// Country is one entry of the embedded dataset.
type Country struct {
	Code   string
	Name   string
	Region string
}

var (
	defaultOnce      sync.Once
	defaultCountries []Country
	defaultErr       error
)

func DefaultCountries() ([]Country, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		countries, err := LoadCountries(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCountries = countries
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Country{}, defaultCountries...), nil
}

// LoadCountries parses tab-separated "code name region" lines, skipping
// blanks and comments. Entries are deduplicated by code and sorted by name.
func LoadCountries(r io.Reader) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	scanner := bufio.NewScanner(r)
	countries := make([]Country, 0, 256)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			return nil, fmt.Errorf("countries: malformed line %q", line)
		}
		code := strings.TrimSpace(parts[0])
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		countries = append(countries, Country{
			Code:   code,
			Name:   strings.TrimSpace(parts[1]),
			Region: strings.TrimSpace(parts[2]),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Name < countries[j].Name
	})
	return countries, nil
}

// Regions returns the distinct regions of the dataset, sorted.
func Regions(countries []Country) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, country := range countries {
		if country.Region == "" {
			continue
		}
		if _, ok := seen[country.Region]; ok {
			continue
		}
		seen[country.Region] = struct{}{}
		out = append(out, country.Region)
	}
	sort.Strings(out)
	return out
}

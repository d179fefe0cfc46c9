package countries

type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

type Options struct {
	RegionParam     string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode

	Countries []Country
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RegionParam:     "region",
		DefaultLimit:    50,
		MaxLimit:        200,
		EmptySearchMode: EmptySearchTop,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchTop
	}
	if opts.RegionParam == "" {
		opts.RegionParam = "region"
	}
	if opts.Countries != nil {
		opts.Countries = append([]Country{}, opts.Countries...)
	}
	return opts
}

func WithRegionParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RegionParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EmptySearchMode = mode
	}
}

func WithCountries(countries []Country) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if countries == nil {
			o.Countries = nil
			return
		}
		o.Countries = append([]Country{}, countries...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}

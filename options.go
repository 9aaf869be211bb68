package sigma

// Option is a function type that can be used to configure the `Calculator` struct.
type Option func(*Calculator)

// ApplyOptions applies the given options to the given calculator.
func ApplyOptions(calc *Calculator, options ...Option) {
	for _, option := range options {
		option(calc)
	}
}

// WithStatsCollector is an option that sets the name of the stats collector used by the `Calculator`.
// The collector must be registered in the default collector registry.
func WithStatsCollector(name string) Option {
	return func(calc *Calculator) {
		calc.statsCollectorName = name
	}
}

// WithManagementHTTP enables the HTTP server on the given address, started by `New` and stopped by `Stop`.
func WithManagementHTTP(addr string, opts ...HTTPOption) Option {
	return func(calc *Calculator) {
		calc.httpServer = NewHTTPServer(addr, opts...)
	}
}

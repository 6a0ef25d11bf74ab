package oxcel

// Options holds reader and writer configuration.
type Options struct {
	strict             bool
	streamingThreshold int
	forceStreaming     bool
}

// DefaultStreamingThreshold is the cell count above which the writer emits
// a sheet's rows incrementally instead of materializing the whole part.
const DefaultStreamingThreshold = 100_000

func defaultOptions() *Options {
	return &Options{streamingThreshold: DefaultStreamingThreshold}
}

// Option configures Open and the writers.
type Option func(*Options)

// WithStrictMode makes the reader fail with ErrCorruptPackage on
// out-of-range style or shared-string indices instead of substituting the
// default style or empty string the way Excel does.
func WithStrictMode(strict bool) Option {
	return func(o *Options) { o.strict = strict }
}

// WithStreamingThreshold sets the per-sheet cell count above which the
// writer switches to streaming row emission. Zero restores the default.
func WithStreamingThreshold(cells int) Option {
	return func(o *Options) {
		if cells <= 0 {
			cells = DefaultStreamingThreshold
		}
		o.streamingThreshold = cells
	}
}

// WithForceStreaming makes the writer stream every sheet regardless of size.
func WithForceStreaming() Option {
	return func(o *Options) { o.forceStreaming = true }
}

func applyOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

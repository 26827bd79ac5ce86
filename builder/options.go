package builder

import (
	"net/http"
	"time"

	"github.com/wudi/simplepdf/fonts"
	"github.com/wudi/simplepdf/observability"
	"github.com/wudi/simplepdf/surface"
	"github.com/wudi/simplepdf/writer"
)

// DefaultVersion is the format version written in the header banner.
const DefaultVersion = "1.6"

type options struct {
	version  string
	logger   observability.Logger
	tracer   observability.Tracer
	measurer fonts.Measurer
	surface  surface.Surface
	client   *http.Client
	clock    func() time.Time
	writer   writer.Writer
	check    bool
}

func defaultOptions() options {
	return options{
		version:  DefaultVersion,
		logger:   observability.NopLogger{},
		tracer:   observability.NopTracer(),
		measurer: fonts.NewFaceMeasurer(),
		surface:  surface.NewRenderer(),
		client:   http.DefaultClient,
		clock:    time.Now,
	}
}

// Option configures a Document.
type Option func(*options)

// WithVersion sets the format version of the header banner.
func WithVersion(v string) Option {
	return func(o *options) {
		if v != "" {
			o.version = v
		}
	}
}

// WithLogger sets the logger used for document events.
func WithLogger(l observability.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer wrapped around composition.
func WithTracer(t observability.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithMeasurer sets the text measurement used for link rectangles.
func WithMeasurer(m fonts.Measurer) Option {
	return func(o *options) {
		if m != nil {
			o.measurer = m
		}
	}
}

// WithSurface sets the rasterizer for images.
func WithSurface(s surface.Surface) Option {
	return func(o *options) {
		if s != nil {
			o.surface = s
		}
	}
}

// WithHTTPClient sets the client AddImageURL fetches with.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithClock sets the time source for default metadata dates.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithWriter replaces the serializer, for example to add interceptors.
func WithWriter(w writer.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithContentCheck makes composition tokenize every content stream and fail
// on malformed operator text. It has no effect together with WithWriter.
func WithContentCheck() Option {
	return func(o *options) { o.check = true }
}

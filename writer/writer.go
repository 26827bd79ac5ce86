package writer

import (
	"context"
	"io"

	"github.com/wudi/simplepdf/ir/graph"
	"github.com/wudi/simplepdf/observability"
)

type Config struct {
	Logger observability.Logger

	// CheckContent tokenizes each content stream and rejects operands
	// left without an operator.
	CheckContent bool
}

// Writer serializes a document graph rooted at its Head node.
type Writer interface {
	// Compose assigns object identifiers and resource names from scratch and
	// returns the complete file.
	Compose(ctx context.Context, g *graph.Graph, root graph.NodeID) ([]byte, error)
	// Write composes and copies the file to w.
	Write(ctx context.Context, g *graph.Graph, root graph.NodeID, w io.Writer) (int64, error)
}

// Interceptor observes every emitted body object.
type Interceptor interface {
	BeforeWrite(ctx context.Context, n *graph.Node) error
	AfterWrite(ctx context.Context, n *graph.Node, bytesWritten int64) error
}

type WriterBuilder struct {
	interceptors []Interceptor
	cfg          Config
}

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}

func (b *WriterBuilder) WithConfig(cfg Config) *WriterBuilder {
	b.cfg = cfg
	return b
}

func (b *WriterBuilder) Build() Writer {
	cfg := b.cfg
	if cfg.Logger == nil {
		cfg.Logger = observability.NopLogger{}
	}
	return &impl{interceptors: b.interceptors, cfg: cfg}
}

// New returns a Writer without interceptors.
func New(cfg Config) Writer { return (&WriterBuilder{}).WithConfig(cfg).Build() }

package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wudi/simplepdf/ir/graph"
	"github.com/wudi/simplepdf/observability"
)

type impl struct {
	interceptors []Interceptor
	cfg          Config
}

func (w *impl) Write(ctx context.Context, g *graph.Graph, root graph.NodeID, out io.Writer) (int64, error) {
	data, err := w.Compose(ctx, g, root)
	if err != nil {
		return 0, err
	}
	n, err := out.Write(data)
	return int64(n), err
}

func (w *impl) Compose(ctx context.Context, g *graph.Graph, root graph.NodeID) ([]byte, error) {
	head := g.Node(root)
	if head == nil || head.Kind != graph.KindHead {
		return nil, errors.New("compose: root is not a head node")
	}
	count, infoNum, rootNum, err := assignObjectNumbers(g, root)
	if err != nil {
		return nil, err
	}

	c := &composer{g: g, check: w.cfg.CheckContent}
	var buf bytes.Buffer
	offsets := make([]int, 0, count)
	pages := 0
	err = g.Walk(root, func(id graph.NodeID, n *graph.Node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, i := range w.interceptors {
			if err := i.BeforeWrite(ctx, n); err != nil {
				return err
			}
		}
		body, err := c.compose(id, n)
		if err != nil {
			return fmt.Errorf("compose %s object %d: %w", n.Kind, n.ObjectNum, err)
		}
		if n.Kind != graph.KindHead {
			offsets = append(offsets, buf.Len())
		}
		if n.Kind == graph.KindPage {
			pages++
		}
		buf.Write(body)
		for _, i := range w.interceptors {
			if err := i.AfterWrite(ctx, n, int64(len(body))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// XRef
	xrefOffset := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", count+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	// Trailer
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d\n/Info %d 0 R\n/Root %d 0 R\n>>\n", count+1, infoNum, rootNum))
	buf.WriteString(fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefOffset))

	w.cfg.Logger.Debug("document composed",
		observability.Int(observability.MetricObjectCount, count),
		observability.Int(observability.MetricPageCount, pages),
		observability.Int(observability.MetricOutputBytes, buf.Len()),
	)
	return buf.Bytes(), nil
}

// assignObjectNumbers clears every identifier and resource name left by an
// earlier run, then numbers active nodes in pre-order: the head is 0 and is
// not counted, every other node takes the next number. It returns the
// number of body objects and the numbers of the metadata and catalog.
func assignObjectNumbers(g *graph.Graph, root graph.NodeID) (count, infoNum, rootNum int, err error) {
	for i := 0; i < g.Len(); i++ {
		n := g.Node(graph.NodeID(i))
		n.ObjectNum = graph.Unassigned
		n.RefName = ""
	}
	infoNum, rootNum = graph.Unassigned, graph.Unassigned
	next := 0
	_ = g.Walk(root, func(_ graph.NodeID, n *graph.Node) error {
		n.ObjectNum = next
		if n.Kind != graph.KindHead {
			count++
		}
		next++
		switch {
		case n.Kind == graph.KindMetadata && infoNum == graph.Unassigned:
			infoNum = n.ObjectNum
		case n.Kind == graph.KindCatalog && rootNum == graph.Unassigned:
			rootNum = n.ObjectNum
		}
		return nil
	})
	if infoNum == graph.Unassigned {
		return 0, 0, 0, errors.New("compose: document has no metadata object")
	}
	if rootNum == graph.Unassigned {
		return 0, 0, 0, errors.New("compose: document has no catalog object")
	}
	return count, infoNum, rootNum, nil
}

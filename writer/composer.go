package writer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wudi/simplepdf/contentstream"
	"github.com/wudi/simplepdf/filters"
	"github.com/wudi/simplepdf/fonts"
	"github.com/wudi/simplepdf/ir/graph"
)

// metadataKeys lists the information dictionary entries in attribute order.
var metadataKeys = []string{"Title", "Author", "Creator", "Producer", "Subject", "Keywords", "CreationDate", "ModDate"}

type composer struct {
	g     *graph.Graph
	check bool
}

// compose renders the body of one node. Every kind has exactly one rule.
func (c *composer) compose(id graph.NodeID, n *graph.Node) ([]byte, error) {
	switch n.Kind {
	case graph.KindHead:
		return c.head(n)
	case graph.KindMetadata:
		return c.metadata(n)
	case graph.KindCatalog:
		return c.catalog(id, n)
	case graph.KindPageArea:
		return c.pageArea(id, n)
	case graph.KindPage:
		return c.page(id, n)
	case graph.KindFont:
		return c.font(n)
	case graph.KindStream:
		return c.stream(n)
	case graph.KindImageStream:
		return c.imageStream(n)
	case graph.KindAnnotation:
		return c.annotation(n)
	default:
		return nil, fmt.Errorf("no composition rule for %s", n.Kind)
	}
}

func (c *composer) head(n *graph.Node) ([]byte, error) {
	version, ok := n.Attr(0).Text()
	if !ok || version == "" {
		return nil, errors.New("missing format version")
	}
	return []byte("%PDF-" + version + "\n"), nil
}

func (c *composer) metadata(n *graph.Node) ([]byte, error) {
	var b strings.Builder
	b.WriteString(objHeader(n) + " <<\n")
	for i, key := range metadataKeys {
		v, _ := n.Attr(i).Text()
		b.WriteString("/" + key + " (" + contentstream.Escape(fonts.WinAnsi.EncodeString(v)) + ")\n")
	}
	b.WriteString(">>\nendobj\n")
	return []byte(b.String()), nil
}

func (c *composer) catalog(id graph.NodeID, n *graph.Node) ([]byte, error) {
	area := c.g.Node(c.g.NewestActiveChild(id, graph.KindPageArea))
	if area == nil {
		return nil, errors.New("catalog has no page area")
	}
	return []byte(objHeader(n) + " <<\n/Type /Catalog\n/Pages " + objRef(area) + "\n>>\nendobj\n"), nil
}

// pageArea allocates /F and /I resource names for its active fonts and
// images in child order. Soft masks are only reachable through their host.
func (c *composer) pageArea(id graph.NodeID, n *graph.Node) ([]byte, error) {
	width, _ := n.Attr(0).Text()
	height, _ := n.Attr(1).Text()
	var b strings.Builder
	b.WriteString(objHeader(n) + " <<\n/Type /Pages\n")
	b.WriteString("/MediaBox [0 0 " + width + " " + height + "]\n")
	b.WriteString("/Resources <<\n/ProcSet [/PDF /Text /ImageB /ImageC /ImageI]\n")

	b.WriteString("/Font <<\n")
	for i, fid := range c.g.ActiveChildren(id, graph.KindFont) {
		f := c.g.Node(fid)
		f.RefName = "/F" + strconv.Itoa(i+1)
		b.WriteString(f.RefName + " " + objRef(f) + "\n")
	}
	b.WriteString(">>\n/XObject <<\n")
	count := 0
	for _, iid := range c.g.ActiveChildren(id, graph.KindImageStream) {
		img := c.g.Node(iid)
		if img.IsSoftMask() {
			continue
		}
		count++
		img.RefName = "/I" + strconv.Itoa(count)
		b.WriteString(img.RefName + " " + objRef(img) + "\n")
	}
	b.WriteString(">>\n>>\n")

	pages := c.g.ActiveChildren(id, graph.KindPage)
	b.WriteString("/Kids [" + c.refList(pages) + "]\n")
	b.WriteString("/Count " + strconv.Itoa(len(pages)) + "\n>>\nendobj\n")
	return []byte(b.String()), nil
}

func (c *composer) page(id graph.NodeID, n *graph.Node) ([]byte, error) {
	parent := c.g.Node(n.Parent)
	if parent == nil {
		return nil, errors.New("page has no parent")
	}
	var b strings.Builder
	b.WriteString(objHeader(n) + " <<\n/Type /Page\n")
	b.WriteString("/Parent " + objRef(parent) + "\n")
	b.WriteString("/Annots [" + c.refList(c.g.ActiveChildren(id, graph.KindAnnotation)) + "]\n")
	if content := c.g.Node(c.g.NewestActiveChild(id, graph.KindStream)); content != nil {
		b.WriteString("/Contents " + objRef(content) + "\n")
	}
	b.WriteString(">>\nendobj\n")
	return []byte(b.String()), nil
}

func (c *composer) font(n *graph.Node) ([]byte, error) {
	base, ok := n.Attr(0).Text()
	if !ok {
		return nil, errors.New("font without base font")
	}
	enc, ok := n.Attr(1).Text()
	if !ok {
		return nil, errors.New("font without encoding")
	}
	return []byte(objHeader(n) + " <<\n/Type /Font\n/Subtype /Type1\n" +
		"/BaseFont /" + base + "\n/Encoding /" + enc + "\n>>\nendobj\n"), nil
}

// stream renders the operator lines and declares the length of the content
// before encoding.
func (c *composer) stream(n *graph.Node) ([]byte, error) {
	content, err := c.streamContent(n)
	if err != nil {
		return nil, err
	}
	if c.check {
		if _, err := contentstream.Parse([]byte(content)); err != nil {
			return nil, fmt.Errorf("content stream: %w", err)
		}
	}
	var b strings.Builder
	b.WriteString(objHeader(n) + " <<\n/Filter /" + filters.ASCII85Name + "\n")
	b.WriteString("/Length " + strconv.Itoa(len(content)) + "\n>>\nstream\n")
	b.Write(filters.ASCII85Encode([]byte(content)))
	b.WriteString("\nendstream\nendobj\n")
	return []byte(b.String()), nil
}

func (c *composer) streamContent(n *graph.Node) (string, error) {
	var b strings.Builder
	for i := 0; i < len(n.Attrs); i++ {
		attr := n.Attrs[i]
		switch attr.Kind() {
		case graph.ValueRef:
			ref, _ := attr.Ref()
			target := c.g.Node(ref)
			if target == nil {
				return "", fmt.Errorf("attribute %d references missing node %d", i, ref)
			}
			switch target.Kind {
			case graph.KindFont:
				size, ok := n.Attr(i + 1).Number()
				if !ok {
					return "", fmt.Errorf("font reference at %d is not followed by a size", i)
				}
				i++
				if target.RefName != "" {
					b.WriteString(contentstream.FontSelect(target.RefName, size) + "\n")
				}
			case graph.KindImageStream:
				if target.RefName != "" {
					b.WriteString(contentstream.DrawXObject(target.RefName) + "\n")
				}
			default:
				return "", fmt.Errorf("attribute %d references a %s node", i, target.Kind)
			}
		case graph.ValueText, graph.ValueNumber:
			b.WriteString(attr.String() + "\n")
		default:
			return "", fmt.Errorf("attribute %d has no value", i)
		}
	}
	return b.String(), nil
}

func (c *composer) imageStream(n *graph.Node) ([]byte, error) {
	if n.Raster == nil {
		return nil, errors.New("image has no pixel data")
	}
	bounds := n.Raster.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := n.IsSoftMask()

	var samples []byte
	colorSpace, sample := "/DeviceRGB", 3
	if mask {
		colorSpace, sample = "/DeviceGray", 1
		samples = make([]byte, 0, w*h)
	} else {
		samples = make([]byte, 0, w*h*3)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := n.Raster.Pix[n.Raster.PixOffset(bounds.Min.X, y):n.Raster.PixOffset(bounds.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			if mask {
				samples = append(samples, row[i+3])
			} else {
				samples = append(samples, row[i], row[i+1], row[i+2])
			}
		}
	}
	data := filters.ASCIIHexEncode(samples, sample)

	var b strings.Builder
	b.WriteString(objHeader(n) + "\n<<\n/Type /XObject\n/Subtype /Image\n")
	b.WriteString("/Width " + strconv.Itoa(w) + "\n/Height " + strconv.Itoa(h) + "\n")
	b.WriteString("/ColorSpace " + colorSpace + "\n/BitsPerComponent 8\n")
	if !mask {
		if ref, ok := n.Attr(0).Ref(); ok {
			if sm := c.g.Node(ref); sm != nil && sm.Active {
				b.WriteString("/SMask " + objRef(sm) + "\n")
			}
		}
	}
	b.WriteString("/Filter /" + filters.ASCIIHexName + "\n")
	b.WriteString("/Length " + strconv.Itoa(len(data)) + "\n>>\nstream\n")
	b.Write(data)
	b.WriteString("\nendstream\nendobj\n")
	return []byte(b.String()), nil
}

func (c *composer) annotation(n *graph.Node) ([]byte, error) {
	rect, ok := n.Attr(0).Text()
	if !ok {
		return nil, errors.New("annotation without rectangle")
	}
	uri, _ := n.Attr(1).Text()
	return []byte(objHeader(n) + "\n<<\n/Type /Annot\n/Subtype /Link\n" +
		"/Rect [" + rect + "]\n" +
		"/A <<\n/S /URI\n/URI (" + contentstream.Escape(uri) + ")\n>>\n" +
		"/Border [0 0 0]\n/H /N\n>>\nendobj\n"), nil
}

func (c *composer) refList(ids []graph.NodeID) string {
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = objRef(c.g.Node(id))
	}
	return strings.Join(refs, " ")
}

func objHeader(n *graph.Node) string { return strconv.Itoa(n.ObjectNum) + " 0 obj" }
func objRef(n *graph.Node) string    { return strconv.Itoa(n.ObjectNum) + " 0 R" }

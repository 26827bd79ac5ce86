package writer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/wudi/simplepdf/filters"
	"github.com/wudi/simplepdf/ir/graph"
)

type fixture struct {
	g      *graph.Graph
	head   graph.NodeID
	meta   graph.NodeID
	cat    graph.NodeID
	area   graph.NodeID
	font   graph.NodeID
	page   graph.NodeID
	stream graph.NodeID
}

func newFixture() *fixture {
	g := graph.New()
	f := &fixture{g: g}
	f.head = g.Create(graph.KindHead, []graph.Value{graph.Text("1.6")}, graph.NoNode, true)
	f.meta = g.Create(graph.KindMetadata, []graph.Value{
		graph.Text("Title (1)"), graph.Text("Author"), graph.Text(""), graph.Text(""),
		graph.Text(""), graph.Text(""), graph.Text("D:20240101000000+00'00'"), graph.Text("D:20240101000000+00'00'"),
	}, f.head, true)
	f.cat = g.Create(graph.KindCatalog, nil, f.meta, true)
	f.area = g.Create(graph.KindPageArea, []graph.Value{graph.Text("595.27559"), graph.Text("841.88976")}, f.cat, true)
	f.font = g.Create(graph.KindFont, []graph.Value{graph.Text("Helvetica"), graph.Text("WinAnsiEncoding")}, f.area, true)
	f.page = g.Create(graph.KindPage, nil, f.area, true)
	f.stream = g.Create(graph.KindStream, []graph.Value{
		graph.Ref(f.font), graph.Number(12),
		graph.Text("BT"), graph.Text("28.34646 805.53543 Td"), graph.Text("(Hi) Tj"), graph.Text("ET"),
	}, f.page, true)
	return f
}

func (f *fixture) compose(t *testing.T) string {
	t.Helper()
	out, err := New(Config{}).Compose(context.Background(), f.g, f.head)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	return string(out)
}

var (
	objRe  = regexp.MustCompile(`(?m)^(\d+) 0 obj`)
	refRe  = regexp.MustCompile(`(\d+) 0 R`)
	sizeRe = regexp.MustCompile(`xref\n0 (\d+)\n`)
)

// checkStructure verifies ids are dense, references resolve and every xref
// offset points at its object header.
func checkStructure(t *testing.T, out string) []int {
	t.Helper()
	var ids []int
	for _, m := range objRe.FindAllStringSubmatch(out, -1) {
		id, _ := strconv.Atoi(m[1])
		ids = append(ids, id)
	}
	for i, id := range ids {
		if id != i+1 {
			t.Fatalf("object ids %v are not dense", ids)
		}
	}
	for _, m := range refRe.FindAllStringSubmatch(out, -1) {
		id, _ := strconv.Atoi(m[1])
		if id < 1 || id > len(ids) {
			t.Fatalf("reference %s does not resolve", m[0])
		}
	}
	sm := sizeRe.FindStringSubmatch(out)
	if sm == nil {
		t.Fatalf("xref header missing")
	}
	if size, _ := strconv.Atoi(sm[1]); size != len(ids)+1 {
		t.Fatalf("xref size = %d, want %d", size, len(ids)+1)
	}
	xref := strings.Index(out, "xref\n")
	lines := strings.Split(out[xref:], "\n")
	if lines[2] != "0000000000 65535 f " {
		t.Fatalf("free entry = %q", lines[2])
	}
	for i := range ids {
		entry := lines[3+i]
		if len(entry) != 19 || !strings.HasSuffix(entry, " 00000 n ") {
			t.Fatalf("xref entry %q", entry)
		}
		off, _ := strconv.Atoi(entry[:10])
		want := strconv.Itoa(i+1) + " 0 obj"
		if !strings.HasPrefix(out[off:], want) {
			t.Fatalf("offset %d does not start object %d", off, i+1)
		}
	}
	start := regexp.MustCompile(`startxref\n(\d+)\n%%EOF\n$`).FindStringSubmatch(out)
	if start == nil {
		t.Fatalf("trailer end missing")
	}
	if off, _ := strconv.Atoi(start[1]); off != xref {
		t.Fatalf("startxref = %d, want %d", off, xref)
	}
	return ids
}

func TestComposeMinimalDocument(t *testing.T) {
	f := newFixture()
	out := f.compose(t)

	if !strings.HasPrefix(out, "%PDF-1.6\n1 0 obj <<\n") {
		t.Fatalf("unexpected prefix: %q", out[:20])
	}
	ids := checkStructure(t, out)
	if len(ids) != 6 {
		t.Fatalf("object count = %d, want 6", len(ids))
	}
	if strings.Count(out, "/Subtype /Type1") != 1 || !strings.Contains(out, "/BaseFont /Helvetica\n") {
		t.Fatalf("font object missing")
	}
	for _, want := range []string{
		"/Title (Title \\(1\\))\n",
		"/Type /Catalog\n/Pages 3 0 R\n",
		"/MediaBox [0 0 595.27559 841.88976]\n",
		"/F1 4 0 R\n",
		"/Kids [5 0 R]\n/Count 1\n",
		"/Parent 3 0 R\n/Annots []\n/Contents 6 0 R\n",
		"trailer\n<< /Size 7\n/Info 1 0 R\n/Root 2 0 R\n>>\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestComposeStreamContent(t *testing.T) {
	f := newFixture()
	out := f.compose(t)

	content := "/F1 12 Tf\nBT\n28.34646 805.53543 Td\n(Hi) Tj\nET\n"
	header := "/Filter /ASCII85Decode\n/Length " + strconv.Itoa(len(content)) + "\n>>\nstream\n"
	i := strings.Index(out, header)
	if i < 0 {
		t.Fatalf("stream header missing")
	}
	body := out[i+len(header):]
	body = body[:strings.Index(body, "\nendstream")]
	decoded, err := filters.DefaultPipeline().Decode(context.Background(), []byte(body), filters.ASCII85Name)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != content {
		t.Fatalf("content = %q, want %q", decoded, content)
	}
}

func TestComposeDeactivationShiftsIDs(t *testing.T) {
	f := newFixture()
	extra := f.g.Create(graph.KindFont, []graph.Value{graph.Text("Courier"), graph.Text("WinAnsiEncoding")}, graph.NoNode, true)
	f.g.Prepend(f.area, extra)
	f.g.Node(extra).Parent = f.area

	before := checkStructure(t, f.compose(t))
	f.g.Node(extra).Active = false
	out := f.compose(t)
	after := checkStructure(t, out)

	if len(after) != len(before)-1 {
		t.Fatalf("object count %d -> %d", len(before), len(after))
	}
	if strings.Contains(out, "Courier") {
		t.Fatalf("inactive font emitted")
	}
	if !strings.Contains(out, "/F1 4 0 R\n") || !strings.Contains(out, "/Contents 6 0 R") {
		t.Fatalf("ids did not shift down:\n%s", out)
	}
}

func TestComposeIsRepeatable(t *testing.T) {
	f := newFixture()
	first := f.compose(t)
	second := f.compose(t)
	if first != second {
		t.Fatalf("second compose differs")
	}
}

func TestComposeAnnotationsAndPages(t *testing.T) {
	f := newFixture()
	annot := f.g.CreateDetached(graph.KindAnnotation, []graph.Value{
		graph.Text("28.34646 790 50 802"), graph.Text("https://example.com/a(b)"),
	}, f.page, true)
	f.g.InsertBeforeTrailing(f.page, graph.KindPage, annot)
	second := f.g.Create(graph.KindPage, nil, f.area, true)
	f.g.Create(graph.KindStream, []graph.Value{graph.Text("0 0 0 rg")}, second, true)

	out := f.compose(t)
	checkStructure(t, out)
	for _, want := range []string{
		"/Kids [5 0 R 8 0 R]\n/Count 2\n",
		"/Annots [7 0 R]\n/Contents 6 0 R\n",
		"/Rect [28.34646 790 50 802]\n",
		"/URI (https://example.com/a\\(b\\))\n",
		"/Border [0 0 0]\n/H /N\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q\n%s", want, out)
		}
	}
}

func TestComposeImageWithSoftMask(t *testing.T) {
	f := newFixture()
	raster := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	raster.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0x80})
	raster.SetNRGBA(1, 0, color.NRGBA{G: 0x10, B: 0x01, A: 0xff})

	mask := f.g.CreateDetached(graph.KindImageStream, []graph.Value{graph.Text(graph.SoftMaskRole)}, f.area, true)
	host := f.g.CreateDetached(graph.KindImageStream, []graph.Value{graph.Ref(mask)}, f.area, true)
	f.g.InsertAfterLeading(f.area, graph.KindFont, host, mask)
	f.g.Node(host).Raster = raster
	f.g.Node(mask).Raster = raster
	f.g.Node(f.stream).Append(graph.Text("q"), graph.Ref(host), graph.Text("Q"))

	out := f.compose(t)
	checkStructure(t, out)
	for _, want := range []string{
		"/XObject <<\n/I1 5 0 R\n>>",
		"/ColorSpace /DeviceRGB\n/BitsPerComponent 8\n/SMask 6 0 R\n/Filter /ASCIIHexDecode\n/Length 15\n>>\nstream\nff0000 001001 >\nendstream",
		"/ColorSpace /DeviceGray\n/BitsPerComponent 8\n/Filter /ASCIIHexDecode\n/Length 7\n>>\nstream\n80 ff >\nendstream",
		"/Width 2\n/Height 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q\n%s", want, out)
		}
	}

	f.g.Node(mask).Active = false
	out = f.compose(t)
	checkStructure(t, out)
	if strings.Contains(out, "/SMask") || strings.Contains(out, "/DeviceGray") {
		t.Fatalf("inactive mask referenced")
	}

	f.g.Node(host).Active = false
	out = f.compose(t)
	checkStructure(t, out)
	content := "/F1 12 Tf\nBT\n28.34646 805.53543 Td\n(Hi) Tj\nET\nq\nQ\n"
	if !strings.Contains(out, "/Length "+strconv.Itoa(len(content))+"\n") {
		t.Fatalf("inactive image still drawn")
	}
}

func TestComposeRejectsNonHeadRoot(t *testing.T) {
	f := newFixture()
	if _, err := New(Config{}).Compose(context.Background(), f.g, f.meta); err == nil {
		t.Fatalf("expected error for non-head root")
	}
}

func TestComposeMissingPixelData(t *testing.T) {
	f := newFixture()
	img := f.g.CreateDetached(graph.KindImageStream, nil, f.area, true)
	f.g.InsertAfterLeading(f.area, graph.KindFont, img)
	if _, err := New(Config{}).Compose(context.Background(), f.g, f.head); err == nil {
		t.Fatalf("expected error for image without raster")
	}
}

func TestComposeCanceled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Config{}).Compose(ctx, f.g, f.head); err == nil {
		t.Fatalf("expected context error")
	}
}

type countingInterceptor struct {
	before, after int
	bytes         int64
}

func (c *countingInterceptor) BeforeWrite(context.Context, *graph.Node) error {
	c.before++
	return nil
}

func (c *countingInterceptor) AfterWrite(_ context.Context, _ *graph.Node, n int64) error {
	c.after++
	c.bytes += n
	return nil
}

func TestWriteRunsInterceptors(t *testing.T) {
	f := newFixture()
	ic := &countingInterceptor{}
	w := (&WriterBuilder{}).WithInterceptor(ic).Build()
	var buf bytes.Buffer
	n, err := w.Write(context.Background(), f.g, f.head, &buf)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("reported %d bytes, wrote %d", n, buf.Len())
	}
	// head plus six body objects
	if ic.before != 7 || ic.after != 7 {
		t.Fatalf("interceptor calls = %d/%d", ic.before, ic.after)
	}
	if xref := int64(strings.Index(buf.String(), "xref\n")); ic.bytes != xref {
		t.Fatalf("intercepted %d bytes, body ends at %d", ic.bytes, xref)
	}
}

func TestComposeChecksContent(t *testing.T) {
	f := newFixture()
	if _, err := New(Config{CheckContent: true}).Compose(context.Background(), f.g, f.head); err != nil {
		t.Fatalf("well-formed content rejected: %v", err)
	}

	f.g.Node(f.stream).Append(graph.Text("1 0 0"))
	if _, err := New(Config{}).Compose(context.Background(), f.g, f.head); err != nil {
		t.Fatalf("unchecked compose: %v", err)
	}
	_, err := New(Config{CheckContent: true}).Compose(context.Background(), f.g, f.head)
	if err == nil || !strings.Contains(err.Error(), "dangling operands: 1 0 0") {
		t.Fatalf("err = %v", err)
	}
}

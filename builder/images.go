package builder

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/wudi/simplepdf/contentstream"
	"github.com/wudi/simplepdf/coords"
	"github.com/wudi/simplepdf/ir/graph"
	"github.com/wudi/simplepdf/observability"
	"github.com/wudi/simplepdf/surface"
)

type pendingImage struct {
	host, mask graph.NodeID
	task       *surface.Task
	onReady    func(error)
}

// ImageOption configures a single AddImage call.
type ImageOption func(*pendingImage)

// OnReady registers fn to run once the image has been embedded, or with
// the acquisition error if it failed. Sources that are not deferred call fn
// before AddImage returns; deferred sources call it inside Await or Compose
// on the caller's goroutine.
func OnReady(fn func(error)) ImageOption {
	return func(p *pendingImage) { p.onReady = fn }
}

// AddImage draws src into a width by height box whose top-left corner is
// at (x, y). Sources that are not deferred are rendered before AddImage
// returns; deferred sources are fetched in the background and joined by
// Await or Compose. The fetch runs under ctx: cancelling ctx after
// AddImage returns drops the image, and the next Await or Compose reports
// the cancellation.
func (d *Document) AddImage(ctx context.Context, src surface.Source, x, y, width, height float64, opts ...ImageOption) error {
	if _, err := d.page("add image"); err != nil {
		return err
	}
	if !(width > 0) || !(height > 0) {
		return &ValidationError{Op: "add image", Value: fmt.Sprintf("%vx%v", width, height), Err: ErrInvalidDimension}
	}
	p := &pendingImage{}
	for _, opt := range opts {
		opt(p)
	}
	w, h := coords.ToPoints(width), coords.ToPoints(height)
	pw, ph := pixels(w), pixels(h)

	if !src.Deferred() {
		img, err := surface.Start(ctx, d.opts.surface, src, pw, ph).Wait(ctx)
		if err != nil {
			if p.onReady != nil {
				p.onReady(err)
			}
			return fmt.Errorf("add image: %w", err)
		}
		d.placeImage(p, x, y, w, h)
		d.embed(p, img)
		return nil
	}
	d.placeImage(p, x, y, w, h)
	p.task = surface.Start(ctx, d.opts.surface, src, pw, ph)
	d.pending = append(d.pending, p)
	d.opts.logger.Debug("image pending", observability.Int("pending", len(d.pending)))
	return nil
}

// AddImageFile is AddImage with an image file decoded from disk.
func (d *Document) AddImageFile(ctx context.Context, path string, x, y, width, height float64, opts ...ImageOption) error {
	return d.AddImage(ctx, surface.FromFile(path), x, y, width, height, opts...)
}

// AddImageURL is AddImage with an image fetched over HTTP in the background.
// The request is bound to ctx, so ctx must outlive the Compose that embeds
// the image.
func (d *Document) AddImageURL(ctx context.Context, url string, x, y, width, height float64, opts ...ImageOption) error {
	return d.AddImage(ctx, surface.FromURL(url, d.opts.client), x, y, width, height, opts...)
}

// Pending returns the number of images that have not been joined yet.
func (d *Document) Pending() int { return len(d.pending) }

// Await joins every pending image in the order they were added. An image
// whose acquisition failed is dropped from the document and its error is
// returned; a later call does not report it again. When ctx ends first the
// remaining images stay pending and the error matches ErrImagePending.
func (d *Document) Await(ctx context.Context) error {
	var errs []error
	for len(d.pending) > 0 {
		p := d.pending[0]
		img, err := p.task.Wait(ctx)
		if err != nil {
			if !p.task.Ready() {
				return errors.Join(append(errs, fmt.Errorf("%w: %w", &SequenceError{Op: "await", Err: ErrImagePending}, err))...)
			}
			img, err = p.task.Wait(context.Background())
		}
		d.pending = d.pending[1:]
		if err != nil {
			d.fail(p, err)
			errs = append(errs, fmt.Errorf("image %d: %w", p.host, err))
			continue
		}
		d.embed(p, img)
	}
	return errors.Join(errs...)
}

// placeImage links a visible image and its inactive soft mask right after
// the font block and draws the image on the current page.
func (d *Document) placeImage(p *pendingImage, x, y, w, h float64) {
	p.mask = d.g.CreateDetached(graph.KindImageStream, []graph.Value{graph.Text(graph.SoftMaskRole)}, d.area, false)
	p.host = d.g.CreateDetached(graph.KindImageStream, []graph.Value{graph.Ref(p.mask)}, d.area, true)
	d.g.InsertAfterLeading(d.area, graph.KindFont, p.host, p.mask)

	s, _ := d.stream("add image")
	n := d.g.Node(s)
	n.Append(graph.Text("q"))
	for _, line := range contentstream.Placement(coords.ToPoints(x), coords.Page{Height: d.size.Height}.Top(y, h), w, h) {
		n.Append(graph.Text(line))
	}
	n.Append(graph.Ref(p.host), graph.Text("Q"))
}

func (d *Document) embed(p *pendingImage, img *image.NRGBA) {
	host, mask := d.g.Node(p.host), d.g.Node(p.mask)
	host.Raster = img
	mask.Raster = img
	mask.Active = surface.Translucent(img)
	d.opts.logger.Debug("image embedded",
		observability.Int("width", img.Bounds().Dx()),
		observability.Int("height", img.Bounds().Dy()),
		observability.String("soft_mask", fmt.Sprint(mask.Active)),
	)
	if p.onReady != nil {
		p.onReady(nil)
	}
}

func (d *Document) fail(p *pendingImage, err error) {
	d.g.Node(p.host).Active = false
	d.g.Node(p.mask).Active = false
	d.opts.logger.Warn("image dropped", observability.Error("error", err))
	if p.onReady != nil {
		p.onReady(err)
	}
}

// pixels converts a length in points to a raster size of at least one pixel.
func pixels(v float64) int {
	if n := int(v); n > 0 {
		return n
	}
	return 1
}

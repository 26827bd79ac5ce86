// Package surface rasterizes image sources into pixel buffers at a target
// size. Sources that need a network fetch are acquired asynchronously and
// handed back as a Task the caller joins.
package surface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source produces the image to rasterize.
type Source interface {
	Acquire(ctx context.Context) (image.Image, error)
	// Deferred reports whether acquisition blocks on I/O that should not run
	// on the caller's goroutine.
	Deferred() bool
}

// Surface renders a source into a non-premultiplied RGBA buffer of the given
// pixel size.
type Surface interface {
	Render(ctx context.Context, src Source, width, height int) (*image.NRGBA, error)
}

// Translucent reports whether any pixel of img is not fully opaque.
func Translucent(img *image.NRGBA) bool {
	if img == nil {
		return false
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] < 0xff {
				return true
			}
		}
	}
	return false
}

// Renderer scales sources with an x/image/draw interpolator onto a
// transparent canvas.
type Renderer struct {
	Interpolator draw.Interpolator
}

// NewRenderer returns a Renderer using Catmull-Rom resampling.
func NewRenderer() *Renderer { return &Renderer{Interpolator: draw.CatmullRom} }

func (r *Renderer) Render(ctx context.Context, src Source, width, height int) (*image.NRGBA, error) {
	if err := validateBounds(width, height); err != nil {
		return nil, fmt.Errorf("target size: %w", err)
	}
	img, err := src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New("source produced no image")
	}
	interp := r.Interpolator
	if interp == nil {
		interp = draw.CatmullRom
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	interp.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

type imageSource struct{ img image.Image }

// FromImage wraps an in-memory image.
func FromImage(img image.Image) Source { return imageSource{img: img} }

func (s imageSource) Acquire(context.Context) (image.Image, error) { return s.img, nil }
func (imageSource) Deferred() bool                                 { return false }

type fileSource struct{ path string }

// FromFile decodes an image file (PNG, JPEG, GIF, BMP, TIFF or WebP).
func FromFile(path string) Source { return fileSource{path: path} }

func (s fileSource) Acquire(ctx context.Context) (image.Image, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f, s.path)
}
func (fileSource) Deferred() bool { return false }

type urlSource struct {
	url    string
	client *http.Client
}

// FromURL fetches and decodes an image over HTTP. A nil client uses
// http.DefaultClient.
func FromURL(url string, client *http.Client) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return urlSource{url: url, client: client}
}

func (s urlSource) Acquire(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", s.url, resp.Status)
	}
	return decode(resp.Body, s.url)
}
func (urlSource) Deferred() bool { return true }

// decode reads at most MaxEncodedBytes and checks the declared size before
// allocating pixels.
func decode(r io.Reader, name string) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxEncodedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > MaxEncodedBytes {
		return nil, fmt.Errorf("read %s: %w: more than %d bytes", name, ErrImageTooLarge, MaxEncodedBytes)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if err := validateBounds(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

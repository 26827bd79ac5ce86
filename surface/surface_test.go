package surface

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestTranslucent(t *testing.T) {
	opaque := solid(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	if Translucent(opaque) {
		t.Fatalf("opaque image reported translucent")
	}
	opaque.SetNRGBA(3, 3, color.NRGBA{A: 254})
	if !Translucent(opaque) {
		t.Fatalf("translucent pixel not detected")
	}
	if Translucent(nil) {
		t.Fatalf("nil image reported translucent")
	}
}

func TestRendererScales(t *testing.T) {
	src := FromImage(solid(2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))
	img, err := NewRenderer().Render(context.Background(), src, 8, 4)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("bounds = %v", b)
	}
	if got := img.NRGBAAt(4, 2); got != (color.NRGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Fatalf("center pixel = %v", got)
	}
	if Translucent(img) {
		t.Fatalf("opaque source rendered translucent")
	}
	if _, err := NewRenderer().Render(context.Background(), src, 0, 4); err == nil {
		t.Fatalf("expected error for empty target")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, solid(3, 3, color.NRGBA{G: 255, A: 128})); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	task := Start(context.Background(), NewRenderer(), FromFile(path), 3, 3)
	if !task.Ready() {
		t.Fatalf("file source should render synchronously")
	}
	img, err := task.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !Translucent(img) {
		t.Fatalf("half transparent file not translucent")
	}

	missing := Start(context.Background(), NewRenderer(), FromFile(filepath.Join(t.TempDir(), "none.png")), 3, 3)
	if _, err := missing.Wait(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFromURLIsDeferred(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, solid(2, 2, color.NRGBA{B: 255, A: 255}))
	}))
	defer srv.Close()

	task := Start(context.Background(), NewRenderer(), FromURL(srv.URL, srv.Client()), 4, 4)
	if task.Ready() {
		t.Fatalf("url task finished before the server answered")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}

	close(release)
	img, err := task.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	<-task.Done()
}

func TestFromURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	task := Start(context.Background(), NewRenderer(), FromURL(srv.URL, nil), 4, 4)
	if _, err := task.Wait(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestSizeLimits(t *testing.T) {
	cases := []struct {
		w, h    int
		tooBig  bool
		invalid bool
	}{
		{1, 1, false, false},
		{MaxImageDimension, 1, false, false},
		{MaxImageDimension + 1, 1, true, false},
		{8192, 8192, false, false},
		{8192, 8193, true, false},
		{16384, 16384, true, false},
		{0, 5, false, true},
		{5, -1, false, true},
	}
	for _, tc := range cases {
		err := validateBounds(tc.w, tc.h)
		if tc.tooBig != errors.Is(err, ErrImageTooLarge) {
			t.Fatalf("%dx%d: err = %v", tc.w, tc.h, err)
		}
		if tc.invalid != (err != nil && !tc.tooBig) {
			t.Fatalf("%dx%d: err = %v", tc.w, tc.h, err)
		}
	}

	src := FromImage(solid(1, 1, color.NRGBA{A: 255}))
	if _, err := NewRenderer().Render(context.Background(), src, MaxImageDimension+1, 1); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("oversized render err = %v", err)
	}
}

package surface

import (
	"errors"
	"fmt"
)

const (
	// MaxImageDimension caps the width and height of decoded and rendered
	// images.
	MaxImageDimension = 32768
	// MaxImagePixels bounds the pixel count (roughly 64MP), which keeps an
	// NRGBA buffer under 256 MB.
	MaxImagePixels int64 = 64 * 1024 * 1024
	// MaxEncodedBytes bounds how much of a file or response is read.
	MaxEncodedBytes int64 = 128 << 20
)

// ErrImageTooLarge reports an image outside the size limits.
var ErrImageTooLarge = errors.New("image exceeds size limits")

func validateBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image bounds invalid (%d x %d)", width, height)
	}
	if width > MaxImageDimension || height > MaxImageDimension {
		return fmt.Errorf("%w: dimension %d x %d", ErrImageTooLarge, width, height)
	}
	if pixels := int64(width) * int64(height); pixels > MaxImagePixels {
		return fmt.Errorf("%w: %d pixels", ErrImageTooLarge, pixels)
	}
	return nil
}

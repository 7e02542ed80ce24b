package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
)

// Format selects an output encoder.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, WebP:
		return Format(s), nil
	case "":
		return PNG, nil
	}
	return "", fmt.Errorf("imageio: unknown format %q (want png or webp)", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	case PNG, "":
		return png.Encode(w, img)
	}
	return fmt.Errorf("imageio: unknown format %q", f)
}

// Save writes img to path. The parent directory must already exist. On an
// encode failure the partial file is removed.
func Save(path string, img image.Image, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("imageio: %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("imageio: close %s: %w", path, err)
	}
	return nil
}

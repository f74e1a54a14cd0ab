// Package imgout writes rendered frames to image files.
package imgout

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Extensions lists the file extensions understood by Save.
var Extensions = []string{".png", ".bmp", ".tif", ".tiff"}

// Encode writes img to w in the format named by ext.
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format %q (want one of %v)", ext, Extensions)
}

// Save writes img to filename, choosing the encoder from its extension.
func Save(filename string, img image.Image) error {
	ext := filepath.Ext(filename)
	if !supported(ext) {
		return fmt.Errorf("%v: unsupported image format %q (want one of %v)", filename, ext, Extensions)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Encode(f, ext, img); err != nil {
		f.Close()
		return fmt.Errorf("%v: %w", filename, err)
	}
	return f.Close()
}

func supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

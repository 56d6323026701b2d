package staticpress

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 80

// ProcessedImage is the result of running one image through the pipeline.
type ProcessedImage struct {
	Data    []byte
	Width   int
	Height  int
	Resized bool
}

// isImage reports whether name has an extension the pipeline understands.
func isImage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// processImage downscales JPEG and PNG images wider than maxWidth, keeping
// the aspect ratio and the original format. Other formats, and images that
// already fit, are returned unchanged with their dimensions.
func processImage(name string, data []byte, maxWidth int) (ProcessedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("decode %s: %w", name, err)
	}
	out := ProcessedImage{Data: data, Width: cfg.Width, Height: cfg.Height}
	if cfg.Width <= maxWidth || (format != "jpeg" && format != "png") {
		return out, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("decode %s: %w", name, err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return ProcessedImage{Data: buf.Bytes(), Width: maxWidth, Height: newH, Resized: true}, nil
}

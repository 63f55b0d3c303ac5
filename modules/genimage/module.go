// Package genimage provides the builtin generate operations: they produce
// image.Image values from parameters alone.
package genimage

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/vk/pixelflow/internal/ctxlog"
	"github.com/vk/pixelflow/internal/dispatch"
	"github.com/vk/pixelflow/internal/step"
)

// Module implements the dispatch.Module interface for this package.
type Module struct{}

// Register registers the generate handlers with the engine.
func (m *Module) Register(r *dispatch.Registry) {
	r.Register(step.KindGenerate, "solid", onSolid)
	r.Register(step.KindGenerate, "gradient", onGradient)
	r.Register(step.KindGenerate, "checker", onChecker)
}

// onSolid fills a canvas with a single color.
// Params: width, height (default 256), color (hex, default "#000000").
func onSolid(ctx context.Context, call *dispatch.Call) (any, error) {
	w, h, err := canvasSize(call)
	if err != nil {
		return nil, err
	}
	fill, err := parseHexColor(call.StringParam("color", "#000000"))
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Generating solid image.", "width", w, "height", h)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	return img, nil
}

// onGradient renders a horizontal blend between two colors.
// Params: width, height, from (default "#000000"), to (default "#ffffff").
func onGradient(ctx context.Context, call *dispatch.Call) (any, error) {
	w, h, err := canvasSize(call)
	if err != nil {
		return nil, err
	}
	from, err := parseHexColor(call.StringParam("from", "#000000"))
	if err != nil {
		return nil, err
	}
	to, err := parseHexColor(call.StringParam("to", "#ffffff"))
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		t := 0.0
		if w > 1 {
			t = float64(x) / float64(w-1)
		}
		c := lerpColor(from, to, t)
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

// onChecker renders a checkerboard.
// Params: width, height, cell (default 16), a, b (hex colors).
func onChecker(ctx context.Context, call *dispatch.Call) (any, error) {
	w, h, err := canvasSize(call)
	if err != nil {
		return nil, err
	}
	cell := call.IntParam("cell", 16)
	if cell <= 0 {
		return nil, fmt.Errorf("checker cell size must be positive, got %d", cell)
	}
	a, err := parseHexColor(call.StringParam("a", "#ffffff"))
	if err != nil {
		return nil, err
	}
	b, err := parseHexColor(call.StringParam("b", "#000000"))
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img, nil
}

// canvasSize extracts the width/height parameters shared by all generators.
func canvasSize(call *dispatch.Call) (int, int, error) {
	w := call.IntParam("width", 256)
	h := call.IntParam("height", 256)
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("canvas size must be positive, got %dx%d", w, h)
	}
	return w, h, nil
}

// parseHexColor decodes "#rgb" or "#rrggbb" into an opaque RGBA color.
func parseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		return c, fmt.Errorf("invalid hex color %q", s)
	}
	if err != nil {
		return c, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}

// lerpColor blends two colors channel-wise at position t in [0,1].
func lerpColor(from, to color.RGBA, t float64) color.RGBA {
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return color.RGBA{
		R: lerp(from.R, to.R),
		G: lerp(from.G, to.G),
		B: lerp(from.B, to.B),
		A: 0xff,
	}
}

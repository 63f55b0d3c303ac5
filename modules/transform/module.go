// Package transform provides the builtin transform operations: pixel
// manipulations that consume one image and produce a new one. The overlay
// operation additionally reads a second upstream image referenced by name
// in its "layer" parameter.
package transform

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/vk/pixelflow/internal/dispatch"
	"github.com/vk/pixelflow/internal/step"
)

// Module implements the dispatch.Module interface for this package.
type Module struct{}

// Register registers the transform handlers with the engine.
func (m *Module) Register(r *dispatch.Registry) {
	r.Register(step.KindTransform, "grayscale", onGrayscale)
	r.Register(step.KindTransform, "invert", onInvert)
	r.Register(step.KindTransform, "scale", onScale)
	r.Register(step.KindTransform, "overlay", onOverlay)
	r.Register(step.KindTransform, "rotate90", onRotate90)
}

// primaryImage pulls the step's primary input and asserts it is an image.
func primaryImage(call *dispatch.Call) (image.Image, error) {
	value, ok := call.PrimaryInput()
	if !ok {
		return nil, fmt.Errorf("transform %q has no primary input", call.Op)
	}
	img, ok := value.(image.Image)
	if !ok {
		return nil, fmt.Errorf("variable %q is not an image (got %T)", call.Primary, value)
	}
	return img, nil
}

// onGrayscale converts the input to luminance-weighted gray.
func onGrayscale(ctx context.Context, call *dispatch.Call) (any, error) {
	src, err := primaryImage(call)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			dst.SetRGBA(x, y, color.RGBA{R: g.Y, G: g.Y, B: g.Y, A: 0xff})
		}
	}
	return dst, nil
}

// onInvert flips every color channel.
func onInvert(ctx context.Context, call *dispatch.Call) (any, error) {
	src, err := primaryImage(call)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8(0xff - r>>8),
				G: uint8(0xff - g>>8),
				B: uint8(0xff - b>>8),
				A: uint8(a >> 8),
			})
		}
	}
	return dst, nil
}

// onScale resizes with nearest-neighbor sampling.
// Params: width and height, or factor (uniform scale).
func onScale(ctx context.Context, call *dispatch.Call) (any, error) {
	src, err := primaryImage(call)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()

	w := call.IntParam("width", 0)
	h := call.IntParam("height", 0)
	if factor := call.FloatParam("factor", 0); factor > 0 && w == 0 && h == 0 {
		w = int(float64(bounds.Dx()) * factor)
		h = int(float64(bounds.Dy()) * factor)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("scale requires a positive width/height or factor, got %dx%d", w, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := bounds.Min.Y + y*bounds.Dy()/h
		for x := 0; x < w; x++ {
			sx := bounds.Min.X + x*bounds.Dx()/w
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst, nil
}

// onOverlay composites a second image over the primary one.
// Params: layer (the variable name of the overlay image), x, y offsets.
func onOverlay(ctx context.Context, call *dispatch.Call) (any, error) {
	base, err := primaryImage(call)
	if err != nil {
		return nil, err
	}
	layerName := call.StringParam("layer", "")
	if layerName == "" {
		return nil, fmt.Errorf("overlay requires a %q parameter naming the layer variable", "layer")
	}
	layerValue, ok := call.Inputs[layerName]
	if !ok {
		return nil, fmt.Errorf("overlay layer %q was not resolved as an input", layerName)
	}
	layer, ok := layerValue.(image.Image)
	if !ok {
		return nil, fmt.Errorf("overlay layer %q is not an image (got %T)", layerName, layerValue)
	}

	offset := image.Pt(call.IntParam("x", 0), call.IntParam("y", 0))
	dst := image.NewRGBA(base.Bounds())
	draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	target := layer.Bounds().Add(offset.Sub(layer.Bounds().Min)).Add(base.Bounds().Min)
	draw.Draw(dst, target, layer, layer.Bounds().Min, draw.Over)
	return dst, nil
}

// onRotate90 rotates the input a quarter turn clockwise.
func onRotate90(ctx context.Context, call *dispatch.Call) (any, error) {
	src, err := primaryImage(call)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dy(), bounds.Dx()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(bounds.Max.Y-1-y, x-bounds.Min.X, src.At(x, y))
		}
	}
	return dst, nil
}

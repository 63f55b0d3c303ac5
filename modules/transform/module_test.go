package transform

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pixelflow/internal/dispatch"
	"github.com/vk/pixelflow/internal/step"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func transformCall(op string, in image.Image, params map[string]any) *dispatch.Call {
	return &dispatch.Call{
		Kind:    step.KindTransform,
		Op:      op,
		Params:  params,
		Primary: "src",
		Inputs:  map[string]any{"src": in},
	}
}

func registryForTest() *dispatch.Registry {
	return dispatch.NewRegistry(&Module{})
}

func TestInvert(t *testing.T) {
	r := registryForTest()
	src := solid(2, 2, color.RGBA{R: 0xff, G: 0x00, B: 0x10, A: 0xff})

	value, err := r.Dispatch(context.Background(), transformCall("invert", src, nil))
	require.NoError(t, err)

	img := value.(image.Image)
	assert.Equal(t, color.RGBA{R: 0x00, G: 0xff, B: 0xef, A: 0xff}, img.At(0, 0))
}

func TestGrayscale(t *testing.T) {
	r := registryForTest()
	src := solid(2, 2, color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff})

	value, err := r.Dispatch(context.Background(), transformCall("grayscale", src, nil))
	require.NoError(t, err)

	img := value.(image.Image)
	got := img.At(0, 0).(color.RGBA)
	assert.Equal(t, got.R, got.G)
	assert.Equal(t, got.G, got.B)
	assert.Equal(t, uint8(0xff), got.A)
}

func TestScale(t *testing.T) {
	r := registryForTest()
	src := solid(10, 10, color.RGBA{R: 0x80, A: 0xff})

	t.Run("explicit size", func(t *testing.T) {
		value, err := r.Dispatch(context.Background(), transformCall("scale", src, map[string]any{
			"width": int64(5), "height": int64(20),
		}))
		require.NoError(t, err)
		img := value.(image.Image)
		assert.Equal(t, image.Rect(0, 0, 5, 20), img.Bounds())
		assert.Equal(t, color.RGBA{R: 0x80, A: 0xff}, img.At(2, 10))
	})

	t.Run("uniform factor", func(t *testing.T) {
		value, err := r.Dispatch(context.Background(), transformCall("scale", src, map[string]any{
			"factor": 0.5,
		}))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 5, 5), value.(image.Image).Bounds())
	})

	t.Run("missing size", func(t *testing.T) {
		_, err := r.Dispatch(context.Background(), transformCall("scale", src, nil))
		assert.ErrorContains(t, err, "positive width/height or factor")
	})
}

func TestOverlay(t *testing.T) {
	r := registryForTest()
	base := solid(8, 8, color.RGBA{R: 0xff, A: 0xff})
	layer := solid(2, 2, color.RGBA{B: 0xff, A: 0xff})

	call := transformCall("overlay", base, map[string]any{
		"layer": "badge", "x": int64(4), "y": int64(4),
	})
	call.Inputs["badge"] = layer

	value, err := r.Dispatch(context.Background(), call)
	require.NoError(t, err)

	img := value.(image.Image)
	// Outside the overlaid region the base shows through.
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.At(0, 0))
	// Inside it the layer wins.
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, img.At(4, 4))
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, img.At(5, 5))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.At(6, 6))
}

func TestOverlayErrors(t *testing.T) {
	r := registryForTest()
	base := solid(4, 4, color.RGBA{A: 0xff})

	t.Run("missing layer parameter", func(t *testing.T) {
		_, err := r.Dispatch(context.Background(), transformCall("overlay", base, nil))
		assert.ErrorContains(t, err, "naming the layer variable")
	})

	t.Run("unresolved layer", func(t *testing.T) {
		_, err := r.Dispatch(context.Background(), transformCall("overlay", base, map[string]any{
			"layer": "ghost",
		}))
		assert.ErrorContains(t, err, `layer "ghost" was not resolved`)
	})

	t.Run("layer is not an image", func(t *testing.T) {
		call := transformCall("overlay", base, map[string]any{"layer": "badge"})
		call.Inputs["badge"] = "not an image"
		_, err := r.Dispatch(context.Background(), call)
		assert.ErrorContains(t, err, "is not an image")
	})
}

func TestRotate90(t *testing.T) {
	r := registryForTest()
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	marker := color.RGBA{G: 0xff, A: 0xff}
	src.SetRGBA(0, 0, marker)

	value, err := r.Dispatch(context.Background(), transformCall("rotate90", src, nil))
	require.NoError(t, err)

	img := value.(image.Image)
	assert.Equal(t, image.Rect(0, 0, 2, 3), img.Bounds())
	// Top-left travels to the top-right corner on a clockwise quarter turn.
	assert.Equal(t, marker, img.At(1, 0))
}

func TestPrimaryInputMustBeImage(t *testing.T) {
	r := registryForTest()
	call := &dispatch.Call{
		Kind:    step.KindTransform,
		Op:      "invert",
		Primary: "src",
		Inputs:  map[string]any{"src": 42},
	}
	_, err := r.Dispatch(context.Background(), call)
	assert.ErrorContains(t, err, `variable "src" is not an image`)
}

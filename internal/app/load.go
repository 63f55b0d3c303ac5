package app

import (
	"context"
	"fmt"
	"image"
	"os"

	// Register decoders for the formats external inputs may arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/vk/pixelflow/internal/ctxlog"
)

// loadInputs reads every declared external input image from disk and
// returns the pre-satisfied variable set for the run.
func loadInputs(ctx context.Context, sources map[string]string) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	values := make(map[string]any, len(sources))
	for name, source := range sources {
		img, err := loadImage(source)
		if err != nil {
			return nil, fmt.Errorf("failed to load input %q: %w", name, err)
		}
		logger.Debug("Loaded external input.", "name", name, "source", source,
			"bounds", img.Bounds().String())
		values[name] = img
	}
	return values, nil
}

// loadImage decodes a single image file.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

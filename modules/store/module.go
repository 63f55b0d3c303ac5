// Package store provides the builtin save operations: terminal sinks that
// persist a produced image. Every handler passes the consumed value through
// as its result, so a save step that declares an output re-publishes the
// saved image under the new name.
package store

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vk/pixelflow/internal/ctxlog"
	"github.com/vk/pixelflow/internal/dispatch"
	"github.com/vk/pixelflow/internal/step"
)

// Module implements the dispatch.Module interface for this package.
type Module struct{}

// Register registers the save handlers with the engine.
func (m *Module) Register(r *dispatch.Registry) {
	r.Register(step.KindSave, "png", onSavePNG)
	r.Register(step.KindSave, "http", onSaveHTTP)
	r.Register(step.KindSave, "discard", onDiscard)
}

// savedImage pulls the step's primary input and asserts it is an image.
func savedImage(call *dispatch.Call) (image.Image, error) {
	value, ok := call.PrimaryInput()
	if !ok {
		return nil, fmt.Errorf("save %q has no primary input", call.Op)
	}
	img, ok := value.(image.Image)
	if !ok {
		return nil, fmt.Errorf("variable %q is not an image (got %T)", call.Primary, value)
	}
	return img, nil
}

// onSavePNG encodes the input as PNG at the configured path.
// Params: path (required).
func onSavePNG(ctx context.Context, call *dispatch.Call) (any, error) {
	img, err := savedImage(call)
	if err != nil {
		return nil, err
	}
	path := call.StringParam("path", "")
	if path == "" {
		return nil, fmt.Errorf("png save requires a %q parameter", "path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("Saved PNG.", "path", path)
	return img, nil
}

// onSaveHTTP uploads the PNG-encoded input to a remote endpoint.
// Params: url (required), method (default POST).
func onSaveHTTP(ctx context.Context, call *dispatch.Call) (any, error) {
	img, err := savedImage(call)
	if err != nil {
		return nil, err
	}
	url := call.StringParam("url", "")
	if url == "" {
		return nil, fmt.Errorf("http save requires a %q parameter", "url")
	}
	method := call.StringParam("method", http.MethodPost)

	var body bytes.Buffer
	if err := png.Encode(&body, img); err != nil {
		return nil, fmt.Errorf("failed to encode upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to %s: %w", url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload to %s rejected: %s", url, resp.Status)
	}
	ctxlog.FromContext(ctx).Info("Uploaded PNG.", "url", url, "status", resp.Status)
	return img, nil
}

// onDiscard validates the input and drops it. Useful as a terminal sink in
// tests and dry pipelines.
func onDiscard(ctx context.Context, call *dispatch.Call) (any, error) {
	img, err := savedImage(call)
	if err != nil {
		return nil, err
	}
	return img, nil
}

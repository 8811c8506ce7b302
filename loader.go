package tileview

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// AssetLoader fetches shader sources and images.
type AssetLoader interface {
	LoadText(ctx context.Context, url string) (string, error)
	LoadImage(ctx context.Context, url string) (image.Image, error)
}

// DefaultLoader reads http(s) URLs with an HTTP client and anything else as a
// local file path. Images may be PNG, JPEG, GIF, WebP, BMP or TIFF.
type DefaultLoader struct {
	// Client is used for http(s) URLs. Nil uses http.DefaultClient.
	Client *http.Client
}

// LoadText implements AssetLoader.
func (l DefaultLoader) LoadText(ctx context.Context, url string) (string, error) {
	rc, err := l.open(ctx, url)
	if err != nil {
		return "", &AssetLoadError{URL: url, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", &AssetLoadError{URL: url, Err: err}
	}
	return string(data), nil
}

// LoadImage implements AssetLoader.
func (l DefaultLoader) LoadImage(ctx context.Context, url string) (image.Image, error) {
	rc, err := l.open(ctx, url)
	if err != nil {
		return nil, &AssetLoadError{URL: url, Err: err}
	}
	defer rc.Close()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, &AssetLoadError{URL: url, Err: fmt.Errorf("decode: %w", err)}
	}
	Logger().Debug("tileview: decoded image", "url", url, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

func (l DefaultLoader) open(ctx context.Context, url string) (io.ReadCloser, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return os.Open(strings.TrimPrefix(url, "file://"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

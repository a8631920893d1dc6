// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"time"
)

// maxImageBytes caps the size of a downloaded complaint photo.
const maxImageBytes = 10 << 20

// ImageFetcher downloads an image referenced by a document.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPImageFetcher fetches images over HTTP with a single GET.
type HTTPImageFetcher struct {
	Client *http.Client
}

// Fetch downloads url. Non-2xx responses are errors.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("image server returned %d for %s", resp.StatusCode, url)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", url, err)
	}
	return data, nil
}

// imageType returns the fpdf image type for data, validating that the image
// header decodes.
func imageType(data []byte) (string, image.Config, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", cfg, fmt.Errorf("decoding image: %w", err)
	}
	switch format {
	case "jpeg":
		return "JPG", cfg, nil
	case "png":
		return "PNG", cfg, nil
	case "gif":
		return "GIF", cfg, nil
	default:
		return "", cfg, fmt.Errorf("unsupported image format %q", format)
	}
}

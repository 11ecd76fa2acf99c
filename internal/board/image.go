package board

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// EncodeDataURI turns raw file contents into a base64 data URI. Only image
// content is accepted.
func EncodeDataURI(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURI splits a data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrBadDataURI
	}

	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if mime == "" {
		mime = "text/plain"
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrBadDataURI, err)
		}
		return mime, data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBadDataURI, err)
	}
	return mime, []byte(text), nil
}

// DecodeImage decodes the image held in a data URI.
func DecodeImage(uri string) (image.Image, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode map image: %w", err)
	}
	return img, nil
}

// ImageSize returns the natural pixel size of the image in a data URI.
func ImageSize(uri string) (int, int, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode map image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

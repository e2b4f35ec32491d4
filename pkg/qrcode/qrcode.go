package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is used when the requested size is not positive.
const DefaultSize = 256

var (
	ErrEmptyContent     = errors.New("qrcode: content is empty")
	ErrFailedToGenerate = errors.New("qrcode: failed to generate")
)

// Generate renders content as a square PNG of size pixels with medium error correction.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToGenerate, err)
	}
	return png, nil
}

// GenerateBase64Image renders content as a data:image/png;base64 URI.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

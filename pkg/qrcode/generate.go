package qrcode

import (
	"fmt"

	qrgen "github.com/skip2/go-qrcode"
)

// DefaultSize is the pixel width used by Generate when size is not positive.
const DefaultSize = 256

// Generate renders content as a square PNG of about size pixels at level M
// with the library's own quiet zone. Use Encoder for control over module size
// and border.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	if limit := Capacity(LevelM); len(content) > limit {
		return nil, &CapacityError{Length: len(content), Limit: limit, Level: LevelM}
	}

	png, err := qrgen.Encode(content, LevelM.recovery(), size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: generate: %w", err)
	}
	return png, nil
}

// GenerateBase64Image renders content with opts and returns it as a data URI.
func GenerateBase64Image(content string, opts Options) (string, error) {
	png, err := NewEncoder().Encode(content, opts)
	if err != nil {
		return "", err
	}
	return DataURI(png), nil
}

package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize edge length in pixels of generated images.
const DefaultSize = 256

// PNG encodes content as a QR code PNG.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qrcode: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

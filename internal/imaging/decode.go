package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	// Register decoders for the formats cameras produce.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
)

// MaxImageSize bounds the size of an encoded camera image.
const MaxImageSize = 16 << 20

// ErrImageTooLarge is returned for images above MaxImageSize.
var ErrImageTooLarge = errors.New("image is too large")

// Decode parses an encoded PNG, JPEG or GIF image.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrNoImage
	}

	if len(data) > MaxImageSize {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	return img, format, nil
}

// ReadFile reads an encoded image from disk without decoding it.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}

	if info.Size() > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, info.Size())
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return data, nil
}

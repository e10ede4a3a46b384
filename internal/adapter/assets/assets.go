package assets

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/niksmo/shop-admin/internal/core/domain"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// describe reads the image and derives its content addressed reference.
func describe(f domain.ImageFile) (domain.AssetRef, []byte, error) {
	const op = "assets.describe"

	data, err := io.ReadAll(f.Content)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidImage, ErrEmptyImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf(
			"%s: %w: %w: %s", op, domain.ErrInvalidImage, ErrUnsupportedImage, f.Name,
		)
	}

	sum := sha1.Sum(data)
	ref := domain.NewAssetRef(
		hex.EncodeToString(sum[:]), cfg.Width, cfg.Height, extension(format),
	)
	return ref, data, nil
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

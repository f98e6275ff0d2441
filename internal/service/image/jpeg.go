package image

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
)

const defaultQuality = 90

// Normalizer makes sure task results really are JPEG, the content type they are served with.
type Normalizer struct {
	quality int
}

func NewNormalizer() *Normalizer {
	return &Normalizer{quality: defaultQuality}
}

// ToJPEG returns JPEG data unchanged whatever its size.
// Other decodable formats are re-encoded at their original dimensions.
func (n *Normalizer) ToJPEG(data []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("invalid image size: %dx%d", cfg.Width, cfg.Height)
	}
	if format == "jpeg" {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return encodeJPEG(img, n.quality)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

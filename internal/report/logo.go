package report

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Maximum logo dimensions in pixels. Logos are downscaled before being
// embedded so oversized uploads don't bloat the PDF.
const (
	logoMaxWidth  = 600
	logoMaxHeight = 300
)

// PrepareLogo decodes a stored logo image, downscales it to fit the
// header band, and re-encodes it as PNG for embedding. Returns nil, nil
// for empty input.
func PrepareLogo(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > logoMaxWidth || bounds.Dy() > logoMaxHeight {
		img = imaging.Fit(img, logoMaxWidth, logoMaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}

	return buf.Bytes(), nil
}

package qrcode

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	qrgen "github.com/skip2/go-qrcode"
)

// libQuietZone is the border, in modules, that go-qrcode adds to Bitmap.
const libQuietZone = 4

var palette = color.Palette{color.White, color.Black}

// Encoder renders content as a QR code PNG. It holds no state and is safe for
// concurrent use.
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

// Encode renders content with opts. Content longer than Capacity at the
// chosen level fails with *CapacityError.
func (e *Encoder) Encode(content string, opts Options) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	opts, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	limit := Capacity(opts.ErrorCorrection)
	if len(content) > limit {
		return nil, &CapacityError{Length: len(content), Limit: limit, Level: opts.ErrorCorrection}
	}

	q, err := qrgen.New(content, opts.ErrorCorrection.recovery())
	if err != nil {
		return nil, &CapacityError{Length: len(content), Limit: limit, Level: opts.ErrorCorrection, Err: err}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, render(q.Bitmap(), opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// render paints the module matrix with the requested module size and quiet
// zone. go-qrcode only offers a fixed quiet zone, so its own is cropped.
func render(bitmap [][]bool, opts Options) *image.Paletted {
	modules := bitmap[libQuietZone : len(bitmap)-libQuietZone]
	n := len(modules)
	side := (n + 2*opts.Border) * opts.BoxSize

	img := image.NewPaletted(image.Rect(0, 0, side, side), palette)
	for y, row := range modules {
		row = row[libQuietZone : len(row)-libQuietZone]
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := (x + opts.Border) * opts.BoxSize
			y0 := (y + opts.Border) * opts.BoxSize
			for py := y0; py < y0+opts.BoxSize; py++ {
				off := img.PixOffset(x0, py)
				for px := range opts.BoxSize {
					img.Pix[off+px] = 1
				}
			}
		}
	}
	return img
}

// DataURI wraps PNG bytes as a base64 data URI for <img src>.
func DataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

package qrcode

import (
	"bytes"
	"cmp"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/makiuchi-d/gozxing"
	zxmulti "github.com/makiuchi-d/gozxing/multi/qrcode"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/dmitrymomot/upiqr/core/logger"
)

// DefaultMaxPixels bounds the decoded image area (width*height).
const DefaultMaxPixels = 40_000_000

// Scanner finds QR symbols in a decoded image and returns their payloads.
type Scanner interface {
	Scan(img image.Image) ([]string, error)
}

// ZXingScanner is the gozxing-backed Scanner. It looks for every symbol in
// the image and returns their payloads left to right, then top to bottom.
// When the multi-symbol detector finds nothing it retries with the
// single-symbol reader, which copes better with damaged finder patterns.
type ZXingScanner struct{}

func (ZXingScanner) Scan(img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, err
	}

	hints := map[gozxing.DecodeHintType]any{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	results, multiErr := zxmulti.NewQRCodeMultiReader().DecodeMultiple(bmp, hints)
	if len(results) > 0 {
		slices.SortStableFunc(results, func(a, b *gozxing.Result) int {
			ax, ay := topLeft(a)
			bx, by := topLeft(b)
			if c := cmp.Compare(ax, bx); c != 0 {
				return c
			}
			return cmp.Compare(ay, by)
		})
		payloads := make([]string, 0, len(results))
		for _, r := range results {
			payloads = append(payloads, r.GetText())
		}
		return payloads, nil
	}

	result, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return nil, errors.Join(multiErr, err)
	}
	return []string{result.GetText()}, nil
}

// topLeft returns the smallest x and y over the symbol's finder points.
// Results without points sort last.
func topLeft(r *gozxing.Result) (float64, float64) {
	points := r.GetResultPoints()
	if len(points) == 0 {
		return math.MaxFloat64, math.MaxFloat64
	}
	x, y := math.MaxFloat64, math.MaxFloat64
	for _, p := range points {
		if p == nil {
			continue
		}
		x = min(x, p.GetX())
		y = min(y, p.GetY())
	}
	return x, y
}

// Decoder reads a single QR payload from raster image bytes.
type Decoder struct {
	scanner   Scanner
	logger    *slog.Logger
	strict    bool
	maxPixels int
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithScanner replaces the gozxing scanner.
func WithScanner(s Scanner) DecoderOption {
	return func(d *Decoder) {
		if s != nil {
			d.scanner = s
		}
	}
}

// WithDecoderLogger sets the logger used to report discarded symbols.
func WithDecoderLogger(l *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithStrictDecoding rejects images with more than one distinct payload
// instead of taking the first.
func WithStrictDecoding() DecoderOption {
	return func(d *Decoder) {
		d.strict = true
	}
}

// WithMaxPixels overrides DefaultMaxPixels.
func WithMaxPixels(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxPixels = n
		}
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		scanner:   ZXingScanner{},
		logger:    logger.Discard(),
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the payload of the QR symbol in data. It fails with
// *DecodeError when the image cannot be read, holds no symbol, or (in strict
// mode) holds several distinct payloads.
func (d *Decoder) Decode(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &DecodeError{Reason: ErrUnreadableImage, Err: io.ErrUnexpectedEOF}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", &DecodeError{Reason: ErrUnreadableImage, Err: err}
	}
	if cfg.Width*cfg.Height > d.maxPixels {
		return "", &DecodeError{Reason: ErrImageTooLarge}
	}

	payloads, err := d.scan(data)
	if err != nil {
		return "", err
	}

	switch n := len(payloads); {
	case n == 0:
		return "", &DecodeError{Reason: ErrNoSymbol}
	case n > 1 && d.strict:
		return "", &DecodeError{Reason: ErrAmbiguous, Symbols: n}
	case n > 1:
		d.logger.Warn("image holds several QR symbols, using the first",
			logger.Component("qrcode"),
			logger.Symbols(n),
		)
	}
	return payloads[0], nil
}

// scan keeps the decoded pixel buffer local so it is released as soon as
// the payloads are extracted.
func (d *Decoder) scan(data []byte) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: ErrUnreadableImage, Err: err}
	}

	found, err := d.scanner.Scan(img)
	if err != nil && len(found) == 0 {
		return nil, &DecodeError{Reason: ErrNoSymbol, Err: err}
	}
	return distinct(found), nil
}

func distinct(payloads []string) []string {
	out := make([]string, 0, len(payloads))
	seen := make(map[string]struct{}, len(payloads))
	for _, p := range payloads {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

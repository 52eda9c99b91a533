package qrcode_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/dmitrymomot/upiqr/pkg/qrcode"
)

const payload = "upi://pay?pa=merchant@paytm&pn=My%20Store&am=500&cu=INR"

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	enc := qrcode.NewEncoder()
	dec := qrcode.NewDecoder()

	for _, level := range []qrcode.Level{qrcode.LevelL, qrcode.LevelM, qrcode.LevelQ, qrcode.LevelH} {
		t.Run(string(level), func(t *testing.T) {
			t.Parallel()

			opts := qrcode.DefaultOptions()
			opts.ErrorCorrection = level

			data, err := enc.Encode(payload, opts)
			require.NoError(t, err)

			got, err := dec.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestEncodeGeometry(t *testing.T) {
	t.Parallel()

	enc := qrcode.NewEncoder()

	tests := []struct {
		name string
		opts qrcode.Options
	}{
		{"defaults", qrcode.DefaultOptions()},
		{"small modules", qrcode.Options{BoxSize: 3, Border: 4, ErrorCorrection: qrcode.LevelM}},
		{"wide border", qrcode.Options{BoxSize: 5, Border: 10, ErrorCorrection: qrcode.LevelL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := enc.Encode("upi://pay?pa=a@b", tt.opts)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)

			b := img.Bounds()
			assert.Equal(t, b.Dx(), b.Dy())
			assert.Zero(t, b.Dx()%tt.opts.BoxSize)

			modules := b.Dx()/tt.opts.BoxSize - 2*tt.opts.Border
			assert.Zero(t, (modules-21)%4, "side of %d modules is not a QR version size", modules)

			r, g, bl, _ := img.At(0, 0).RGBA()
			assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, bl}, "quiet zone must be light")

			off := tt.opts.Border * tt.opts.BoxSize
			r, g, bl, _ = img.At(off, off).RGBA()
			assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, bl}, "finder pattern corner must be dark")
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	enc := qrcode.NewEncoder()
	a, err := enc.Encode(payload, qrcode.DefaultOptions())
	require.NoError(t, err)
	b, err := enc.Encode(payload, qrcode.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeCapacity(t *testing.T) {
	t.Parallel()

	enc := qrcode.NewEncoder()
	prefix := "upi://pay?pa="

	for _, level := range []qrcode.Level{qrcode.LevelM, qrcode.LevelH} {
		t.Run(string(level), func(t *testing.T) {
			t.Parallel()

			limit := qrcode.Capacity(level)
			opts := qrcode.Options{BoxSize: 1, Border: 0, ErrorCorrection: level}

			atLimit := prefix + strings.Repeat("a", limit-len(prefix))
			require.Len(t, atLimit, limit)
			_, err := enc.Encode(atLimit, opts)
			require.NoError(t, err)

			_, err = enc.Encode(atLimit+"a", opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, qrcode.ErrPayloadTooLarge)

			var ce *qrcode.CapacityError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, limit+1, ce.Length)
			assert.Equal(t, limit, ce.Limit)
			assert.Equal(t, level, ce.Level)
		})
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	t.Parallel()

	enc := qrcode.NewEncoder()

	_, err := enc.Encode("", qrcode.DefaultOptions())
	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)

	_, err = enc.Encode(payload, qrcode.Options{BoxSize: 0, Border: 4})
	assert.ErrorIs(t, err, qrcode.ErrInvalidOptions)

	_, err = enc.Encode(payload, qrcode.Options{BoxSize: 10, Border: -1})
	assert.ErrorIs(t, err, qrcode.ErrInvalidOptions)

	_, err = enc.Encode(payload, qrcode.Options{BoxSize: 10, Border: 4, ErrorCorrection: "X"})
	assert.ErrorIs(t, err, qrcode.ErrInvalidOptions)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	def := qrcode.DefaultOptions()
	assert.Equal(t, 10, def.BoxSize)
	assert.Equal(t, 4, def.Border)
	assert.Equal(t, qrcode.LevelM, def.ErrorCorrection)

	opts, err := qrcode.Options{BoxSize: 2, Border: 0}.Validate()
	require.NoError(t, err)
	assert.Equal(t, qrcode.LevelM, opts.ErrorCorrection, "empty level normalises to M")

	levels := map[string]qrcode.Level{
		"l": qrcode.LevelL, "Medium": qrcode.LevelM, "q": qrcode.LevelQ, "HIGH": qrcode.LevelH, "": qrcode.LevelM,
	}
	for in, want := range levels {
		got, err := qrcode.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	assert.Equal(t, 2953, qrcode.Capacity(qrcode.LevelL))
	assert.Equal(t, 2331, qrcode.Capacity(qrcode.LevelM))
	assert.Equal(t, 1663, qrcode.Capacity(qrcode.LevelQ))
	assert.Equal(t, 1273, qrcode.Capacity(qrcode.LevelH))
	assert.Equal(t, 2331, qrcode.Capacity(""))
}

func TestDecodeFormats(t *testing.T) {
	t.Parallel()

	data, err := qrcode.NewEncoder().Encode(payload, qrcode.DefaultOptions())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	tests := []struct {
		name   string
		encode func(w io.Writer, m image.Image) error
	}{
		{"jpeg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, &jpeg.Options{Quality: 95}) }},
		{"gif", func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) }},
		{"bmp", bmp.Encode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, tt.encode(&buf, img))

			got, err := qrcode.NewDecoder().Decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	t.Parallel()

	data, err := qrcode.NewEncoder().Encode(payload, qrcode.DefaultOptions())
	require.NoError(t, err)

	dec := qrcode.NewDecoder()
	first, err := dec.Decode(data)
	require.NoError(t, err)
	second, err := dec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	dec := qrcode.NewDecoder()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := dec.Decode(nil)
		assert.ErrorIs(t, err, qrcode.ErrUnreadableImage)
	})

	t.Run("not an image", func(t *testing.T) {
		t.Parallel()

		_, err := dec.Decode([]byte("definitely not a png"))
		assert.ErrorIs(t, err, qrcode.ErrUnreadableImage)
	})

	t.Run("blank image", func(t *testing.T) {
		t.Parallel()

		_, err := dec.Decode(blankPNG(t, 200))
		require.Error(t, err)
		assert.ErrorIs(t, err, qrcode.ErrNoSymbol)

		var de *qrcode.DecodeError
		require.True(t, errors.As(err, &de))
		assert.Zero(t, de.Symbols)
		assert.Contains(t, err.Error(), "no QR code found")
	})

	t.Run("too many pixels", func(t *testing.T) {
		t.Parallel()

		small := qrcode.NewDecoder(qrcode.WithMaxPixels(100))
		_, err := small.Decode(blankPNG(t, 20))
		assert.ErrorIs(t, err, qrcode.ErrImageTooLarge)
	})
}

type fakeScanner struct {
	payloads []string
	err      error
}

func (f fakeScanner) Scan(image.Image) ([]string, error) { return f.payloads, f.err }

func TestDecodeMultipleSymbols(t *testing.T) {
	t.Parallel()

	img := blankPNG(t, 10)

	t.Run("takes first by default", func(t *testing.T) {
		t.Parallel()

		dec := qrcode.NewDecoder(qrcode.WithScanner(fakeScanner{payloads: []string{"a", "b"}}))
		got, err := dec.Decode(img)
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("strict mode rejects", func(t *testing.T) {
		t.Parallel()

		dec := qrcode.NewDecoder(
			qrcode.WithScanner(fakeScanner{payloads: []string{"a", "b", "c"}}),
			qrcode.WithStrictDecoding(),
		)
		_, err := dec.Decode(img)
		require.Error(t, err)
		assert.ErrorIs(t, err, qrcode.ErrAmbiguous)

		var de *qrcode.DecodeError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 3, de.Symbols)
		assert.Contains(t, err.Error(), "ambiguous image")
	})

	t.Run("duplicate payloads are one symbol", func(t *testing.T) {
		t.Parallel()

		dec := qrcode.NewDecoder(
			qrcode.WithScanner(fakeScanner{payloads: []string{"a", "a"}}),
			qrcode.WithStrictDecoding(),
		)
		got, err := dec.Decode(img)
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("scanner error is no symbol", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("finder pattern not found")
		dec := qrcode.NewDecoder(qrcode.WithScanner(fakeScanner{err: cause}))
		_, err := dec.Decode(img)
		assert.ErrorIs(t, err, qrcode.ErrNoSymbol)
		assert.ErrorIs(t, err, cause)
	})
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	uri := qrcode.DataURI([]byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, "data:image/png;base64,iVBORw==", uri)
}

func TestDecodeTwoSymbols(t *testing.T) {
	t.Parallel()

	const (
		left  = "upi://pay?pa=first@bank"
		right = "upi://pay?pa=second@bank&am=9"
	)
	img := sideBySidePNG(t, left, right)

	t.Run("scanner sees both", func(t *testing.T) {
		t.Parallel()

		m, err := png.Decode(bytes.NewReader(img))
		require.NoError(t, err)
		got, err := qrcode.ZXingScanner{}.Scan(m)
		require.NoError(t, err)
		assert.Equal(t, []string{left, right}, got)
	})

	t.Run("default takes the leftmost", func(t *testing.T) {
		t.Parallel()

		got, err := qrcode.NewDecoder().Decode(img)
		require.NoError(t, err)
		assert.Equal(t, left, got)
	})

	t.Run("strict mode rejects", func(t *testing.T) {
		t.Parallel()

		_, err := qrcode.NewDecoder(qrcode.WithStrictDecoding()).Decode(img)
		require.Error(t, err)
		assert.ErrorIs(t, err, qrcode.ErrAmbiguous)

		var de *qrcode.DecodeError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 2, de.Symbols)
	})

	t.Run("single symbol passes strict mode", func(t *testing.T) {
		t.Parallel()

		data, err := qrcode.NewEncoder().Encode(left, qrcode.DefaultOptions())
		require.NoError(t, err)
		got, err := qrcode.NewDecoder(qrcode.WithStrictDecoding()).Decode(data)
		require.NoError(t, err)
		assert.Equal(t, left, got)
	})
}

// sideBySidePNG renders two codes next to each other on one white canvas.
func sideBySidePNG(t *testing.T, a, b string) []byte {
	t.Helper()

	opts := qrcode.Options{BoxSize: 6, Border: 4, ErrorCorrection: qrcode.LevelM}
	var parts []image.Image
	for _, content := range []string{a, b} {
		data, err := qrcode.NewEncoder().Encode(content, opts)
		require.NoError(t, err)
		m, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		parts = append(parts, m)
	}

	w := parts[0].Bounds().Dx() + parts[1].Bounds().Dx()
	h := max(parts[0].Bounds().Dy(), parts[1].Bounds().Dy())
	canvas := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, parts[0].Bounds(), parts[0], image.Point{}, draw.Src)
	draw.Draw(canvas, parts[1].Bounds().Add(image.Pt(parts[0].Bounds().Dx(), 0)), parts[1], image.Point{}, draw.Src)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, canvas))
	return buf.Bytes()
}

func blankPNG(t *testing.T, side int) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, side, side))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.Gray{Y: 0xff})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateHelpers(t *testing.T) {
	t.Parallel()

	t.Run("png at requested size", func(t *testing.T) {
		t.Parallel()

		data, err := qrcode.Generate(payload, 300)
		require.NoError(t, err)

		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.Width)

		got, err := qrcode.NewDecoder().Decode(data)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		_, err := qrcode.Generate("", 256)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})

	t.Run("too long for level M", func(t *testing.T) {
		t.Parallel()

		_, err := qrcode.Generate(strings.Repeat("a", qrcode.Capacity(qrcode.LevelM)+1), 256)
		assert.ErrorIs(t, err, qrcode.ErrPayloadTooLarge)
	})

	t.Run("data uri", func(t *testing.T) {
		t.Parallel()

		uri, err := qrcode.GenerateBase64Image(payload, qrcode.DefaultOptions())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

		_, err = qrcode.GenerateBase64Image(payload, qrcode.Options{BoxSize: 0})
		assert.ErrorIs(t, err, qrcode.ErrInvalidOptions)
	})
}

// Package qrcode renders strings as QR code PNG images and reads them back.
//
// Encoding is a thin wrapper around github.com/skip2/go-qrcode that paints
// the symbol with a configurable module size, quiet zone and error
// correction level. Decoding wraps github.com/makiuchi-d/gozxing and accepts
// PNG, JPEG, GIF, BMP and WebP input.
//
// # Usage
//
// Encode with the defaults (10px modules, 4 module border, level M):
//
//	png, err := qrcode.NewEncoder().Encode("upi://pay?pa=shop@upi", qrcode.DefaultOptions())
//	if err != nil {
//		// *qrcode.CapacityError when the content does not fit version 40
//	}
//
// Decode an uploaded image:
//
//	dec := qrcode.NewDecoder(qrcode.WithDecoderLogger(log))
//	text, err := dec.Decode(upload)
//	if errors.Is(err, qrcode.ErrNoSymbol) {
//		// ask for a clearer photo
//	}
//
// Embed the result in HTML:
//
//	fmt.Printf(`<img src="%s" alt="QR Code">`, qrcode.DataURI(png))
//
// Generate and GenerateBase64Image cover the one-line cases: a PNG of a
// given pixel width, or a data URI rendered with Options.
//
// # Error Correction Level
//
// Level M is the default. It recovers from ~15% damage and still fits
// 2331 bytes at version 40. The byte capacities per level are exposed by
// Capacity and enforced by Encode before rendering.
//
// # Multiple Symbols
//
// When an image holds more than one distinct payload the decoder returns the
// first one and logs the others. WithStrictDecoding turns that case into a
// *DecodeError matching ErrAmbiguous.
package qrcode

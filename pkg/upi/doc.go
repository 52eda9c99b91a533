// Package upi converts between UPI payment field sets and the canonical
// `upi://pay?...` string embedded in payment QR codes.
//
// A FieldSet holds one optional Value per known parameter plus any
// unrecognised parameters in the order they were first seen, so parsing a
// string from a third-party generator and building it again keeps every
// parameter:
//
//	fs, err := upi.Parse("upi://pay?pa=merchant@paytm&pn=My+Store&am=500")
//	if err != nil {
//		// *upi.FormatError when the input is not a UPI payment string
//	}
//
//	fs = upi.Merge(fs, upi.ModifyRequest{Amount: upi.Some("200")})
//
//	raw, err := upi.Build(fs)
//	// raw == "upi://pay?pa=merchant@paytm&pn=My%20Store&am=200"
//
// # Presence
//
// The zero Value is absent. A Value that is Valid but empty is present and
// empty: Build omits it, and Merge uses it to clear the field it overrides.
//
// # Errors
//
// Parse fails only with *FormatError and Build only with *ValidationError.
// Both match the package sentinels with errors.Is:
//
//	if errors.Is(err, upi.ErrNotUPI) { ... }
//	if errors.Is(err, upi.ErrFieldRequired) { ... }
package upi

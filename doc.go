// Package upiqr reads, edits and re-issues UPI payment QR codes.
//
// A Service composes the UPI string codec (package pkg/upi) with a QR image
// decoder and encoder (package pkg/qrcode):
//
//	svc := upiqr.New(upiqr.WithLogger(log))
//
//	// Read the payment details from an uploaded photo.
//	fields, raw, err := svc.ParseOnly(ctx, upload)
//
//	// Issue a new code.
//	res, err := svc.Generate(ctx, upi.FieldSet{
//		PayeeAddress: upi.Some("merchant@paytm"),
//		Amount:       upi.Some("500"),
//	}, qrcode.DefaultOptions())
//
//	// Change the amount of an existing code.
//	res, err = svc.Modify(ctx, upload, upi.ModifyRequest{Amount: upi.Some("200")}, qrcode.DefaultOptions())
//
// Modify moves through Start, Decoded, Merged, Built and Encoded. A failing
// step returns *StageError naming the state that was not reached; the cause
// is one of *qrcode.DecodeError, *upi.FormatError, *upi.ValidationError or
// *qrcode.CapacityError and can be matched with errors.As. Nothing is
// returned alongside an error.
package upiqr

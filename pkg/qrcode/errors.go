package qrcode

import (
	"errors"
	"fmt"
)

var (
	ErrNoSymbol        = errors.New("no QR code found")
	ErrAmbiguous       = errors.New("ambiguous image")
	ErrUnreadableImage = errors.New("could not read image")
	ErrImageTooLarge   = errors.New("image too large")
	ErrPayloadTooLarge = errors.New("payload too large for QR version")
	ErrInvalidOptions  = errors.New("invalid QR options")
	ErrEmptyContent    = errors.New("content is empty")
)

// DecodeError reports an image that did not yield exactly one payload.
// Reason is one of ErrNoSymbol, ErrAmbiguous, ErrUnreadableImage or
// ErrImageTooLarge; Symbols is the number of distinct payloads found.
type DecodeError struct {
	Reason  error
	Symbols int
	Err     error
}

func (e *DecodeError) Error() string {
	msg := e.Reason.Error()
	if e.Reason == ErrAmbiguous {
		msg = fmt.Sprintf("%s: %d symbols found", msg, e.Symbols)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Is(target error) bool { return target == e.Reason }

func (e *DecodeError) Unwrap() error { return e.Err }

// CapacityError reports content longer than the largest QR version can hold
// at the requested error correction level.
type CapacityError struct {
	Length int
	Limit  int
	Level  Level
	Err    error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds limit %d at level %s", ErrPayloadTooLarge, e.Length, e.Limit, e.Level)
}

func (e *CapacityError) Is(target error) bool { return target == ErrPayloadTooLarge }

func (e *CapacityError) Unwrap() error { return e.Err }

package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/upiqr/core/storage"
	"github.com/dmitrymomot/upiqr/pkg/qrcode"
	"github.com/dmitrymomot/upiqr/pkg/upi"
)

// Error is the JSON body of every failed request.
type Error struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func (e Error) Error() string { return e.Message }

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e Error) WithDetails(details map[string]any) Error {
	e.Details = details
	return e
}

// Render writes the error as its JSON body, so a handler can return it
// directly.
func (e Error) Render(w http.ResponseWriter, r *http.Request) error {
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return JSONWithStatus(e, status).Render(w, r)
}

var (
	ErrBadRequest          = Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: http.StatusText(http.StatusBadRequest)}
	ErrNotFound            = Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "File not found"}
	ErrPayloadTooLarge     = Error{Status: http.StatusRequestEntityTooLarge, Code: "REQUEST_TOO_LARGE", Message: http.StatusText(http.StatusRequestEntityTooLarge)}
	ErrUnprocessableEntity = Error{Status: http.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY", Message: http.StatusText(http.StatusUnprocessableEntity)}
	ErrInternalServerError = Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: http.StatusText(http.StatusInternalServerError)}
	ErrMethodNotAllowed    = Error{Status: http.StatusMethodNotAllowed, Code: "METHOD_NOT_ALLOWED", Message: http.StatusText(http.StatusMethodNotAllowed)}
	ErrServiceUnavailable  = Error{Status: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: http.StatusText(http.StatusServiceUnavailable)}

	ErrNoFile        = ErrBadRequest.WithMessage("No file uploaded")
	ErrNoFileName    = ErrBadRequest.WithMessage("No file selected")
	ErrFileType      = ErrBadRequest.WithMessage("Invalid file type. Allowed: PNG, JPG, JPEG, GIF, BMP")
	ErrNoData        = ErrBadRequest.WithMessage("No data provided")
	ErrInvalidJSON   = ErrBadRequest.WithMessage("Invalid JSON body")
	ErrInvalidName   = ErrBadRequest.WithMessage("Invalid download name")
)

// toError maps pipeline and storage errors to HTTP errors. ok is false for
// errors with no client-facing meaning; those become a 500.
func toError(err error) (Error, bool) {
	var he Error
	if errors.As(err, &he) {
		return he, true
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return ErrPayloadTooLarge.WithDetails(map[string]any{"limit": mbe.Limit}), true
	}

	var fe *upi.FormatError
	if errors.As(err, &fe) {
		e := ErrBadRequest
		e.Code = "NOT_UPI"
		return e.WithMessage("Not a UPI QR code").WithDetails(map[string]any{"kind": fe.Kind}), true
	}

	var ve *upi.ValidationError
	if errors.As(err, &ve) {
		e := ErrBadRequest
		e.Code = "VALIDATION_FAILED"
		return e.WithMessage(ve.Error()).WithDetails(map[string]any{"field": ve.Field.Name()}), true
	}

	var de *qrcode.DecodeError
	if errors.As(err, &de) {
		e := ErrBadRequest
		e.Code = "DECODE_FAILED"
		switch {
		case errors.Is(de, qrcode.ErrNoSymbol):
			e.Message = "No QR code found in image"
		case errors.Is(de, qrcode.ErrUnreadableImage):
			e.Message = "Could not read image"
		default:
			e.Message = de.Error()
		}
		return e.WithDetails(map[string]any{"symbols": de.Symbols}), true
	}

	var ce *qrcode.CapacityError
	if errors.As(err, &ce) {
		e := ErrUnprocessableEntity
		e.Code = "PAYLOAD_TOO_LARGE"
		return e.WithMessage("Payment string too long for a QR code").WithDetails(map[string]any{
			"length": ce.Length,
			"limit":  ce.Limit,
			"level":  string(ce.Level),
		}), true
	}

	if errors.Is(err, errRouteNotFound) {
		return ErrNotFound.WithMessage("Route not found"), true
	}
	if errors.Is(err, errMethodNotAllowed) {
		return ErrMethodNotAllowed, true
	}

	if errors.Is(err, qrcode.ErrInvalidOptions) {
		return ErrBadRequest.WithMessage(err.Error()), true
	}
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound, true
	}
	if errors.Is(err, storage.ErrInvalidKey) {
		return ErrInvalidName, true
	}

	return ErrInternalServerError, false
}

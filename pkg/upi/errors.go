package upi

import "errors"

var (
	ErrNotUPI        = errors.New("not a UPI payment string")
	ErrFieldRequired = errors.New("required field missing")
)

// FormatError reports input that is not a UPI payment string.
// Kind describes what the input looked like instead: the scheme of another
// URI ("https", "upi") or "text" when there is no scheme at all.
type FormatError struct {
	Kind string
}

func (e *FormatError) Error() string {
	if e.Kind == "" {
		return ErrNotUPI.Error()
	}
	return ErrNotUPI.Error() + " (got " + e.Kind + ")"
}

func (e *FormatError) Is(target error) bool { return target == ErrNotUPI }

// ValidationError reports a required field that is absent or empty.
type ValidationError struct {
	Field Field
}

func (e *ValidationError) Error() string {
	return e.Field.Name() + " required"
}

func (e *ValidationError) Is(target error) bool { return target == ErrFieldRequired }

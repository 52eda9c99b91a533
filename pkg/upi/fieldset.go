package upi

import (
	"slices"
	"sort"
)

// Value is an optional string. The zero Value is absent.
type Value struct {
	Str   string
	Valid bool
}

// Some returns a present Value, including present-and-empty for "".
func Some(s string) Value { return Value{Str: s, Valid: true} }

// Get returns the string and whether the value is present.
func (v Value) Get() (string, bool) { return v.Str, v.Valid }

// NonEmpty reports whether the value is present and carries text.
func (v Value) NonEmpty() bool { return v.Valid && v.Str != "" }

// Param is a parameter outside the vocabulary, kept under its wire code.
type Param struct {
	Code  string
	Value string
}

// FieldSet is the structured form of a UPI payment string.
// It is a value type: copy with Clone, compare with Equal.
type FieldSet struct {
	PayeeAddress    Value
	PayeeName       Value
	Amount          Value
	Currency        Value
	TransactionNote Value
	TransactionRef  Value
	MerchantCode    Value
	TransactionID   Value

	extra []Param
}

func (fs *FieldSet) ptr(f Field) *Value {
	switch f {
	case PayeeAddress:
		return &fs.PayeeAddress
	case PayeeName:
		return &fs.PayeeName
	case Amount:
		return &fs.Amount
	case Currency:
		return &fs.Currency
	case TransactionNote:
		return &fs.TransactionNote
	case TransactionRef:
		return &fs.TransactionRef
	case MerchantCode:
		return &fs.MerchantCode
	case TransactionID:
		return &fs.TransactionID
	}
	return nil
}

// Field returns the value of a vocabulary field.
func (fs FieldSet) Field(f Field) Value {
	if p := fs.ptr(f); p != nil {
		return *p
	}
	return Value{}
}

// SetField stores v for a vocabulary field.
func (fs *FieldSet) SetField(f Field, v Value) {
	if p := fs.ptr(f); p != nil {
		*p = v
	}
}

// Set stores a present value under a wire code. Vocabulary codes go to
// their field; any other code is kept as a passthrough param, replacing the
// value in place if the code was seen before.
func (fs *FieldSet) Set(code, value string) {
	if f, ok := LookupCode(code); ok {
		fs.SetField(f, Some(value))
		return
	}
	for i := range fs.extra {
		if fs.extra[i].Code == code {
			fs.extra[i].Value = value
			return
		}
	}
	fs.extra = append(fs.extra, Param{Code: code, Value: value})
}

// Get looks a value up by wire code, vocabulary or passthrough.
func (fs FieldSet) Get(code string) (string, bool) {
	if f, ok := LookupCode(code); ok {
		return fs.Field(f).Get()
	}
	for _, p := range fs.extra {
		if p.Code == code {
			return p.Value, true
		}
	}
	return "", false
}

// Params returns the passthrough params in first-seen order.
func (fs FieldSet) Params() []Param { return slices.Clone(fs.extra) }

// IsEmpty reports whether no field or param is present.
func (fs FieldSet) IsEmpty() bool {
	for f := range fieldCount {
		if fs.Field(f).Valid {
			return false
		}
	}
	return len(fs.extra) == 0
}

func (fs FieldSet) Clone() FieldSet {
	out := fs
	out.extra = slices.Clone(fs.extra)
	return out
}

// Compact returns a copy with present-but-empty fields and params removed.
// Build writes nothing for them, so Parse(Build(fs)) equals fs.Compact().
func (fs FieldSet) Compact() FieldSet {
	out := FieldSet{}
	for f := range fieldCount {
		if v := fs.Field(f); v.NonEmpty() {
			out.SetField(f, v)
		}
	}
	for _, p := range fs.extra {
		if p.Value != "" {
			out.extra = append(out.extra, p)
		}
	}
	return out
}

// Equal compares field by field, including passthrough order. A
// present-but-empty value is not equal to an absent one; compare
// Compact() results to ignore the difference.
func (fs FieldSet) Equal(other FieldSet) bool {
	for f := range fieldCount {
		if fs.Field(f) != other.Field(f) {
			return false
		}
	}
	return slices.Equal(fs.extra, other.extra)
}

// Map renders the present values keyed by semantic name; passthrough params
// keep their wire code.
func (fs FieldSet) Map() map[string]string {
	m := make(map[string]string, int(fieldCount)+len(fs.extra))
	for f := range fieldCount {
		if v, ok := fs.Field(f).Get(); ok {
			m[f.Name()] = v
		}
	}
	for _, p := range fs.extra {
		m[p.Code] = p.Value
	}
	return m
}

// FromMap builds a FieldSet from keys that are semantic names or wire codes.
// Unknown keys become passthrough params in sorted order. A semantic name
// wins over its wire code when both are given.
func FromMap(m map[string]string) FieldSet {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fs FieldSet
	for _, k := range keys {
		if _, ok := LookupName(k); ok {
			continue
		}
		fs.Set(k, m[k])
	}
	for _, k := range keys {
		if f, ok := LookupName(k); ok {
			fs.SetField(f, Some(m[k]))
		}
	}
	return fs
}

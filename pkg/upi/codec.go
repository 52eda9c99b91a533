package upi

import (
	"net/url"
	"strings"
)

// Scheme is the prefix every UPI payment string starts with.
const Scheme = "upi://pay?"

// Parse decodes a UPI payment string. The prefix is matched
// case-insensitively. Pairs without '=' or with an empty code are skipped,
// values that fail to unescape are kept verbatim, and a repeated code keeps
// its last value. Once the prefix matches Parse always succeeds.
func Parse(raw string) (FieldSet, error) {
	if len(raw) < len(Scheme) || !strings.EqualFold(raw[:len(Scheme)], Scheme) {
		return FieldSet{}, &FormatError{Kind: inputKind(raw)}
	}

	var fs FieldSet
	for pair := range strings.SplitSeq(raw[len(Scheme):], "&") {
		code, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		code = unescape(code)
		if code == "" {
			continue
		}
		fs.Set(code, unescape(value))
	}
	return fs, nil
}

// Build encodes fs as a UPI payment string: vocabulary fields in wire order,
// then passthrough params in first-seen order. Absent and empty values are
// omitted, so a round trip through Parse yields fs.Compact(). Identical
// field sets always produce identical strings.
func Build(fs FieldSet) (string, error) {
	if !fs.PayeeAddress.NonEmpty() {
		return "", &ValidationError{Field: PayeeAddress}
	}

	var b strings.Builder
	b.WriteString(Scheme)
	first := true
	write := func(code, value string) {
		if value == "" {
			return
		}
		if !first {
			b.WriteByte('&')
		}
		first = false
		b.WriteString(code)
		b.WriteByte('=')
		b.WriteString(Escape(value))
	}

	for f := range fieldCount {
		write(f.Code(), fs.Field(f).Str)
	}
	for _, p := range fs.extra {
		if _, reserved := LookupCode(p.Code); reserved {
			continue
		}
		write(Escape(p.Code), p.Value)
	}
	return b.String(), nil
}

// MustBuild is like Build but panics on error. Intended for fixtures.
func MustBuild(fs FieldSet) string {
	s, err := Build(fs)
	if err != nil {
		panic(err)
	}
	return s
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// inputKind names what a non-UPI payload looks like for error reports.
func inputKind(raw string) string {
	scheme, _, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" || strings.ContainsAny(scheme, " \t\r\n/?&=") {
		return "text"
	}
	return strings.ToLower(scheme)
}

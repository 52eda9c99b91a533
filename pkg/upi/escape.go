package upi

import "strings"

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes a query value. Unreserved characters (RFC 3986)
// and '@' stay literal so virtual payment addresses read as "name@bank";
// space becomes %20.
//
// net/url has no mode with this set: QueryEscape turns '@' into %40 and
// space into '+', PathEscape leaves '&' and '=' unescaped.
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !shouldEscape(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '.', '_', '~', '@':
		return false
	}
	return true
}

// Package clientip extracts the client IP address from an HTTP request.
//
// Proxy headers are checked in this order:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For, leftmost entry
//  4. X-Real-IP
//  5. RemoteAddr
//
// Values that do not parse as an IP, and the unspecified address, are
// skipped. Results are normalized with net.IP.String.
//
// Headers are trusted as sent. Only rely on them behind a proxy that
// overwrites them.
package clientip

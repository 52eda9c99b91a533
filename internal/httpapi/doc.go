// Package httpapi exposes the pipeline over HTTP.
//
//	GET  /health            {"status":"ok"} plus dependency checks
//	POST /decode            multipart "file"; any QR payload, UPI fields when present
//	POST /generate          JSON fields plus box_size, border, error_correction
//	POST /modify            multipart "file" plus overriding form fields
//	GET  /download/{name}   a previously generated PNG
//
// Field keys may be semantic names (payee_address) or wire codes (pa). In
// /modify, empty form values are ignored and the comma-separated "clear"
// field lists keys to remove. Generated images are kept in a storage.Store
// and linked from download_url until they expire.
//
// Handlers return a Response: JSON, Attachment, an Error value, or Fail(err)
// for any other error. Handle turns a HandlerFunc into an http.Handler that
// recovers panics and renders errors through the same mapping.
//
// Errors are JSON: {"error": message, "code": CODE, "details": {...}}.
// Malformed input, undecodable images and non-UPI payloads are 400,
// payloads too long for a QR code are 422, unknown downloads are 404.
package httpapi

// Package middleware provides net/http middleware for the HTTP API.
//
// Every middleware has the func(http.Handler) http.Handler shape, so it can
// be passed to gorilla/mux Router.Use or wrapped by hand. Each has a default
// constructor and a WithConfig variant:
//
//	r := mux.NewRouter()
//	r.Use(
//		middleware.RequestID(),
//		middleware.Logging(log),
//		middleware.BodyLimit(16*middleware.MB),
//	)
//
// RequestID stores the ID in the request context; GetRequestID reads it
// back and RequestIDExtractor adds it to log records made with that
// context.
package middleware

package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrymomot/upiqr"
	"github.com/dmitrymomot/upiqr/core/logger"
	"github.com/dmitrymomot/upiqr/core/storage"
	"github.com/dmitrymomot/upiqr/middleware"
	"github.com/dmitrymomot/upiqr/pkg/qrcode"
)

// DefaultMaxUploadBytes caps request bodies.
const DefaultMaxUploadBytes = 16 << 20

// HealthFunc reports the health of a dependency.
type HealthFunc func(ctx context.Context) error

// API serves the decode, generate, modify and download endpoints.
type API struct {
	svc      *upiqr.Service
	store    storage.Store
	logger   *slog.Logger
	defaults qrcode.Options
	maxBytes int64
	checks   map[string]HealthFunc
}

type Option func(*API)

func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithStore sets where generated images are kept for /download.
func WithStore(s storage.Store) Option {
	return func(a *API) { a.store = s }
}

// WithRenderDefaults sets the options used when a request names none.
func WithRenderDefaults(opts qrcode.Options) Option {
	return func(a *API) { a.defaults = opts }
}

func WithMaxUploadBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBytes = n
		}
	}
}

// WithHealthcheck adds a named check to GET /health.
func WithHealthcheck(name string, fn HealthFunc) Option {
	return func(a *API) { a.checks[name] = fn }
}

// New returns an API backed by svc. Without WithStore an in-memory store
// with the default TTL is used; its cleanup loop is not started.
func New(svc *upiqr.Service, opts ...Option) *API {
	a := &API{
		svc:      svc,
		logger:   logger.Discard(),
		defaults: qrcode.DefaultOptions(),
		maxBytes: DefaultMaxUploadBytes,
		checks:   make(map[string]HealthFunc),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.store == nil {
		a.store = storage.NewMemoryStore(storage.WithLogger(a.logger))
	}
	a.logger = a.logger.With(logger.Component("httpapi"))
	return a
}

// Router builds the mux with request ID, logging and body limit middleware.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: a.logger,
			Skip:   func(r *http.Request) bool { return r.URL.Path == "/health" },
		}),
		middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
			MaxSize: a.maxBytes,
			ErrorHandler: func(w http.ResponseWriter, r *http.Request, contentLength, maxSize int64) {
				a.handleError(w, r, ErrPayloadTooLarge.
					WithMessage("File too large. Maximum allowed: "+middleware.FormatBytes(maxSize)).
					WithDetails(map[string]any{"limit": maxSize, "size": contentLength}))
			},
		}),
	)

	r.Handle("/health", a.Handle(a.health)).Methods(http.MethodGet)
	r.Handle("/decode", a.Handle(a.decode)).Methods(http.MethodPost)
	r.Handle("/generate", a.Handle(a.generate)).Methods(http.MethodPost)
	r.Handle("/modify", a.Handle(a.modify)).Methods(http.MethodPost)
	r.Handle("/download/{name}", a.Handle(a.download)).Methods(http.MethodGet)

	r.NotFoundHandler = a.Handle(func(*http.Request) Response { return Fail(errRouteNotFound) })
	r.MethodNotAllowedHandler = a.Handle(func(*http.Request) Response { return Fail(errMethodNotAllowed) })
	return r
}

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrymomot/upiqr/core/logger"
)

// Response renders an HTTP response. An error returned from Render before
// anything is written goes to the API error handler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// HandlerFunc handles a request and returns what to render.
type HandlerFunc func(r *http.Request) Response

var (
	ErrNilResponse = errors.New("handler returned nil response")

	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

// JSON renders v with 200 OK.
func JSON(v any) Response {
	return &jsonResponse{data: v, status: http.StatusOK}
}

func JSONWithStatus(v any, status int) Response {
	return &jsonResponse{data: v, status: status}
}

type jsonResponse struct {
	data   any
	status int
}

func (r *jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(r.status)
	return json.NewEncoder(w).Encode(r.data)
}

// Attachment renders in-memory data as a download named filename. An empty
// contentType is guessed from the extension.
func Attachment(data []byte, filename, contentType string) Response {
	filename = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(filename)
	return attachmentResponse{data: data, filename: filename, contentType: contentType}
}

type attachmentResponse struct {
	data        []byte
	filename    string
	contentType string
}

func (r attachmentResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	ct := r.contentType
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(r.filename))
		if ct == "" {
			ct = "application/octet-stream"
		}
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, r.filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(r.data)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(r.data)
	return err
}

// Fail hands err to the API error handler, which maps it to a JSON Error.
func Fail(err error) Response {
	return failResponse{err: err}
}

type failResponse struct{ err error }

func (r failResponse) Render(http.ResponseWriter, *http.Request) error { return r.err }

// responseWriter records whether the status line has been sent.
type responseWriter struct {
	http.ResponseWriter
	written bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Written() bool { return w.written }

func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Handle adapts h to http.Handler. Panics and render errors are sent to the
// error handler unless the response has already started.
func (a *API) Handle(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := &responseWriter{ResponseWriter: w}

		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				if !ww.Written() {
					a.handleError(ww, r, panicError(v))
				}
			}
		}()

		resp := h(r)
		if resp == nil {
			a.handleError(ww, r, ErrNilResponse)
			return
		}
		if err := resp.Render(ww, r); err != nil {
			if ww.Written() {
				a.logger.WarnContext(r.Context(), "response not written", logger.Error(err))
				return
			}
			a.handleError(ww, r, err)
		}
	})
}

func panicError(v any) error {
	switch e := v.(type) {
	case error:
		return e
	case string:
		return errors.New(e)
	default:
		return fmt.Errorf("panic: %v", e)
	}
}

package httpapi

import (
	"encoding/base64"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrymomot/upiqr"
	"github.com/dmitrymomot/upiqr/core/logger"
	"github.com/dmitrymomot/upiqr/core/storage"
	"github.com/dmitrymomot/upiqr/pkg/upi"
)

const contentTypePNG = "image/png"

type decodeResponse struct {
	RawData string            `json:"raw_data"`
	IsUPI   bool              `json:"is_upi"`
	UPIData map[string]string `json:"upi_data,omitempty"`
}

type generateResponse struct {
	Success      bool              `json:"success"`
	UPIString    string            `json:"upi_string"`
	UPIData      map[string]string `json:"upi_data"`
	ImageBase64  string            `json:"image_base64"`
	ImageDataURI string            `json:"image_data_uri"`
	DownloadURL  string            `json:"download_url,omitempty"`
}

type modifyResponse struct {
	Success      bool              `json:"success"`
	UPIData      map[string]string `json:"upi_data"`
	NewUPIString string            `json:"new_upi_string"`
	ImageBase64  string            `json:"image_base64"`
	ImageDataURI string            `json:"image_data_uri"`
	DownloadURL  string            `json:"download_url,omitempty"`
}

func (a *API) health(r *http.Request) Response {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}

	if len(a.checks) > 0 {
		checks := make(map[string]string, len(a.checks))
		for name, check := range a.checks {
			if err := check(r.Context()); err != nil {
				a.logger.WarnContext(r.Context(), "healthcheck failed", logger.Action(name), logger.Error(err))
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				continue
			}
			checks[name] = "ok"
		}
		body["checks"] = checks
	}

	return JSONWithStatus(body, status)
}

func (a *API) decode(r *http.Request) Response {
	img, err := readUpload(r, a.maxBytes)
	if err != nil {
		return Fail(err)
	}

	scan, err := a.svc.Inspect(r.Context(), img)
	if err != nil {
		return Fail(err)
	}

	resp := decodeResponse{RawData: scan.Raw, IsUPI: scan.IsUPI}
	if scan.IsUPI {
		resp.UPIData = fieldMap(scan.Fields)
	}
	return JSON(resp)
}

func (a *API) generate(r *http.Request) Response {
	fields, opts, err := decodeGenerateBody(r.Body, a.defaults)
	if err != nil {
		return Fail(err)
	}

	res, err := a.svc.Generate(r.Context(), fields, opts)
	if err != nil {
		return Fail(err)
	}

	return JSON(generateResponse{
		Success:      true,
		UPIString:    res.Raw,
		UPIData:      fieldMap(res.Fields),
		ImageBase64:  base64.StdEncoding.EncodeToString(res.Image),
		ImageDataURI: res.DataURI(),
		DownloadURL:  a.keep(r, "qr", res),
	})
}

func (a *API) modify(r *http.Request) Response {
	img, err := readUpload(r, a.maxBytes)
	if err != nil {
		return Fail(err)
	}

	form := r.MultipartForm.Value
	req, err := modifyRequest(form)
	if err != nil {
		return Fail(err)
	}
	opts, err := renderOptions(a.defaults, func(k string) (string, bool) {
		if vs := form[k]; len(vs) > 0 {
			return vs[0], true
		}
		return "", false
	})
	if err != nil {
		return Fail(err)
	}

	res, err := a.svc.Modify(r.Context(), img, req, opts)
	if err != nil {
		return Fail(err)
	}

	return JSON(modifyResponse{
		Success:      true,
		UPIData:      fieldMap(res.Fields),
		NewUPIString: res.Raw,
		ImageBase64:  base64.StdEncoding.EncodeToString(res.Image),
		ImageDataURI: res.DataURI(),
		DownloadURL:  a.keep(r, "modified_qr", res),
	})
}

func (a *API) download(r *http.Request) Response {
	obj, err := a.store.Get(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		return Fail(err)
	}

	ct := obj.ContentType
	if ct == "" {
		ct = contentTypePNG
	}
	return Attachment(obj.Data, obj.Key, ct)
}

// fieldMap renders the fields that carry text; cleared fields are omitted.
func fieldMap(fs upi.FieldSet) map[string]string {
	m := fs.Map()
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

// keep stores the image and returns its download URL. A store failure is
// logged and leaves the URL empty; the image is still in the response.
func (a *API) keep(r *http.Request, prefix string, res upiqr.Result) string {
	key := storage.NewKey(prefix, ".png")
	if err := a.store.Put(r.Context(), key, res.Image, contentTypePNG); err != nil {
		a.logger.WarnContext(r.Context(), "image not stored", logger.Error(err))
		return ""
	}
	return "/download/" + key
}

// handleError maps err to a JSON Error. Errors with no client-facing
// meaning are logged and rendered as 500.
func (a *API) handleError(w http.ResponseWriter, r *http.Request, err error) {
	e, known := toError(err)
	if !known {
		a.logger.ErrorContext(r.Context(), "request failed", logger.Path(r.URL.Path), logger.Error(err))
	}
	if rerr := e.Render(w, r); rerr != nil {
		a.logger.WarnContext(r.Context(), "response not written", logger.Error(rerr))
	}
}

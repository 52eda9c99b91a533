package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"

	"github.com/dmitrymomot/upiqr/pkg/qrcode"
	"github.com/dmitrymomot/upiqr/pkg/upi"
)

// Request keys that configure rendering rather than the payment string.
const (
	keyBoxSize = "box_size"
	keyBorder  = "border"
	keyLevel   = "error_correction"
	keyClear   = "clear"
	keyFile    = "file"
)

var allowedExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true}

var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// readUpload returns the bytes of the multipart "file" field.
func readUpload(r *http.Request, maxBytes int64) ([]byte, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, ErrNoFile
		}
		return nil, ErrBadRequest.WithMessage("Invalid multipart form")
	}

	file, header, err := r.FormFile(keyFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			// mime/multipart files a part without a filename under Value.
			if _, ok := r.MultipartForm.Value[keyFile]; ok {
				return nil, ErrNoFileName
			}
			return nil, ErrNoFile
		}
		return nil, ErrBadRequest.WithMessage("Invalid file upload")
	}
	defer file.Close()

	if err := checkFileName(header); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrBadRequest.WithMessage("Uploaded file is empty")
	}
	return data, nil
}

func checkFileName(h *multipart.FileHeader) error {
	if h.Filename == "" {
		return ErrNoFileName
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(h.Filename))] {
		return ErrFileType
	}
	return nil
}

// renderOptions reads box_size, border and error_correction from get,
// falling back to def for missing keys.
func renderOptions(def qrcode.Options, get func(string) (string, bool)) (qrcode.Options, error) {
	opts := def
	if v, ok := get(keyBoxSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, ErrBadRequest.WithMessage("box_size must be an integer")
		}
		opts.BoxSize = n
	}
	if v, ok := get(keyBorder); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, ErrBadRequest.WithMessage("border must be an integer")
		}
		opts.Border = n
	}
	if v, ok := get(keyLevel); ok && v != "" {
		level, err := qrcode.ParseLevel(v)
		if err != nil {
			return opts, ErrBadRequest.WithMessage(err.Error())
		}
		opts.ErrorCorrection = level
	}
	return opts.Validate()
}

// decodeGenerateBody parses a JSON object of field values plus render keys.
// Values may be strings or numbers; numbers keep their literal text.
func decodeGenerateBody(body io.Reader, def qrcode.Options) (upi.FieldSet, qrcode.Options, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return upi.FieldSet{}, def, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return upi.FieldSet{}, def, ErrNoData
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return upi.FieldSet{}, def, ErrInvalidJSON
	}
	if len(obj) == 0 {
		return upi.FieldSet{}, def, ErrNoData
	}

	values := make(map[string]string, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case string:
			values[k] = v
		case json.Number:
			values[k] = v.String()
		case nil:
		default:
			return upi.FieldSet{}, def, ErrBadRequest.WithMessage(fmt.Sprintf("%s must be a string or number", k))
		}
	}

	opts, err := renderOptions(def, func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	})
	if err != nil {
		return upi.FieldSet{}, def, err
	}
	delete(values, keyBoxSize)
	delete(values, keyBorder)
	delete(values, keyLevel)

	fields := upi.FromMap(values)
	if err := validateInput(fields); err != nil {
		return upi.FieldSet{}, def, err
	}
	return fields, opts, nil
}

// modifyRequest builds overrides from form values. Empty values are
// ignored; keys named in "clear" (comma separated) are set present-empty.
func modifyRequest(form map[string][]string) (upi.ModifyRequest, error) {
	var req upi.ModifyRequest

	keys := make(map[string]string, len(form))
	for k, vs := range form {
		switch k {
		case keyFile, keyClear, keyBoxSize, keyBorder, keyLevel:
			continue
		}
		if len(vs) > 0 && vs[0] != "" {
			keys[k] = vs[0]
		}
	}
	req = upi.FromMap(keys)

	for _, vs := range form[keyClear] {
		for key := range strings.SplitSeq(vs, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if f, ok := upi.Lookup(key); ok {
				req.SetField(f, upi.Some(""))
				continue
			}
			req.Set(key, "")
		}
	}

	if err := validateInput(req); err != nil {
		return upi.ModifyRequest{}, err
	}
	return req, nil
}

// validateInput checks caller-supplied amount and currency. Values decoded
// from an existing QR code are not re-validated.
func validateInput(fs upi.FieldSet) error {
	if am, ok := fs.Amount.Get(); ok && am != "" && !amountPattern.MatchString(am) {
		e := ErrBadRequest
		e.Code = "VALIDATION_FAILED"
		return e.WithMessage("amount must be a non-negative number with at most two decimals").
			WithDetails(map[string]any{"field": upi.Amount.Name()})
	}
	if cu, ok := fs.Currency.Get(); ok && cu != "" {
		if len(cu) != 3 {
			return currencyError(cu)
		}
		if _, err := currency.ParseISO(strings.ToUpper(cu)); err != nil {
			return currencyError(cu)
		}
	}
	return nil
}

func currencyError(cu string) Error {
	e := ErrBadRequest
	e.Code = "VALIDATION_FAILED"
	return e.WithMessage(fmt.Sprintf("unknown currency %q", cu)).
		WithDetails(map[string]any{"field": upi.Currency.Name()})
}

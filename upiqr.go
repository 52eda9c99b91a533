package upiqr

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/upiqr/core/logger"
	"github.com/dmitrymomot/upiqr/pkg/qrcode"
	"github.com/dmitrymomot/upiqr/pkg/upi"
)

// ImageDecoder turns raster image bytes into the payload of the QR symbol
// they contain.
type ImageDecoder interface {
	Decode(image []byte) (string, error)
}

// ImageEncoder renders a payload as PNG bytes.
type ImageEncoder interface {
	Encode(content string, opts qrcode.Options) ([]byte, error)
}

// Service runs the decode, parse, merge, build and encode steps. It keeps no
// state between calls and is safe for concurrent use.
type Service struct {
	decoder ImageDecoder
	encoder ImageEncoder
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDecoder replaces the gozxing-backed decoder.
func WithDecoder(d ImageDecoder) Option {
	return func(s *Service) { s.decoder = d }
}

// WithEncoder replaces the go-qrcode-backed encoder.
func WithEncoder(e ImageEncoder) Option {
	return func(s *Service) { s.encoder = e }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.decoder == nil {
		s.decoder = qrcode.NewDecoder(qrcode.WithDecoderLogger(s.logger))
	}
	if s.encoder == nil {
		s.encoder = qrcode.NewEncoder()
	}
	s.logger = s.logger.With(logger.Component("pipeline"))
	return s
}

// Result is the output of Generate and Modify.
type Result struct {
	Image  []byte
	Fields upi.FieldSet
	Raw    string
}

// DataURI returns Image as a base64 PNG data URI.
func (r Result) DataURI() string { return qrcode.DataURI(r.Image) }

// Scan is the output of Inspect.
type Scan struct {
	Raw    string
	IsUPI  bool
	Fields upi.FieldSet
}

// ParseOnly decodes image and parses its payload. A QR code that does not
// carry a UPI payment string fails with *upi.FormatError.
func (s *Service) ParseOnly(ctx context.Context, image []byte) (upi.FieldSet, string, error) {
	start := time.Now()

	raw, err := s.decode(ctx, image)
	if err != nil {
		return upi.FieldSet{}, "", err
	}
	fields, err := s.parse(ctx, raw)
	if err != nil {
		return upi.FieldSet{}, "", err
	}

	s.done(ctx, "parse", start, len(raw))
	return fields, raw, nil
}

// Inspect decodes any QR code. Unlike ParseOnly a non-UPI payload is not an
// error: it is returned with IsUPI false.
func (s *Service) Inspect(ctx context.Context, image []byte) (Scan, error) {
	start := time.Now()

	raw, err := s.decode(ctx, image)
	if err != nil {
		return Scan{}, err
	}

	scan := Scan{Raw: raw}
	if fields, err := upi.Parse(raw); err == nil {
		scan.IsUPI = true
		scan.Fields = fields
	}

	s.done(ctx, "inspect", start, len(raw))
	return scan, nil
}

// Generate builds the payment string for fields and renders it.
func (s *Service) Generate(ctx context.Context, fields upi.FieldSet, opts qrcode.Options) (Result, error) {
	start := time.Now()

	raw, err := s.build(ctx, fields)
	if err != nil {
		return Result{}, err
	}
	img, err := s.encode(ctx, raw, opts)
	if err != nil {
		return Result{}, err
	}

	s.done(ctx, "generate", start, len(raw))
	return Result{Image: img, Fields: fields.Clone(), Raw: raw}, nil
}

// Modify decodes image, applies req to the parsed fields and renders the
// rebuilt string. Keys absent from req keep their decoded value; a present
// empty value clears the field.
func (s *Service) Modify(ctx context.Context, image []byte, req upi.ModifyRequest, opts qrcode.Options) (Result, error) {
	start := time.Now()

	raw, err := s.decode(ctx, image)
	if err != nil {
		return Result{}, err
	}
	parsed, err := s.parse(ctx, raw)
	if err != nil {
		return Result{}, err
	}

	merged := upi.Merge(parsed, req)
	s.logger.DebugContext(ctx, "fields merged", logger.Stage(StageMerged.String()))

	built, err := s.build(ctx, merged)
	if err != nil {
		return Result{}, err
	}
	img, err := s.encode(ctx, built, opts)
	if err != nil {
		return Result{}, err
	}

	s.done(ctx, "modify", start, len(built))
	return Result{Image: img, Fields: merged, Raw: built}, nil
}

func (s *Service) decode(ctx context.Context, image []byte) (string, error) {
	raw, err := s.decoder.Decode(image)
	if err != nil {
		return "", s.fail(ctx, StageDecoded, err, logger.ImageSize(len(image)))
	}
	s.logger.DebugContext(ctx, "image decoded",
		logger.Stage(StageDecoded.String()),
		logger.ImageSize(len(image)),
		logger.PayloadLength(len(raw)),
	)
	return raw, nil
}

// parse belongs to the Decoded -> Merged transition: a payload that is not
// a UPI string never reaches the merge.
func (s *Service) parse(ctx context.Context, raw string) (upi.FieldSet, error) {
	fields, err := upi.Parse(raw)
	if err != nil {
		return upi.FieldSet{}, s.fail(ctx, StageMerged, err, logger.PayloadLength(len(raw)))
	}
	return fields, nil
}

func (s *Service) build(ctx context.Context, fields upi.FieldSet) (string, error) {
	raw, err := upi.Build(fields)
	if err != nil {
		return "", s.fail(ctx, StageBuilt, err)
	}
	return raw, nil
}

func (s *Service) encode(ctx context.Context, raw string, opts qrcode.Options) ([]byte, error) {
	img, err := s.encoder.Encode(raw, opts)
	if err != nil {
		return nil, s.fail(ctx, StageEncoded, err, logger.PayloadLength(len(raw)))
	}
	return img, nil
}

func (s *Service) fail(ctx context.Context, stage Stage, err error, attrs ...slog.Attr) error {
	args := []any{logger.Stage(stage.String()), logger.Error(err)}
	for _, a := range attrs {
		args = append(args, a)
	}
	s.logger.InfoContext(ctx, "pipeline failed", args...)
	return &StageError{Stage: stage, Err: err}
}

func (s *Service) done(ctx context.Context, action string, start time.Time, payload int) {
	s.logger.DebugContext(ctx, "pipeline finished",
		logger.Action(action),
		logger.Result("success"),
		logger.PayloadLength(payload),
		logger.Elapsed(start),
	)
}

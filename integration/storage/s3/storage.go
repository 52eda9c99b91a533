package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/upiqr/core/storage"
)

var _ storage.Store = (*Store)(nil)

// metaExpiresAt holds the RFC 3339 expiry written by Put. Bucket lifecycle
// rules do the actual deletion; Get hides objects past this time.
const metaExpiresAt = "expires-at"

// S3Client is the subset of the SDK client used by Store.
type S3Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3aws.HeadBucketInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadBucketOutput, error)
}

// Store implements storage.Store on an S3 bucket.
type Store struct {
	client        S3Client
	bucket        string
	prefix        string
	ttl           time.Duration
	uploadTimeout time.Duration
	now           func() time.Time
}

type Option func(*options)

type options struct {
	client     S3Client
	httpClient *http.Client
	ttl        time.Duration
	now        func() time.Time
}

// WithS3Client sets a pre-configured client. Tests pass a mock here.
func WithS3Client(client S3Client) Option {
	return func(o *options) { o.client = client }
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithTTL sets how long Get serves an object after Put.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds a Store. Without WithS3Client it loads the default AWS config,
// using static credentials when both keys are set.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("s3: load AWS config: %w", err)
		}
		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
		ttl:           o.ttl,
		uploadTimeout: cfg.UploadTimeout,
		now:           o.now,
	}, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if len(data) == 0 {
		return storage.ErrEmptyData
	}

	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	in := &s3aws.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.prefix + key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if s.ttl > 0 {
		in.Metadata = map[string]string{metaExpiresAt: s.now().Add(s.ttl).UTC().Format(time.RFC3339)}
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return classifyS3Error(err, "put")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (storage.Object, error) {
	if err := storage.ValidateKey(key); err != nil {
		return storage.Object{}, err
	}

	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return storage.Object{}, classifyS3Error(err, "get")
	}
	defer out.Body.Close()

	if exp, ok := out.Metadata[metaExpiresAt]; ok {
		if t, err := time.Parse(time.RFC3339, exp); err == nil && !s.now().Before(t) {
			return storage.Object{}, storage.ErrNotFound
		}
	}

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return storage.Object{}, classifyS3Error(err, "read")
	}
	return storage.Object{Key: key, ContentType: aws.ToString(out.ContentType), Data: data}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	return classifyS3Error(err, "delete")
}

// Healthcheck verifies the bucket exists and is reachable.
func (s *Store) Healthcheck(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3aws.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return classifyS3Error(err, "head bucket")
}

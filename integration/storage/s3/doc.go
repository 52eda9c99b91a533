// Package s3 stores generated images in Amazon S3 or an S3-compatible
// service.
//
//	var cfg s3.Config
//	config.MustLoad(&cfg)
//
//	store, err := s3.New(ctx, cfg, s3.WithTTL(time.Hour))
//	if err != nil {
//		return err
//	}
//
// Keys are written under Config.Prefix. With a TTL, Put records the expiry
// in object metadata and Get reports storage.ErrNotFound once it has passed;
// configure a bucket lifecycle rule to delete the objects themselves.
//
// SDK errors are classified: missing keys become storage.ErrNotFound, and
// access, throttling and cancellation map to the errors in this package.
package s3

// Package storage keeps generated QR images for later download.
//
// Store is implemented by MemoryStore in this package, by the Redis store in
// integration/database/redis and by the S3 store in integration/storage/s3.
// Objects are addressed by flat keys such as "qr_<uuid>.png"; NewKey
// produces them and ValidateKey rejects anything that could escape the
// namespace.
//
//	store := storage.NewMemoryStore(storage.WithTTL(time.Hour))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(store.Run(ctx)) // expires old objects
//
//	key := storage.NewKey("qr", ".png")
//	if err := store.Put(ctx, key, png, "image/png"); err != nil {
//		return err
//	}
//	obj, err := store.Get(ctx, key)
//	if errors.Is(err, storage.ErrNotFound) {
//		// expired or never stored
//	}
package storage

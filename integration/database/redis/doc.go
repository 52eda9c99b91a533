// Package redis connects to Redis and stores generated images in it.
//
// Connect validates the URL (redis:// or rediss://), then pings with
// exponential backoff until the server answers or the attempts run out:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := redis.NewStore(client, cfg.KeyPrefix, time.Hour)
//
// Store implements storage.Store. Each object is a hash holding the bytes
// and the content type, written in one MULTI/EXEC together with its EXPIRE.
//
// Healthcheck returns a ping function for the /health endpoint. Errors wrap
// ErrEmptyConnectionURL, ErrFailedToParseRedisConnString, ErrRedisNotReady
// or ErrHealthcheckFailed and can be matched with errors.Is.
package redis

// Package server wraps http.Server with graceful shutdown and env-driven
// configuration.
//
// Config is loaded with core/config and turned into a Server by
// NewFromConfig. Run returns a function suited to errgroup.Group.Go:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// HTTPS is served when SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are
// both set, or when WithTLS is passed.
package server

// Package logger builds slog loggers and provides attribute helpers so that
// every component logs the same keys.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "upiqr"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("qr generated",
//		logger.Component("pipeline"),
//		logger.PayloadLength(len(raw)),
//		logger.Duration(time.Since(start)),
//	)
//
// Development loggers write text at debug level; staging and production
// loggers write JSON at info level.
//
// # Context Extractors
//
// Request-scoped values are added to every *Context call:
//
//	log := logger.New(
//		logger.WithProduction("upiqr"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := middleware.RequestIDFromContext(ctx)
//			return logger.RequestID(id), ok
//		}),
//	)
//
// # Attribute Helpers
//
// Helpers return the empty slog.Attr for nil or empty input, which slog
// drops, so calls like log.Info("msg", logger.Error(err)) need no nil check.
package logger

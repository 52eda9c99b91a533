package cli

import (
	"time"

	"github.com/dmitrymomot/upiqr/core/server"
	"github.com/dmitrymomot/upiqr/integration/database/redis"
	"github.com/dmitrymomot/upiqr/integration/storage/s3"
	"github.com/dmitrymomot/upiqr/pkg/qrcode"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	driverMemory = "memory"
	driverRedis  = "redis"
	driverS3     = "s3"
)

// Config is the environment of the serve command.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"upiqr"`
	LogLevel    string `env:"LOG_LEVEL"`
	LogFormat   string `env:"LOG_FORMAT"`

	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"16777216"`
	StrictDecoding bool  `env:"QR_STRICT_DECODING" envDefault:"false"`

	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"memory"`
	StorageTTL     time.Duration `env:"STORAGE_TTL" envDefault:"1h"`
	StorageCleanup time.Duration `env:"STORAGE_CLEANUP_INTERVAL" envDefault:"5m"`

	QR     qrcode.Options
	Server server.Config
	Redis  redis.Config
	S3     s3.Config
}

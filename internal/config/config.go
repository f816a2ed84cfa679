package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/common"
	"github.com/gaze-network/ordinals-indexer/internal/postgres"
	"github.com/gaze-network/ordinals-indexer/pkg/logger"
	"github.com/gaze-network/ordinals-indexer/pkg/logger/slogx"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Network: common.NetworkMainnet,
		HTTPServer: HTTPServerConfig{
			Port:   8080,
			Logger: true,
		},
	}
)

type Config struct {
	Logger        logger.Config    `mapstructure:"logger"`
	Network       common.Network   `mapstructure:"network"`
	HTTPServer    HTTPServerConfig `mapstructure:"http_server"`
	EnableModules []string         `mapstructure:"enable_modules"`
	APIOnly       bool             `mapstructure:"api_only"`
	Modules       Modules          `mapstructure:"modules"`
}

type HTTPServerConfig struct {
	Port   int  `mapstructure:"port"`
	Logger bool `mapstructure:"logger"`
}

type Modules struct {
	Ordinals OrdinalsConfig `mapstructure:"ordinals"`
}

type OrdinalsConfig struct {
	// Database is the database backend used for ordinals state. Only "postgres" is supported.
	Database string `mapstructure:"database"`

	// APIHandlers lists the API surfaces served for this module. Only "http" is supported.
	APIHandlers []string `mapstructure:"api_handlers"`

	Postgres postgres.Config `mapstructure:"postgres"`

	// Gateway tunes the block delivery queue in front of the processor.
	Gateway GatewayConfig `mapstructure:"gateway"`
}

type GatewayConfig struct {
	// QueueSize is the maximum number of pending block batches before
	// the gateway starts rejecting submissions.
	QueueSize int `mapstructure:"queue_size"`
}

// Load loads the configuration from a config file and environment variables.
// Subsequent calls return the first loaded value.
func Load() Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
		logger.InfoContext(ctx, "loaded config successfully")
	})

	return *config
}

// SetConfigFile overrides the config file location. Must be called before Load.
func SetConfigFile(path string) {
	viper.SetConfigFile(path)
}

// BindPFlag binds a command-line flag to a config key. Must be called before Load.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to config key", slogx.String("key", key), slogx.Error(err))
	}
}

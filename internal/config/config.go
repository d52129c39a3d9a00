package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_DSN"`
	RedisURL    string `env:"REDIS_URL"`
	RabbitMQURL string `env:"RABBITMQ_URL"`

	SFTPHost       string `env:"ASP_SFTP_HOST"`
	SFTPPort       int    `env:"ASP_SFTP_PORT,default=22"`
	SFTPUser       string `env:"ASP_SFTP_USER"`
	SFTPPassword   string `env:"ASP_SFTP_PASSWORD"`
	SFTPKeyPath    string `env:"ASP_SFTP_KEY_PATH"`
	SFTPRemoteDir  string `env:"ASP_SFTP_REMOTE_DIR"`
	UploadChunkSize int   `env:"UPLOAD_CHUNK_SIZE,default=700"`

	IntakeConcurrency int    `env:"INTAKE_CONCURRENCY,default=4"`
	MetricsPort       int    `env:"METRICS_PORT,default=9190"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
}

// requiredVars are validated explicitly so a missing value fails fast,
// before any connection attempt, with an operator-readable message.
var requiredVars = []string{
	"DATABASE_DSN",
	"ASP_SFTP_HOST",
	"ASP_SFTP_USER",
	"ASP_SFTP_REMOTE_DIR",
}

func Load() (*Config, error) {
	for _, name := range requiredVars {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			return nil, fmt.Errorf("Your environment is missing %s to run this command.", name)
		}
	}

	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SFTPPassword == "" && cfg.SFTPKeyPath == "" {
		return nil, fmt.Errorf("Your environment is missing ASP_SFTP_PASSWORD to run this command.")
	}

	return &cfg, nil
}

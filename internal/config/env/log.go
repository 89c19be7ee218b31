package env

import (
	"clusterpay_backend/internal/config"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
)

const (
	logLevelEnvName = "LOG_LEVEL"
	defaultLogLevel = "info"
)

type logConfig struct {
	level string
}

func NewLogConfig() (config.LogConfig, error) {
	level := os.Getenv(logLevelEnvName)
	if len(level) == 0 {
		level = defaultLogLevel
	}
	if _, err := zapcore.ParseLevel(level); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return &logConfig{level: level}, nil
}

func (cfg *logConfig) Level() string {
	return cfg.level
}

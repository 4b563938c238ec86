package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Production encoding is used unless the
// app runs in development mode.
func NewLogger(env string) (*zap.Logger, error) {
	if env == EnvDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"os"
	"time"
)

type LogConfig struct {
	Level zapcore.Level `default:"info"`
}

type PredictorConfig struct {
	// Zero leaves the request without a client-side deadline.
	Timeout time.Duration `default:"0s"`
}

// OTELConfig points at an OTLP/gRPC collector. Tracing is off while Host is empty.
type OTELConfig struct {
	Host string
	Port string `default:"4317"`
}

func (c OTELConfig) Enabled() bool {
	return c.Host != ""
}

type Config struct {
	Log       LogConfig       `envconfig:"LOG"`
	Predictor PredictorConfig `envconfig:"PREDICTOR"`
	OTEL      OTELConfig      `envconfig:"OTEL"`
}

func New(envFiles ...string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "can't stat %s", f)
		}
		existing = append(existing, f)
	}

	if len(existing) != 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, errors.Wrap(err, "error while load from .env file")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "error while transfer env to config")
	}

	return &cfg, nil
}

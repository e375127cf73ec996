package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from cfg.
func NewLogger(cfg LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", cfg.Format)
	}
	return log, nil
}

package logging

import (
	"io"
	"os"
	"strings"

	"wallet_ledger/internal/config"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger from the logging settings in cfg
func New(cfg *config.Config) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New writing to out
func NewWithOutput(cfg *config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(parseLevel(cfg.LogLevel))
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

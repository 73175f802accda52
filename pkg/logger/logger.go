package logger

import (
	"io"
	"os"
	"strings"

	"clinic-management-api/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New configures the standard logrus logger from config and returns it.
// Output always goes to stdout; when LOG_FILE_PATH is set it is also written
// to a size-rotated file.
func New(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(ParseLevel(cfg.Level))
	log.SetOutput(Writer(cfg))
	return log
}

// Writer builds the fan-out writer used by the logger.
func Writer(cfg config.LogConfig) io.Writer {
	writers := []io.Writer{os.Stdout}

	if cfg.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}

	if len(writers) == 1 {
		return writers[0]
	}
	return io.MultiWriter(writers...)
}

func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

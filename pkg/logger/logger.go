package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide log instance. Defaults to a console logger at
// info level until Init is called.
var Logger = logrus.New()

// Config controls log output.
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // optional; empty means console only
	MaxSize    int    // max size of a log file in MB before rotation
	MaxBackups int    // rotated files to keep
	MaxAge     int    // days to keep rotated files
	Compress   bool
}

// Init configures the global logger. Call once at startup.
func Init(cfg Config) error {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if cfg.OutputFile == "" {
		Logger.SetOutput(os.Stdout)
		return nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.OutputFile,
		MaxSize:    orDefault(cfg.MaxSize, 100),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAge, 14),
		Compress:   cfg.Compress,
	}
	Logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WithField mirrors logrus.WithField on the shared instance.
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }

func Infof(format string, args ...interface{}) { Logger.Infof(format, args...) }

func Warnf(format string, args ...interface{}) { Logger.Warnf(format, args...) }

func Errorf(format string, args ...interface{}) { Logger.Errorf(format, args...) }

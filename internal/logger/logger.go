package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init installs a JSON slog handler as the default logger. Output goes to stdout and,
// when File is set, to a size-rotated log file.
func Init(opts Options) *slog.Logger {
	writers := []io.Writer{os.Stdout}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 100),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 30),
			LocalTime:  true,
		})
	}

	l := New(io.MultiWriter(writers...), opts.Level)
	slog.SetDefault(l)
	l.Info("logger initialized", "level", opts.Level, "file", opts.File)
	return l
}

func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Gorm adapts l for gorm's SQL logging. Statements are logged at debug level only.
func Gorm(l *slog.Logger, level string) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	if ParseLevel(level) == slog.LevelDebug {
		gormLevel = gormlogger.Info
	}
	return gormlogger.New(
		slog.NewLogLogger(l.Handler(), slog.LevelDebug),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

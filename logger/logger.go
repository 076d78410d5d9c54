package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultDir        = "logs"
	defaultFilename   = "service.log"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 7
	defaultMaxAgeDays = 30
)

// Options controls where release-mode logs are written.
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	mu       sync.RWMutex
	current  *zap.Logger
	fallback = sync.OnceValue(func() *zap.Logger {
		return zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.AddSync(os.Stdout),
			zap.NewAtomicLevelAt(zap.InfoLevel),
		), zap.AddCaller())
	})
)

// Init builds the process logger for the given mode ("debug" or "release"),
// tags it with the service name and installs it as zap's global logger.
func Init(service, mode string, options Options) *zap.Logger {
	l := New(mode, options).With(zap.String("service", service))

	mu.Lock()
	current = l
	mu.Unlock()

	zap.ReplaceGlobals(l)
	return l
}

// New creates a logger without installing it. Debug mode writes colored
// console output to stdout; anything else writes JSON to a rotated file and
// falls back to stdout when the file cannot be opened.
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if debug {
		cfg := encoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stdout), level)
		return zap.New(core, zap.AddCaller())
	}

	sink, err := fileSink(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: file output unavailable, using stdout: %v\n", err)
		sink = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), sink, level)
	return zap.New(core, zap.AddCaller())
}

// Z returns the installed logger, or a stdout logger before Init runs.
func Z() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if current != nil {
		return current
	}
	return fallback()
}

// S returns the sugared form of Z.
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

func Debugw(message string, kv ...interface{}) {
	S().Debugw(message, kv...)
}

func Infow(message string, kv ...interface{}) {
	S().Infow(message, kv...)
}

func Warnw(message string, kv ...interface{}) {
	S().Warnw(message, kv...)
}

func Errorw(message string, kv ...interface{}) {
	S().Errorw(message, kv...)
}

// Sync flushes buffered entries; call it on shutdown.
func Sync() {
	_ = Z().Sync()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func fileSink(options Options) (zapcore.WriteSyncer, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	filename := strings.TrimSpace(options.Filename)
	if filename == "" {
		filename = defaultFilename
	}
	path := filepath.Join(dir, filename)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close log file: %w", err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(options.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: positiveOr(options.MaxBackups, defaultMaxBackups),
		MaxAge:     positiveOr(options.MaxAgeDays, defaultMaxAgeDays),
		Compress:   options.Compress,
	}), nil
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

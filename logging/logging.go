// Package logging defines the Logger interface used throughout allocplot.
// It also includes functions for setting the global log level and a per-package log level.
package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel      = zapcore.InfoLevel
	packageLevels = make(map[string]zapcore.Level)
	mut           sync.RWMutex
)

// ParseLevel converts a level name into a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel, nil
	case "info", "":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	case "fatal":
		return zap.FatalLevel, nil
	default:
		return 0, fmt.Errorf("invalid log level '%s'", level)
	}
}

// SetLogLevel sets the global log level.
func SetLogLevel(levelStr string) error {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	mut.Lock()
	logLevel = level
	mut.Unlock()
	return nil
}

// SetPackageLogLevel sets a log level for a package, overriding the global level.
func SetPackageLogLevel(packageName, levelStr string) error {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	mut.Lock()
	packageLevels[packageName] = level
	mut.Unlock()
	return nil
}

// Logger is the logging interface used by allocplot. It is based on zap.SugaredLogger.
type Logger interface {
	Debug(args ...any)
	Debugf(template string, args ...any)
	Info(args ...any)
	Infof(template string, args ...any)
	Warn(args ...any)
	Warnf(template string, args ...any)
	Error(args ...any)
	Errorf(template string, args ...any)
	Fatal(args ...any)
	Fatalf(template string, args ...any)
}

type wrapper struct {
	inner *zap.SugaredLogger
	level zap.AtomicLevel
	mut   sync.Mutex
}

// updateLevel picks the level for the calling package. Must be called with wr.mut held.
func (wr *wrapper) updateLevel() {
	mut.RLock()
	defer mut.RUnlock()

	if len(packageLevels) < 1 {
		wr.level.SetLevel(logLevel)
		return
	}

	// 0: updateLevel, 1: acquire, 2: Logger method, 3: caller
	if _, file, _, ok := runtime.Caller(3); ok {
		for pkg, level := range packageLevels {
			if strings.Contains(file, pkg) {
				wr.level.SetLevel(level)
				return
			}
		}
	}

	wr.level.SetLevel(logLevel)
}

func (wr *wrapper) acquire() (release func()) {
	wr.mut.Lock()
	wr.updateLevel()
	return wr.mut.Unlock
}

func (wr *wrapper) Debug(args ...any) {
	defer wr.acquire()()
	wr.inner.Debug(args...)
}

func (wr *wrapper) Debugf(template string, args ...any) {
	defer wr.acquire()()
	wr.inner.Debugf(template, args...)
}

func (wr *wrapper) Info(args ...any) {
	defer wr.acquire()()
	wr.inner.Info(args...)
}

func (wr *wrapper) Infof(template string, args ...any) {
	defer wr.acquire()()
	wr.inner.Infof(template, args...)
}

func (wr *wrapper) Warn(args ...any) {
	defer wr.acquire()()
	wr.inner.Warn(args...)
}

func (wr *wrapper) Warnf(template string, args ...any) {
	defer wr.acquire()()
	wr.inner.Warnf(template, args...)
}

func (wr *wrapper) Error(args ...any) {
	defer wr.acquire()()
	wr.inner.Error(args...)
}

func (wr *wrapper) Errorf(template string, args ...any) {
	defer wr.acquire()()
	wr.inner.Errorf(template, args...)
}

func (wr *wrapper) Fatal(args ...any) {
	defer wr.acquire()()
	wr.inner.Fatal(args...)
}

func (wr *wrapper) Fatalf(template string, args ...any) {
	defer wr.acquire()()
	wr.inner.Fatalf(template, args...)
}

// New returns a new logger for stderr with the given name.
func New(name string) Logger {
	var config zap.Config
	if strings.ToLower(os.Getenv("ALLOCPLOT_LOG_TYPE")) == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.DisableStacktrace = true
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	mut.RLock()
	config.Level.SetLevel(logLevel)
	mut.RUnlock()
	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return &wrapper{inner: l.Sugar().Named(name), level: config.Level}
}

// NewWithDest returns a new logger for the given destination with the given name.
func NewWithDest(dest io.Writer, name string) Logger {
	mut.RLock()
	atom := zap.NewAtomicLevelAt(logLevel)
	mut.RUnlock()
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(dest), atom)
	l := zap.New(core, zap.AddCallerSkip(1))
	return &wrapper{inner: l.Sugar().Named(name), level: atom}
}

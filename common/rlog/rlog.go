package rlog

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerLock sync.RWMutex
	logger     *zap.Logger
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	logger = newLogger(false)
}

func newLogger(development bool) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var enc zapcore.Encoder
	if development {
		enc = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		enc = zapcore.NewJSONEncoder(encoderConfig)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Configure replaces the process logger
func Configure(development bool, lvl string) error {
	if lvl != "" {
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			return err
		}
	}
	loggerLock.Lock()
	defer loggerLock.Unlock()
	logger = newLogger(development)
	return nil
}

// SetLogger replaces the process logger, used by tests to silence or capture output
func SetLogger(l *zap.Logger) {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	logger = l
}

// L returns the process logger
func L() *zap.Logger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	return logger
}

// Named returns a child logger for the component
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Println calls l.Output to print to the logger.
func Println(v ...interface{}) {
	L().WithOptions(zap.AddCallerSkip(1)).Sugar().Info(v...)
}

// Fatal logs the values and exits the process
func Fatal(v ...interface{}) {
	L().WithOptions(zap.AddCallerSkip(1)).Sugar().Fatal(v...)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = L().Sync()
}

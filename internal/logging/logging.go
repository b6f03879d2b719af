package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the CLI-wide structured logger.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger on stderr. Verbose enables debug output
// with caller information.
func NewLogger(verbose bool) *Logger {
	return newLogger(verbose, zapcore.Lock(os.Stderr), isatty.IsTerminal(os.Stderr.Fd()))
}

func newLogger(verbose bool, sink zapcore.WriteSyncer, color bool) *Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	if color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
		encoderCfg.TimeKey = "T"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), sink, level)

	opts := []zap.Option{}
	if verbose {
		opts = append(opts, zap.AddCaller())
	}
	return &Logger{SugaredLogger: zap.New(core, opts...).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Sugared returns the underlying logger for packages that take zap directly.
func (l *Logger) Sugared() *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l.SugaredLogger
}

// Package logging builds the zap logger shared by the ptags command and
// its packages.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Verbose enables Info-level output, which includes every tool
	// invocation. Without it only warnings and errors are printed.
	Verbose bool
	// Debug lowers the level further to Debug.
	Debug bool
	// JSON selects the JSON encoder instead of the console encoder.
	JSON bool
	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer
}

// Level returns the minimum enabled level for o.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Debug:
		return zapcore.DebugLevel
	case o.Verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// New creates a logger. Output never goes to stdout, which may carry the
// tag stream.
func New(o Options) *zap.Logger {
	w := o.Writer
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if o.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(o.Level()))
	return zap.New(core)
}

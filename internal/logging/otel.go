package logging

import (
	"fmt"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// buildCore assembles the logger core from the configured outputs: a
// redacting stdout core, an optional otelzap bridge core, and sampling on
// top of whatever remains.
func buildCore(cfg *Config, otelProvider log.LoggerProvider) (zapcore.Core, error) {
	var cores []zapcore.Core

	if cfg.Output.Stdout {
		stdout, err := newStdoutCore(cfg)
		if err != nil {
			return nil, err
		}
		cores = append(cores, stdout)
	}

	if cfg.Output.OTEL && otelProvider != nil {
		cores = append(cores, otelzap.NewCore("embedd",
			otelzap.WithLoggerProvider(otelProvider)))
	}

	switch len(cores) {
	case 0:
		return nil, fmt.Errorf("no log output available (stdout disabled, otel provider missing)")
	case 1:
		return newSampledCore(cores[0], cfg.Sampling), nil
	default:
		return newSampledCore(zapcore.NewTee(cores...), cfg.Sampling), nil
	}
}

// newStdoutCore writes redacted JSON or console lines to stdout.
func newStdoutCore(cfg *Config) (zapcore.Core, error) {
	enc, err := NewRedactingEncoder(newEncoder(cfg.Format), cfg.Redaction)
	if err != nil {
		return nil, fmt.Errorf("building redacting encoder: %w", err)
	}
	return zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level), nil
}

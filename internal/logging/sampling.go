package logging

import "go.uber.org/zap/zapcore"

// newSampledCore applies volume sampling to everything below Error. Errors
// carry the signal sampling exists to protect, so they always pass.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	sampled := zapcore.NewSamplerWithOptions(
		levelBand(core, 0, zapcore.WarnLevel),
		cfg.Tick.Duration(),
		cfg.Initial,
		cfg.Thereafter,
	)

	return zapcore.NewTee(levelBand(core, zapcore.ErrorLevel, 0), sampled)
}

// bandCore restricts a core to a level range. A zero bound is treated as
// unbounded on that side; the only bounds used here are Warn and Error.
type bandCore struct {
	zapcore.Core
	min zapcore.Level
	max zapcore.Level
}

func levelBand(core zapcore.Core, min, max zapcore.Level) zapcore.Core {
	return &bandCore{Core: core, min: min, max: max}
}

func (c *bandCore) Enabled(lvl zapcore.Level) bool {
	if c.min != 0 && lvl < c.min {
		return false
	}
	if c.max != 0 && lvl > c.max {
		return false
	}
	return c.Core.Enabled(lvl)
}

func (c *bandCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *bandCore) With(fields []zapcore.Field) zapcore.Core {
	return &bandCore{Core: c.Core.With(fields), min: c.min, max: c.max}
}

package logging

import "go.uber.org/zap/zapcore"

// TraceLevel sits one step below zap's Debug. It carries wire-level detail
// (request payloads, token matrices) that would drown debug output.
const TraceLevel = zapcore.DebugLevel - 1

// LevelFromString parses a level name, accepting "trace" in addition to the
// names zapcore understands.
func LevelFromString(name string) (zapcore.Level, error) {
	if name == "trace" {
		return TraceLevel, nil
	}

	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(name))
	if err != nil {
		return zapcore.InfoLevel, err
	}
	return lvl, nil
}

package logging

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/embedd/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	redactedPlaceholder = "[REDACTED]"
	patternPlaceholder  = "[REDACTED:pattern]"
)

// Secret creates a zap field for a config.Secret that logs only the value's
// length.
func Secret(key string, val config.Secret) zap.Field {
	return zap.Object(key, secretField{key: key, length: len(val.Value())})
}

// RedactedString creates a zap field that logs only the value's length.
func RedactedString(key, val string) zap.Field {
	return zap.String(key, fmt.Sprintf("[REDACTED:%d]", len(val)))
}

type secretField struct {
	key    string
	length int
}

func (s secretField) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString(s.key, fmt.Sprintf("[REDACTED:%d]", s.length))
	return nil
}

// RedactingEncoder replaces values of sensitive field names, and string
// values matching configured patterns, before they reach the output.
type RedactingEncoder struct {
	zapcore.Encoder
	keys     map[string]struct{}
	patterns []*regexp.Regexp
}

// NewRedactingEncoder wraps base with the given redaction rules. Patterns
// that fail to compile, or exceed 200 characters, are rejected.
func NewRedactingEncoder(base zapcore.Encoder, cfg RedactionConfig) (*RedactingEncoder, error) {
	enc := &RedactingEncoder{Encoder: base}
	if !cfg.Enabled {
		return enc, nil
	}

	enc.keys = make(map[string]struct{}, len(cfg.Fields))
	for _, f := range cfg.Fields {
		enc.keys[strings.ToLower(f)] = struct{}{}
	}

	for _, p := range cfg.Patterns {
		if len(p) > 200 {
			return nil, fmt.Errorf("redaction pattern too long (max 200 chars): %q", p)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		enc.patterns = append(enc.patterns, re)
	}

	return enc, nil
}

func (e *RedactingEncoder) sensitiveKey(key string) bool {
	_, ok := e.keys[strings.ToLower(key)]
	return ok
}

// AddString is the only override that also applies pattern matching, since
// secrets leak through free-form string values.
func (e *RedactingEncoder) AddString(key, val string) {
	if e.sensitiveKey(key) {
		e.Encoder.AddString(key, redactedPlaceholder)
		return
	}
	for _, re := range e.patterns {
		if re.MatchString(val) {
			e.Encoder.AddString(key, patternPlaceholder)
			return
		}
	}
	e.Encoder.AddString(key, val)
}

func (e *RedactingEncoder) AddByteString(key string, val []byte) {
	if e.sensitiveKey(key) {
		val = []byte(redactedPlaceholder)
	}
	e.Encoder.AddByteString(key, val)
}

func (e *RedactingEncoder) AddBinary(key string, val []byte) {
	if e.sensitiveKey(key) {
		val = []byte(redactedPlaceholder)
	}
	e.Encoder.AddBinary(key, val)
}

// AddReflected replaces the whole value when the key is sensitive; no deep
// inspection of nested structures is attempted.
func (e *RedactingEncoder) AddReflected(key string, val interface{}) error {
	if e.sensitiveKey(key) {
		e.Encoder.AddString(key, redactedPlaceholder)
		return nil
	}
	return e.Encoder.AddReflected(key, val)
}

func (e *RedactingEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	if e.sensitiveKey(key) {
		e.Encoder.AddString(key, redactedPlaceholder)
		return nil
	}
	return e.Encoder.AddArray(key, arr)
}

func (e *RedactingEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	if e.sensitiveKey(key) {
		e.Encoder.AddString(key, redactedPlaceholder)
		return nil
	}
	return e.Encoder.AddObject(key, obj)
}

func (e *RedactingEncoder) Clone() zapcore.Encoder {
	return &RedactingEncoder{
		Encoder:  e.Encoder.Clone(),
		keys:     e.keys,
		patterns: e.patterns,
	}
}

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger is the structured logger passed to evaluation, calibration and the
// metrics server.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	// Error logs msg with the error that caused it. A nil err is omitted.
	Error(msg string, err error, fields ...Field)
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err stores err under the "error" key.
func Err(err error) Field { return Field{Key: zerolog.ErrorFieldName, Value: err} }

// ZerologAdapter implements Logger with zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger returns a logger tagging every entry with component. Entries are
// JSON lines, except on a terminal where they go through zerolog's
// ConsoleWriter.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	if isTerminal(w) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return NewZerologAdapter(zerolog.New(w).With().Timestamp().Str("component", component).Logger())
}

// NewLevelLogger is NewLogger filtered to level: debug, info, warn, error or
// disabled. Unknown names mean info.
func NewLevelLogger(w io.Writer, component, level string) *ZerologAdapter {
	l := NewLogger(w, component)
	l.logger = l.logger.Level(ParseLevel(level))
	return l
}

// NewNopLogger discards everything.
func NewNopLogger() *ZerologAdapter {
	return NewZerologAdapter(zerolog.Nop())
}

// ParseLevel maps a level name to zerolog, case-insensitively.
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// With returns a child logger adding fields to every entry.
func (a *ZerologAdapter) With(fields ...Field) *ZerologAdapter {
	ctx := a.logger.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return NewZerologAdapter(ctx.Logger())
}

func (a *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(a.logger.Debug(), fields).Msg(msg)
}

func (a *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(a.logger.Info(), fields).Msg(msg)
}

func (a *ZerologAdapter) Warn(msg string, fields ...Field) {
	applyFields(a.logger.Warn(), fields).Msg(msg)
}

func (a *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	e := a.logger.Error()
	if err != nil {
		e = e.Err(err)
	}
	applyFields(e, fields).Msg(msg)
}

// applyFields uses zerolog's typed setters where one exists. A nil e (level
// disabled) is returned as is.
func applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	if e == nil {
		return nil
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case time.Duration:
			e = e.Dur(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	return e
}

// Package logging provides the leveled console logger used across the
// toolkit, built on zerolog. Errors go to stderr and everything else to
// stdout; an optional file sink receives every line without color.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/term"
)

// TimeFormat is the timestamp layout of text output.
const TimeFormat = "2006-01-02 15:04:05"

// successLevel is written as the level field of Success lines.
const successLevel = "success"

// Logger provides leveled, optionally colored logging with an optional file
// sink. Debug lines are emitted only when verbose.
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile for
// appending. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	color := term.Configure(cfg.ColorMode)

	o := options{
		format:  cfg.LogFormat,
		verbose: cfg.Verbose,
		color:   color,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sink := &fileSink{f: f}
		o.file = sink
		o.closer = sink
	}
	return newLogger(o), nil
}

// NewWriters returns an uncolored text logger writing to stdout and stderr.
func NewWriters(stdout, stderr io.Writer, verbose bool) *Logger {
	return newLogger(options{format: config.LogText, verbose: verbose, stdout: stdout, stderr: stderr})
}

type options struct {
	format         config.LogFormat
	verbose, color bool
	stdout, stderr io.Writer
	file           io.Writer // optional; always plain text or JSON
	closer         io.Closer
}

func newLogger(o options) *Logger {
	outLevels := []zerolog.Level{zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.NoLevel}
	errLevels := []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel}

	writers := []io.Writer{
		SpecificLevelWriter{Writer: encoder(o.format, o.stdout, o.color), Levels: outLevels},
		SpecificLevelWriter{Writer: encoder(o.format, o.stderr, o.color), Levels: errLevels},
	}
	if o.file != nil {
		writers = append(writers, encoder(o.format, o.file, false))
	}

	level := zerolog.InfoLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl, closer: o.closer}
}

// encoder wraps out in a ConsoleWriter for text output; JSON is written raw.
func encoder(format config.LogFormat, out io.Writer, color bool) io.Writer {
	if format == config.LogJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:         out,
		NoColor:     !color,
		TimeFormat:  TimeFormat,
		FormatLevel: levelFormatter(color),
	}
}

// levelFormatter renders "[INFO]"-style labels, colored when enabled.
func levelFormatter(color bool) zerolog.Formatter {
	return func(i interface{}) string {
		s, _ := i.(string)
		label := strings.ToUpper(s)
		if !color {
			return "[" + label + "]"
		}
		c := ""
		switch s {
		case zerolog.LevelDebugValue:
			c = term.Cyan
		case zerolog.LevelInfoValue:
			c = term.Blue
		case zerolog.LevelWarnValue:
			c = term.Yellow
		case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
			c = term.Red
		case successLevel:
			c = term.Green
		}
		return c + "[" + label + "]" + term.NC
	}
}

// Zerolog returns the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger { return &l.zl }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Success logs an INFO-priority line labeled SUCCESS.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.zl.GetLevel() > zerolog.InfoLevel {
		return
	}
	l.zl.Log().Str(zerolog.LevelFieldName, successLevel).Msgf(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Debug logs at DEBUG level; dropped unless the logger is verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// SpecificLevelWriter forwards only events whose level is in Levels.
type SpecificLevelWriter struct {
	io.Writer
	Levels []zerolog.Level
}

// WriteLevel implements zerolog.LevelWriter.
func (w SpecificLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	for _, l := range w.Levels {
		if l == level {
			return w.Write(p)
		}
	}
	return len(p), nil
}

// fileSink serializes writes to the log file and turns writes after Close
// into no-ops.
type fileSink struct {
	mu sync.Mutex
	f  *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return len(p), nil
	}
	return s.f.Write(p)
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

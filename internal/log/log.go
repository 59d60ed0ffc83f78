package log

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString falls back to LevelInfo for anything it does not know
func LevelFromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO", "":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE":
		return LevelNone
	default:
		return LevelInfo
	}
}

type Logger struct {
	mu     sync.Mutex
	logger *log.Logger
	level  Level
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{
		logger: log.New(out, "", log.LstdFlags),
		level:  level,
	}
}

func (l *Logger) printf(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	l.logger.Printf(level.String()+": "+format, v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.printf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.printf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.printf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.printf(LevelError, format, v...) }

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	l.logger.SetOutput(out)
	l.mu.Unlock()
}

func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

var std = New(os.Stderr, LevelInfo)

// Default returns the package logger used by the helpers below
func Default() *Logger { return std }

func Debugf(format string, v ...interface{}) { std.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { std.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { std.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { std.Errorf(format, v...) }

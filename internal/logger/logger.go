package logger

import (
	"fmt"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorRed    = "\033[31m"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var GlobalLogLevel = LogLevelInfo

type Log struct {
	level LogLevel
	err   error
}

func New() *Log {
	return &Log{
		level: GlobalLogLevel,
	}
}

func (l *Log) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Log) WithError(err error) *Log {
	return &Log{level: l.level, err: err}
}

func (l *Log) timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Log) print(color, icon, msg string) {
	if l.err != nil {
		fmt.Printf("%s[%s]%s %s %s: %v%s\n", color, l.timestamp(), ColorReset, icon, msg, l.err, ColorReset)
		return
	}
	fmt.Printf("%s[%s]%s %s %s%s\n", color, l.timestamp(), ColorReset, icon, msg, ColorReset)
}

func (l *Log) Debug(msg string) {
	if l.level > LogLevelDebug {
		return
	}
	l.print(ColorCyan, "ℹ️ ", msg)
}

func (l *Log) Info(msg string) {
	if l.level > LogLevelInfo {
		return
	}
	l.print(ColorBlue, "ℹ️ ", msg)
}

func (l *Log) Warn(msg string) {
	if l.level > LogLevelWarn {
		return
	}
	l.print(ColorYellow, "⚠️ ", msg)
}

func (l *Log) Error(msg string) {
	l.print(ColorRed, "❌", msg)
}

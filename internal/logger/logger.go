// Package logger provides the shared diagnostic logger. Log output is
// for diagnostics only; user-visible errors are rendered in the chat
// transcript, never replaced by a log line.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance.
var Logger *log.Logger

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.WarnLevel)
}

// Configure sets level and destination. The CLI flag wins over the
// CDRAFT_LOG_LEVEL environment variable.
func Configure(level, file string) error {
	if level == "" {
		level = strings.ToLower(os.Getenv("CDRAFT_LOG_LEVEL"))
	}

	var output io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		output = f
	}

	Logger = log.New(output)
	Logger.SetTimeFormat("")
	Logger.SetLevel(parseLevel(level))
	return nil
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

func Debug(msg interface{}, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }

func Info(msg interface{}, keyvals ...interface{}) { Logger.Info(msg, keyvals...) }

func Warn(msg interface{}, keyvals ...interface{}) { Logger.Warn(msg, keyvals...) }

func Error(msg interface{}, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var Logger *slog.Logger

func init() {
	var w io.Writer = os.Stderr

	// Log to a file when we can create one, stderr otherwise.
	if err := os.MkdirAll("logs", 0755); err == nil {
		logFile, err := os.OpenFile(filepath.Join("logs", "shitsetl.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			w = logFile
		}
	}

	Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

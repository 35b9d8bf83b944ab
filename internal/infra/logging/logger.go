package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New собирает slog-логгер с ротацией файла через lumberjack.
// Пишем одновременно в stdout и в logs/cnpycalc.log; если каталог
// создать не удалось — откатываемся на stderr.
func New(level string) *slog.Logger {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "cnpycalc.log"),
		MaxSize:    10, // мегабайт
		MaxBackups: 3,
		MaxAge:     28, // дней
		Compress:   true,
	}

	writer := io.MultiWriter(os.Stdout, fileLogger)

	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: lvl}))
}

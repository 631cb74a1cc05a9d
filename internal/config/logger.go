package config

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger writing to a rotating file at path.
// When echo is non-nil every record is also written there.
func NewLogger(cfg LogConfig, path string, echo io.Writer) (*slog.Logger, io.Closer) {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	var w io.Writer = file
	if echo != nil {
		w = io.MultiWriter(file, echo)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), file
}

package app

import (
	"strings"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/logger"
)

// ConfigureLogging initialises the global logger with the provided level,
// defaulting to info, and tees output to the configured rotated file sink.
func ConfigureLogging(level string, file FileSinkConfig) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	return logger.InitWithFile(level, logger.FileOptions{
		Path:       strings.TrimSpace(file.Path),
		MaxSizeMB:  file.MaxSizeMB,
		MaxBackups: file.MaxBackups,
		MaxAgeDays: file.MaxAgeDays,
		Compress:   file.Compress,
	})
}

// Package logging configures the process-wide logrus logger.
package logging

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Configure sets level and formatter on the standard logrus logger.
// Unknown levels fall back to info; format is "json" or "text".
func Configure(level, format string) {
	log.SetOutput(os.Stdout)
	log.SetLevel(ParseLevel(level))
	log.SetFormatter(formatter(format))
}

// ParseLevel maps a config string to a logrus level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func formatter(format string) log.Formatter {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return &log.TextFormatter{FullTimestamp: true}
	}
	return &log.JSONFormatter{}
}

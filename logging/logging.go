// Package logging builds the process wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options for New
type Options struct {
	// Level name, info when empty or unknown
	Level string
	// Format is json or console
	Format string
	// File additionally receives rotated JSON logs when set
	File string
	// Out defaults to stderr
	Out io.Writer
}

// New logger and a close function releasing the log file, if any
func New(opts Options) (zerolog.Logger, func() error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	closer := func() error { return nil }
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file.Close
	}

	logger := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	return logger, closer
}

// ParseLevel maps a level name to a zerolog level, info when unknown
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}

	return level
}

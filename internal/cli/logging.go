// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

// newLogger builds the CLI logger: human-readable output on stderr, plus an
// optional JSON log file. The returned closer releases the log file.
func newLogger(ro *RootOpts, stderr io.Writer) (zerolog.Logger, func() error, error) {
	level, err := logLevel(ro)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        stderr,
		TimeFormat: "15:04:05",
		NoColor:    ro.NoColor,
	}
	closer := func() error { return nil }

	if ro.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(ro.LogFile), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("could not create log directory: %w", err)
		}
		f, err := os.OpenFile(ro.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, f)
		closer = f.Close
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

func logLevel(ro *RootOpts) (zerolog.Level, error) {
	switch {
	case ro.Verbose:
		return zerolog.DebugLevel, nil
	case ro.Quiet:
		return zerolog.ErrorLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(ro.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q (expected debug, info, warn, error)", ro.LogLevel)
	}
	return lvl, nil
}

// logProgress logs pipeline milestones at debug level and forwards every
// event to next.
func logProgress(log zerolog.Logger, next dsfetch.ProgressFunc) dsfetch.ProgressFunc {
	return func(ev dsfetch.ProgressEvent) {
		switch ev.Event {
		case "resolve_start":
			log.Debug().Str("dataset", ev.Path).Msg("resolving dataset metadata")
		case "resolve_done":
			log.Debug().Str("url", ev.Message).Msg("resolved archive location")
		case "download_start":
			log.Debug().Str("file", ev.Path).Int64("bytes", ev.Total).Msg("downloading archive")
		case "download_done":
			log.Debug().Str("file", ev.Path).Int64("bytes", ev.Downloaded).Msg("download complete")
		case "extract_start":
			log.Debug().Str("file", ev.Path).Int64("members", ev.Total).Msg("extracting archive")
		case "extract_file":
			log.Debug().Str("member", ev.Path).Msg("extracted")
		case "archive_removed":
			log.Debug().Str("file", ev.Path).Msg("removed archive")
		case "index_dir":
			log.Debug().Str("dir", ev.Path).Msg("indexing")
		case "index_done":
			log.Debug().Str("dir", ev.Path).Int64("records", ev.Total).Msg("index built")
		}
		if next != nil {
			next(ev)
		}
	}
}

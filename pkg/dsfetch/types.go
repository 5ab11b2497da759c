// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import "time"

// Default values applied by Settings when a field is left empty.
const (
	DefaultDataset     = "hassnainzaidi/garbage-classification"
	DefaultOutputDir   = "data"
	DefaultArchiveName = "garbage_archive.zip"
	DefaultExtension   = ".jpg"
	DefaultChunkSize   = 1024
)

// Settings configures fetch and index behavior.
//
// All fields have defaults. The zero value downloads into "data" and indexes
// ".jpg" files:
//
//	cfg := dsfetch.Settings{
//	    OutputDir: "./data",
//	}
type Settings struct {
	// OutputDir is the directory the archive is downloaded to and extracted into.
	// It is created if missing. If empty, defaults to "data".
	OutputDir string

	// ArchiveName is the file name of the temporary archive inside OutputDir.
	// If empty, defaults to "garbage_archive.zip".
	ArchiveName string

	// Extension is the image suffix matched case-insensitively by the indexer.
	// If empty, defaults to ".jpg".
	Extension string

	// ChunkSize is the number of bytes read from the response body per write.
	// If <= 0, defaults to 1024.
	ChunkSize int

	// ProgressInterval throttles download_progress events. Zero emits one
	// event per chunk.
	ProgressInterval time.Duration

	// Endpoint is the base URL of the dataset-metadata service.
	// If empty, defaults to DefaultEndpoint.
	Endpoint string
}

// DefaultSettings returns Settings with defaults filled in.
func DefaultSettings() Settings {
	return Settings{
		OutputDir:        DefaultOutputDir,
		ArchiveName:      DefaultArchiveName,
		Extension:        DefaultExtension,
		ChunkSize:        DefaultChunkSize,
		ProgressInterval: 200 * time.Millisecond,
		Endpoint:         DefaultEndpoint,
	}
}

func (s Settings) withDefaults() Settings {
	s.OutputDir = defaultString(s.OutputDir, DefaultOutputDir)
	s.ArchiveName = defaultString(s.ArchiveName, DefaultArchiveName)
	s.Extension = defaultString(s.Extension, DefaultExtension)
	s.Endpoint = defaultString(s.Endpoint, DefaultEndpoint)
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	return s
}

// ProgressEvent represents a progress update during a pipeline run.
//
// The Event field indicates the type of event:
//   - "resolve_start": Metadata lookup for Path has begun
//   - "resolve_done": Metadata lookup finished; Message holds the content URL
//   - "download_start": Response accepted; Total is the declared content length (0 if unknown)
//   - "download_progress": Downloaded holds cumulative bytes written
//   - "download_done": Body fully written to Path
//   - "extract_start": Total is the number of archive members
//   - "extract_file": Member Path written; Downloaded counts members so far
//   - "extract_done": All members extracted
//   - "archive_removed": Temporary archive at Path deleted
//   - "index_dir": Indexer entered directory Path
//   - "index_done": Total is the number of records found
//   - "done": Pipeline complete
type ProgressEvent struct {
	// Time is when the event occurred.
	Time time.Time `json:"time"`

	// Event is the event type identifier.
	Event string `json:"event"`

	// Path is a file, member or directory path depending on Event.
	Path string `json:"path,omitempty"`

	// Total is the expected size: bytes for downloads, members for extraction.
	Total int64 `json:"total,omitempty"`

	// Downloaded is the cumulative progress toward Total.
	Downloaded int64 `json:"downloaded,omitempty"`

	// Message contains additional context.
	Message string `json:"message,omitempty"`
}

// ProgressFunc is a callback for receiving progress events.
//
// Events are delivered synchronously on the goroutine doing the I/O, so a
// slow callback slows the transfer.
type ProgressFunc func(ProgressEvent)

// emitter returns a function that stamps events and forwards them to progress.
// A nil progress discards events.
func emitter(progress ProgressFunc) func(ProgressEvent) {
	return func(ev ProgressEvent) {
		if progress == nil {
			return
		}
		if ev.Time.IsZero() {
			ev.Time = time.Now()
		}
		progress(ev)
	}
}

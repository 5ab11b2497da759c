// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"io"
	"path/filepath"
	"strings"
	"time"
)

// IsValidDatasetRef checks if ref is in "owner/slug" format.
func IsValidDatasetRef(ref string) bool {
	if ref == "" || !strings.Contains(ref, "/") {
		return false
	}
	parts := strings.Split(ref, "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// isURL reports whether ref looks like an absolute http(s) URL.
func isURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// hasExtFold reports whether name ends in ext, ignoring case.
func hasExtFold(name, ext string) bool {
	return len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}

// safeMemberPath cleans an archive member name and rejects names that are
// absolute or climb out of the extraction root.
func safeMemberPath(name string) (string, bool) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", false
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	return clean, true
}

// copyChunks copies src to dst through buf, calling onChunk with the byte
// count of every chunk written. It returns the total bytes written.
func copyChunks(dst io.Writer, src io.Reader, buf []byte, onChunk func(n int)) (int64, error) {
	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
			if onChunk != nil {
				onChunk(nw)
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// progressCounter accumulates transferred bytes and emits throttled
// download_progress events.
type progressCounter struct {
	total    int64
	done     int64
	emitted  int64
	path     string
	emit     func(ProgressEvent)
	lastEmit time.Time
	interval time.Duration
}

func newProgressCounter(total int64, path string, interval time.Duration, emit func(ProgressEvent)) *progressCounter {
	return &progressCounter{
		total:    total,
		path:     path,
		emit:     emit,
		interval: interval,
	}
}

// Add records n more bytes and emits an event if the interval has passed.
func (pc *progressCounter) Add(n int) {
	pc.done += int64(n)
	if pc.interval > 0 && time.Since(pc.lastEmit) < pc.interval {
		return
	}
	pc.flush()
}

// Finish emits a final event unless the last one already carried the full count.
func (pc *progressCounter) Finish() {
	if pc.emitted != pc.done || pc.lastEmit.IsZero() {
		pc.flush()
	}
}

func (pc *progressCounter) flush() {
	pc.emit(ProgressEvent{
		Event:      "download_progress",
		Path:       pc.path,
		Downloaded: pc.done,
		Total:      pc.total,
	})
	pc.emitted = pc.done
	pc.lastEmit = time.Now()
}

// defaultString returns s if non-empty, otherwise def.
func defaultString(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}

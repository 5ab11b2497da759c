// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func feed(h dsfetch.ProgressFunc, total int64, step int64) {
	h(dsfetch.ProgressEvent{Event: "resolve_start", Path: "owner/slug"})
	h(dsfetch.ProgressEvent{Event: "resolve_done", Path: "owner/slug", Message: "https://example.test/a.zip"})
	h(dsfetch.ProgressEvent{Event: "download_start", Path: "garbage_archive.zip", Total: total})
	for done := step; done <= total; done += step {
		h(dsfetch.ProgressEvent{Event: "download_progress", Path: "garbage_archive.zip", Total: total, Downloaded: done})
	}
	h(dsfetch.ProgressEvent{Event: "download_done", Path: "garbage_archive.zip", Total: total, Downloaded: total})
	h(dsfetch.ProgressEvent{Event: "extract_start", Path: "garbage_archive.zip", Total: 2})
	h(dsfetch.ProgressEvent{Event: "extract_file", Path: "a/1.jpg", Total: 2, Downloaded: 1})
	h(dsfetch.ProgressEvent{Event: "extract_file", Path: "b/2.jpg", Total: 2, Downloaded: 2})
	h(dsfetch.ProgressEvent{Event: "extract_done", Path: "garbage_archive.zip", Total: 2, Downloaded: 2})
	h(dsfetch.ProgressEvent{Event: "archive_removed", Path: "garbage_archive.zip"})
	h(dsfetch.ProgressEvent{Event: "index_done", Path: "data", Total: 2})
}

func TestRenderer_PlainLines(t *testing.T) {
	var buf syncBuffer
	r := newRenderer(&buf, false)
	feed(r.Handler(), 1000, 50)
	r.Close()

	out := buf.String()
	assert.False(t, r.Interactive())
	assert.Contains(t, out, "Resolving owner/slug")
	assert.Contains(t, out, "Archive: https://example.test/a.zip")
	assert.Contains(t, out, "downloading: garbage_archive.zip (1000 B)")
	assert.Contains(t, out, "extracting: garbage_archive.zip (2 files)")
	assert.Contains(t, out, "extracted: 2 files")
	assert.Contains(t, out, "removed: garbage_archive.zip")
	assert.Contains(t, out, "indexed: 2 images under data")
	assert.NotContains(t, out, "\r")

	// One line per 10% step below 100.
	assert.Equal(t, 10, strings.Count(out, "%  "))
}

func TestRenderer_UnknownSize(t *testing.T) {
	var buf syncBuffer
	r := newRenderer(&buf, false)
	h := r.Handler()
	h(dsfetch.ProgressEvent{Event: "download_start", Path: "x.zip"})
	h(dsfetch.ProgressEvent{Event: "download_progress", Path: "x.zip", Downloaded: 512})
	h(dsfetch.ProgressEvent{Event: "download_done", Path: "x.zip", Downloaded: 2048})
	r.Close()

	assert.Contains(t, buf.String(), "downloading: x.zip (size unknown)")
	assert.Contains(t, buf.String(), "done: x.zip (2.0 KiB)")
	assert.NotContains(t, buf.String(), "%")
}

func TestRenderer_Bars(t *testing.T) {
	var buf syncBuffer
	r := newRenderer(&buf, true)
	feed(r.Handler(), 4096, 1024)
	r.Close()

	out := buf.String()
	assert.Contains(t, out, "garbage_archive.zip")
	assert.Contains(t, out, "extracting")
	assert.NotContains(t, out, "downloading:")
}

func TestRenderer_CloseIsIdempotent(t *testing.T) {
	var buf syncBuffer
	r := newRenderer(&buf, true)
	r.Handler()(dsfetch.ProgressEvent{Event: "download_start", Path: "a.zip", Total: 10})
	r.Close()
	r.Close()

	before := buf.String()
	r.Handler()(dsfetch.ProgressEvent{Event: "archive_removed", Path: "a.zip"})
	assert.Equal(t, before, buf.String())
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 KiB", humanBytes(1536))
	assert.Equal(t, "3.0 MiB", humanBytes(3<<20))
}

// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// zipBytes builds an in-memory zip; names ending in "/" become directory entries.
func zipBytes(t *testing.T, files map[string]string, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if len(order) == 0 {
		for name := range files {
			order = append(order, name)
		}
	}
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if body := files[name]; body != "" {
			_, err = w.Write([]byte(body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// archiveServer serves body at /archive.zip and requires basic auth user:key.
func archiveServer(t *testing.T, body []byte, user, key string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, k, ok := r.BasicAuth()
		if !ok || u != user || k != key {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// eventLog records progress events.
type eventLog struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (l *eventLog) Handler() ProgressFunc {
	return func(ev ProgressEvent) {
		l.mu.Lock()
		l.events = append(l.events, ev)
		l.mu.Unlock()
	}
}

func (l *eventLog) Of(kind string) []ProgressEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []ProgressEvent
	for _, ev := range l.events {
		if ev.Event == kind {
			out = append(out, ev)
		}
	}
	return out
}

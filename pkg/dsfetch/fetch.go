// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// FetchResult describes a completed fetch.
type FetchResult struct {
	// ArchivePath is where the archive was written before removal.
	ArchivePath string `json:"archivePath"`

	// Bytes is the number of archive bytes downloaded.
	Bytes int64 `json:"bytes"`

	// Members is the number of archive entries extracted.
	Members int `json:"members"`
}

// Fetch downloads the archive at url into cfg.OutputDir, extracts it there and
// removes the archive file.
//
// A non-2xx response aborts before anything is written. On extraction errors
// the archive and any already-extracted files are left on disk.
func Fetch(ctx context.Context, url string, cfg Settings, creds Credentials, progress ProgressFunc) (*FetchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg = cfg.withDefaults()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	res, err := fetchTo(ctx, buildHTTPClient(), osfs.New(cfg.OutputDir), url, cfg, creds, emitter(progress))
	if res != nil {
		res.ArchivePath = filepath.Join(cfg.OutputDir, cfg.ArchiveName)
	}
	return res, err
}

// fetchTo runs the download/extract/remove sequence against fsys, which is
// rooted at the target directory.
func fetchTo(ctx context.Context, httpc *http.Client, fsys billy.Filesystem, url string, cfg Settings, creds Credentials, emit func(ProgressEvent)) (*FetchResult, error) {
	n, err := download(ctx, httpc, fsys, url, cfg, creds, emit)
	if err != nil {
		return nil, err
	}
	res := &FetchResult{ArchivePath: cfg.ArchiveName, Bytes: n}

	members, err := extractArchive(fsys, cfg.ArchiveName, emit)
	res.Members = members
	if err != nil {
		return res, err
	}

	if err := fsys.Remove(cfg.ArchiveName); err != nil {
		return res, fmt.Errorf("remove archive: %w", err)
	}
	emit(ProgressEvent{Event: "archive_removed", Path: cfg.ArchiveName})
	return res, nil
}

// download streams url into cfg.ArchiveName in cfg.ChunkSize chunks.
func download(ctx context.Context, httpc *http.Client, fsys billy.Filesystem, url string, cfg Settings, creds Credentials, emit func(ProgressEvent)) (int64, error) {
	resp, err := get(ctx, httpc, creds, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	emit(ProgressEvent{Event: "download_start", Path: cfg.ArchiveName, Total: total})

	out, err := fsys.Create(cfg.ArchiveName)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	pc := newProgressCounter(total, cfg.ArchiveName, cfg.ProgressInterval, emit)
	written, err := copyChunks(out, resp.Body, make([]byte, cfg.ChunkSize), pc.Add)
	pc.Finish()
	if err != nil {
		// net/http reports a body cut short of Content-Length as ErrUnexpectedEOF.
		if total > 0 && errors.Is(err, io.ErrUnexpectedEOF) {
			return written, fmt.Errorf("%w: got %d of %d bytes: %w", ErrIncompleteDownload, written, total, err)
		}
		return written, fmt.Errorf("download %s: %w", cfg.ArchiveName, err)
	}
	if total > 0 && written < total {
		return written, fmt.Errorf("%w: got %d of %d bytes", ErrIncompleteDownload, written, total)
	}
	if err := out.Close(); err != nil {
		return written, err
	}

	emit(ProgressEvent{Event: "download_done", Path: cfg.ArchiveName, Downloaded: written, Total: total})
	return written, nil
}

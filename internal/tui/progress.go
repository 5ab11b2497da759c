// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/bodaay/dsfetch/pkg/dsfetch"
)

// Renderer draws download and extraction progress.
//   - On an interactive terminal it shows pb bars for the archive transfer and
//     for extraction.
//   - Otherwise it prints one line per milestone and a line for every 10% of
//     the transfer.
type Renderer struct {
	w           io.Writer
	interactive bool

	mu       sync.Mutex
	start    time.Time
	download *pb.ProgressBar
	extract  *pb.ProgressBar
	lastPct  int64
	closed   bool
}

// NewRenderer returns a Renderer writing to w. Bars are used only when w is a
// terminal that supports cursor control.
func NewRenderer(w io.Writer) *Renderer {
	return newRenderer(w, isInteractive(w) && ansiOkay())
}

func newRenderer(w io.Writer, interactive bool) *Renderer {
	return &Renderer{w: w, interactive: interactive, start: time.Now(), lastPct: -1}
}

// Interactive reports whether the renderer draws bars.
func (r *Renderer) Interactive() bool { return r.interactive }

// Handler returns a ProgressFunc that feeds events to the renderer.
func (r *Renderer) Handler() dsfetch.ProgressFunc {
	return r.apply
}

// Close finishes any bar still running. It is safe to call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	finish(r.download)
	finish(r.extract)
	r.download, r.extract = nil, nil
}

func (r *Renderer) apply(ev dsfetch.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	switch ev.Event {
	case "resolve_start":
		r.printf("Resolving %s ...\n", ev.Path)
	case "resolve_done":
		r.printf("Archive: %s\n", ev.Message)
	case "download_start":
		r.lastPct = -1
		if r.interactive {
			r.download = newBar(r.w, ev.Total, ev.Path, true)
			return
		}
		if ev.Total > 0 {
			r.printf("downloading: %s (%s)\n", ev.Path, humanBytes(ev.Total))
		} else {
			r.printf("downloading: %s (size unknown)\n", ev.Path)
		}
	case "download_progress":
		if r.download != nil {
			r.download.SetCurrent(ev.Downloaded)
			return
		}
		if !r.interactive && ev.Total > 0 {
			pct := ev.Downloaded * 100 / ev.Total
			if step := pct / 10 * 10; step > r.lastPct && step < 100 {
				r.lastPct = step
				r.printf("  %3d%%  %s / %s\n", step, humanBytes(ev.Downloaded), humanBytes(ev.Total))
			}
		}
	case "download_done":
		if r.download != nil {
			r.download.SetCurrent(ev.Downloaded)
			finish(r.download)
			r.download = nil
			return
		}
		r.printf("done: %s (%s)\n", ev.Path, humanBytes(ev.Downloaded))
	case "extract_start":
		if r.interactive {
			r.extract = newBar(r.w, ev.Total, "extracting", false)
			return
		}
		r.printf("extracting: %s (%d files)\n", ev.Path, ev.Total)
	case "extract_file":
		if r.extract != nil {
			r.extract.SetCurrent(ev.Downloaded)
		}
	case "extract_done":
		if r.extract != nil {
			r.extract.SetCurrent(ev.Downloaded)
			finish(r.extract)
			r.extract = nil
			return
		}
		r.printf("extracted: %d files\n", ev.Total)
	case "archive_removed":
		r.printf("removed: %s\n", ev.Path)
	case "index_done":
		r.printf("indexed: %d images under %s in %s\n", ev.Total, ev.Path, fmtDuration(time.Since(r.start)))
	}
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func newBar(w io.Writer, total int64, prefix string, bytes bool) *pb.ProgressBar {
	bar := pb.New64(total)
	bar.SetWriter(w)
	bar.SetRefreshRate(150 * time.Millisecond)
	if bytes {
		bar.SetTemplate(pb.Full)
		bar.Set(pb.Bytes, true)
	} else {
		bar.SetTemplate(pb.Simple)
	}
	bar.Set("prefix", prefix+" ")
	return bar.Start()
}

func finish(bar *pb.ProgressBar) {
	if bar != nil && bar.IsStarted() {
		bar.Finish()
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func fmtDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Fall back to plain output when TERM=dumb.
func ansiOkay() bool {
	return strings.ToLower(os.Getenv("TERM")) != "dumb"
}

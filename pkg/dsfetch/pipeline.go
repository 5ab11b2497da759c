// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
)

// Pipeline is one resolve → fetch → index run.
type Pipeline struct {
	// Resolver maps Dataset to the archive URL. Required.
	Resolver Resolver

	// Dataset is the identifier handed to Resolver.
	Dataset string

	Settings    Settings
	Credentials Credentials
	Progress    ProgressFunc
}

// Run resolves the dataset's archive URL, fetches and extracts it into
// Settings.OutputDir, then indexes that directory.
func Run(ctx context.Context, p Pipeline) (*Index, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.Resolver == nil {
		return nil, errors.New("pipeline: nil resolver")
	}
	cfg := p.Settings.withDefaults()
	emit := emitter(p.Progress)

	emit(ProgressEvent{Event: "resolve_start", Path: p.Dataset})
	url, err := p.Resolver.Resolve(ctx, p.Dataset)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", p.Dataset, err)
	}
	emit(ProgressEvent{Event: "resolve_done", Path: p.Dataset, Message: url})

	if _, err := Fetch(ctx, url, cfg, p.Credentials, p.Progress); err != nil {
		return nil, err
	}

	idx, err := BuildIndex(osfs.New(""), cfg.OutputDir, cfg.Extension, p.Progress)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", cfg.OutputDir, err)
	}

	emit(ProgressEvent{Event: "done", Message: fmt.Sprintf("%d records across %d labels", idx.Len(), len(idx.Counts()))})
	return idx, nil
}

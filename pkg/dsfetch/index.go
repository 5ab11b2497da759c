// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Record is one indexed image: its path and the label taken from its parent directory.
type Record struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// LabelCount is the number of records carrying Label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Index is the ordered record set produced by BuildIndex.
type Index struct {
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Records)
}

// Head returns at most the first n records.
func (idx *Index) Head(n int) []Record {
	if idx == nil || n <= 0 {
		return nil
	}
	if n > len(idx.Records) {
		n = len(idx.Records)
	}
	return idx.Records[:n]
}

// Labels returns the distinct labels in ascending order.
func (idx *Index) Labels() []string {
	counts := idx.Counts()
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Label)
	}
	sort.Strings(out)
	return out
}

// Counts returns per-label frequencies, most frequent first. Ties are ordered by label.
func (idx *Index) Counts() []LabelCount {
	if idx == nil {
		return nil
	}
	m := map[string]int{}
	for _, r := range idx.Records {
		m[r.Label]++
	}
	out := make([]LabelCount, 0, len(m))
	for label, n := range m {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// BuildIndex walks root in fsys and records every file whose name ends in ext
// (case-insensitive), labelled by the name of its parent directory.
//
// Record paths are root joined with the walked names. A root that does not
// exist yields an empty index. A root that is a symlink to a directory is
// followed; links below the root are not.
func BuildIndex(fsys billy.Filesystem, root string, ext string, progress ProgressFunc) (*Index, error) {
	ext = defaultString(ext, DefaultExtension)
	emit := emitter(progress)
	idx := &Index{Records: []Record{}}

	visit := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			emit(ProgressEvent{Event: "index_dir", Path: path})
			return nil
		}
		if !info.Mode().IsRegular() || !hasExtFold(info.Name(), ext) {
			return nil
		}
		idx.Records = append(idx.Records, Record{
			Path:  path,
			Label: filepath.Base(filepath.Dir(path)),
		})
		return nil
	}

	// Stat rather than Lstat so a symlinked root is visited as a directory.
	info, err := fsys.Stat(root)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := visit(root, info, nil); err != nil {
			return nil, err
		}
		if !info.IsDir() {
			break
		}
		entries, err := fsys.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if err := util.Walk(fsys, filepath.Join(root, e.Name()), visit); err != nil {
				return nil, err
			}
		}
	}

	emit(ProgressEvent{Event: "index_done", Path: root, Total: int64(len(idx.Records))})
	return idx, nil
}

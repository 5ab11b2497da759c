// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// extractArchive opens name in fsys as a zip container and writes every member
// relative to the root of fsys. It returns the number of members extracted.
//
// Member checksums are verified by archive/zip as each member is read to EOF.
func extractArchive(fsys billy.Filesystem, name string, emit func(ProgressEvent)) (int, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := fsys.Stat(name)
	if err != nil {
		return 0, err
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		return 0, fmt.Errorf("open archive %s: %w", name, err)
	}

	total := int64(len(zr.File))
	emit(ProgressEvent{Event: "extract_start", Path: name, Total: total})

	for i, zf := range zr.File {
		if err := extractMember(fsys, zf, name); err != nil {
			return i, &ExtractError{Member: zf.Name, Err: err}
		}
		emit(ProgressEvent{Event: "extract_file", Path: zf.Name, Downloaded: int64(i + 1), Total: total})
	}

	emit(ProgressEvent{Event: "extract_done", Path: name, Downloaded: total, Total: total})
	return len(zr.File), nil
}

// extractMember writes zf into fsys. A member that would replace archive, the
// file being read, is rejected.
func extractMember(fsys billy.Filesystem, zf *zip.File, archive string) error {
	dst, ok := safeMemberPath(zf.Name)
	if !ok {
		return ErrUnsafePath
	}
	if strings.EqualFold(dst, filepath.Clean(archive)) {
		return fmt.Errorf("%w: member would overwrite the archive", ErrUnsafePath)
	}
	if zf.FileInfo().IsDir() {
		return fsys.MkdirAll(dst, 0o755)
	}
	if dir := filepath.Dir(dst); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	perm := zf.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return out.Close()
}

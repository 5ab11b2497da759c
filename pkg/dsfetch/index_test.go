// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package dsfetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fsys billy.Filesystem, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, util.WriteFile(fsys, p, []byte("x"), 0o644))
	}
}

func TestBuildIndex_TwoLabels(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, "data/recycling/img1.jpg", "data/trash/img2.jpg")

	idx, err := BuildIndex(fsys, "data", ".jpg", nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []Record{
		{Path: filepath.Join("data", "recycling", "img1.jpg"), Label: "recycling"},
		{Path: filepath.Join("data", "trash", "img2.jpg"), Label: "trash"},
	}, idx.Records)
	assert.Len(t, idx.Counts(), 2)
	assert.Equal(t, []string{"recycling", "trash"}, idx.Labels())
}

func TestBuildIndex_SkipsNonImages(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, "data/recycling/img1.jpg", "data/recycling/notes.txt", "data/recycling/img1.jpg.bak")

	idx, err := BuildIndex(fsys, "data", ".jpg", nil)
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())
	assert.Equal(t, "recycling", idx.Records[0].Label)
}

func TestBuildIndex_UppercaseExtension(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, "data/glass/A.JPG", "data/glass/b.Jpg", "data/glass/c.jpg")

	idx, err := BuildIndex(fsys, "data", ".jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
}

func TestBuildIndex_EmptyAndMissingRoot(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("empty/sub", 0o755))

	idx, err := BuildIndex(fsys, "empty", ".jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Counts())
	assert.Empty(t, idx.Labels())

	idx, err = BuildIndex(fsys, "does-not-exist", ".jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestBuildIndex_LabelIsParentDir(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys,
		"data/Garbage/paper/p1.jpg",
		"data/Garbage/paper/p2.jpg",
		"data/Garbage/metal/m1.jpg",
		"data/top.jpg",
		"data/Garbage/nested/deeper/d1.jpg",
	)

	idx, err := BuildIndex(fsys, "data", "", nil)
	require.NoError(t, err)
	require.Equal(t, 5, idx.Len())
	for _, r := range idx.Records {
		assert.Equal(t, filepath.Base(filepath.Dir(r.Path)), r.Label, r.Path)
	}
	assert.Equal(t, []LabelCount{
		{Label: "paper", Count: 2},
		{Label: "data", Count: 1},
		{Label: "deeper", Count: 1},
		{Label: "metal", Count: 1},
	}, idx.Counts())
}

func TestBuildIndex_Idempotent(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, "d/a/1.jpg", "d/a/2.jpg", "d/b/3.jpg", "d/c/readme.md")

	first, err := BuildIndex(fsys, "d", ".jpg", nil)
	require.NoError(t, err)
	second, err := BuildIndex(fsys, "d", ".jpg", nil)
	require.NoError(t, err)

	assert.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.Counts(), second.Counts())
}

func TestBuildIndex_CountMatchesFilesOnDisk(t *testing.T) {
	dir := t.TempDir()
	layout := map[string]int{"cardboard": 3, "glass": 2, "plastic": 4}
	want := 0
	for label, n := range layout {
		for i := 0; i < n; i++ {
			p := filepath.Join(dir, label, label+string(rune('a'+i))+".jpg")
			writeFiles(t, osfs.New(""), p)
			want++
		}
	}

	idx, err := BuildIndex(osfs.New(""), dir, ".jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, want, idx.Len())
	for _, c := range idx.Counts() {
		assert.Equal(t, layout[c.Label], c.Count, c.Label)
	}
}

func TestBuildIndex_FollowsSymlinkedRoot(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "real")
	fsys := osfs.New("")
	writeFiles(t, fsys, filepath.Join(target, "glass", "a.jpg"), filepath.Join(target, "paper", "b.jpg"))

	link := filepath.Join(base, "data")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	idx, err := BuildIndex(fsys, link, ".jpg", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Record{
		{Path: filepath.Join(link, "glass", "a.jpg"), Label: "glass"},
		{Path: filepath.Join(link, "paper", "b.jpg"), Label: "paper"},
	}, idx.Records)
}

func TestBuildIndex_EmitsDirectoryEvents(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, "data/a/1.jpg", "data/b/2.jpg")

	var log eventLog
	_, err := BuildIndex(fsys, "data", ".jpg", log.Handler())
	require.NoError(t, err)

	assert.Len(t, log.Of("index_dir"), 3)
	done := log.Of("index_done")
	require.Len(t, done, 1)
	assert.Equal(t, int64(2), done[0].Total)
}

func TestIndex_Head(t *testing.T) {
	idx := &Index{Records: []Record{{Path: "a"}, {Path: "b"}, {Path: "c"}}}
	assert.Len(t, idx.Head(2), 2)
	assert.Len(t, idx.Head(10), 3)
	assert.Nil(t, idx.Head(0))

	var nilIdx *Index
	assert.Equal(t, 0, nilIdx.Len())
	assert.Nil(t, nilIdx.Head(5))
}

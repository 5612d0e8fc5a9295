package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRecordPathOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	var buf bytes.Buffer
	w := newWriterTo(&buf)
	cfg := &AppConfig{BasePath: dir, MaxBytes: -1}

	require.NoError(t, w.WriteRecord(path, cfg))
	require.NoError(t, w.Flush())
	assert.Equal(t, "a.go\n", buf.String())
}

func TestWriteRecordWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a"), 0o644))

	var buf bytes.Buffer
	w := newWriterTo(&buf)
	cfg := &AppConfig{BasePath: dir, MaxBytes: -1, ReadContent: true}

	require.NoError(t, w.WriteRecord(path, cfg))
	require.NoError(t, w.Flush())
	assert.Equal(t, "=== a.go ===\n\npackage a\n\n", buf.String())
}

func TestWriteContentRecordHonorsCap(t *testing.T) {
	var buf bytes.Buffer
	w := newWriterTo(&buf)
	cfg := &AppConfig{MaxBytes: 5, ReadContent: true}

	require.NoError(t, w.WriteContentRecord("https://example.com", []byte("0123456789"), cfg))
	require.NoError(t, w.Flush())
	assert.Equal(t, "=== https://example.com ===\n\n01234\n\n", buf.String())
}

func TestDisplayPath(t *testing.T) {
	cfg := &AppConfig{BasePath: "/base"}

	assert.Equal(t, "sub/x.go", displayPath("/base/sub/x.go", cfg))
	// Outside the base: fall back to the path as given, never an error.
	assert.Equal(t, "/elsewhere/y.go", displayPath("/elsewhere/y.go", cfg))

	abs := &AppConfig{Absolute: true}
	dir := t.TempDir()
	f := filepath.Join(dir, "z.go")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	got := displayPath(f, abs)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "z.go", filepath.Base(got))
}

func TestDisplayPathAbsoluteCanonicalizes(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	target := filepath.Join(real, "f.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	cfg := &AppConfig{Absolute: true}

	// A path reached through a symlink renders as its canonical form.
	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, displayPath(filepath.Join(link, "f.txt"), cfg))

	// Unresolvable paths fall back to the path as given, never an error.
	ghost := filepath.Join(dir, "missing", "g.txt")
	assert.Equal(t, ghost, displayPath(ghost, cfg))
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, isBrokenPipe(syscall.EPIPE))
	assert.True(t, isBrokenPipe(&os.PathError{Op: "write", Path: "|1", Err: syscall.EPIPE}))
	assert.True(t, isBrokenPipe(fmt.Errorf("flush: %w", syscall.EPIPE)))
	assert.False(t, isBrokenPipe(errors.New("disk full")))
	assert.False(t, isBrokenPipe(nil))
}

func TestWriterToFileSink(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	cfg := &AppConfig{BasePath: dir, Output: out, MaxBytes: -1}
	w, err := newWriter(cfg)
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(src, cfg))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "src.txt\n", string(data))
}

func TestWriterCreateFailureIsFatal(t *testing.T) {
	cfg := &AppConfig{Output: filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")}
	_, err := newWriter(cfg)
	require.Error(t, err)
}

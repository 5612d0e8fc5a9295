package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/atotto/clipboard"
)

// outputBufferSize keeps write syscalls down on large runs.
const outputBufferSize = 64 * 1024

// Writer serializes all record output onto a single buffered sink. The lock
// never contends under the current single-producer walk, but every write
// still goes through it so the type stays safe for concurrent producers.
type Writer struct {
	mu   sync.Mutex
	buf  *bufio.Writer
	file *os.File      // non-nil when writing to a created file
	clip *bytes.Buffer // non-nil when the destination is the clipboard
}

// newWriter selects the sink from the config: a created file, an in-memory
// buffer published to the clipboard at Close, or stdout.
func newWriter(cfg *AppConfig) (*Writer, error) {
	w := &Writer{}
	switch {
	case cfg.Output != "":
		f, err := os.Create(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", cfg.Output, err)
		}
		w.file = f
		w.buf = bufio.NewWriterSize(f, outputBufferSize)
	case cfg.Clipboard:
		w.clip = &bytes.Buffer{}
		w.buf = bufio.NewWriterSize(w.clip, outputBufferSize)
	default:
		w.buf = bufio.NewWriterSize(os.Stdout, outputBufferSize)
	}
	return w, nil
}

// newWriterTo wraps an arbitrary destination. Records written through it are
// byte-identical to what newWriter would produce for the same config.
func newWriterTo(dst io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriterSize(dst, outputBufferSize)}
}

// WriteRecord emits one record for path: the display path alone, or a
// delimited header followed by the content block when content capture is on.
// Exactly one header and at most one block per call, atomically under the
// sink lock.
func (w *Writer) WriteRecord(path string, cfg *AppConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	display := displayPath(path, cfg)
	if !cfg.ReadContent {
		_, err := fmt.Fprintln(w.buf, display)
		return err
	}
	if _, err := fmt.Fprintf(w.buf, "=== %s ===\n", display); err != nil {
		return err
	}
	return streamFileContent(path, w.buf, cfg.MaxBytes)
}

// WriteContentRecord emits a record whose content is already in memory, such
// as a fetched web page rendered to Markdown. The byte ceiling still applies;
// the binary sniff does not, since the content was produced as text.
func (w *Writer) WriteContentRecord(name string, content []byte, cfg *AppConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !cfg.ReadContent {
		_, err := fmt.Fprintln(w.buf, name)
		return err
	}
	if _, err := fmt.Fprintf(w.buf, "=== %s ===\n", name); err != nil {
		return err
	}
	if cfg.MaxBytes >= 0 && int64(len(content)) > cfg.MaxBytes {
		content = content[:cfg.MaxBytes]
	}
	if _, err := w.buf.Write([]byte{'\n'}); err != nil {
		return err
	}
	if _, err := w.buf.Write(content); err != nil {
		return err
	}
	_, err := io.WriteString(w.buf, "\n\n")
	return err
}

// Flush drains the buffer to the destination.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}

// Close flushes and releases the destination. A broken pipe during the final
// flush means the consumer went away after the last record and is not an
// error. For the clipboard sink this is where the collected run is actually
// published.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil && !isBrokenPipe(err) {
		return err
	}
	if w.file != nil {
		return w.file.Close()
	}
	if w.clip != nil {
		if err := clipboard.WriteAll(w.clip.String()); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
	}
	return nil
}

// displayPath renders a path for output: canonical absolute form, or relative
// to the configured base path. Resolution failures fall back to the path as
// given; they are never fatal.
func displayPath(path string, cfg *AppConfig) string {
	if cfg.Absolute {
		abs, err := filepath.Abs(path)
		if err != nil {
			return path
		}
		// Canonical form: symlinks resolved, not just lexically absolute.
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return path
		}
		return resolved
	}
	rel, err := filepath.Rel(cfg.BasePath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// isBrokenPipe reports whether err means the downstream consumer closed its
// end of the sink, e.g. the run was piped into head.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}

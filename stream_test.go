package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// contentBytes strips the leading newline and the two-trailing-newline
// separator around a streamed content block.
func contentBytes(t *testing.T, out string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(out, "\n"), "block starts with a newline")
	require.True(t, strings.HasSuffix(out, "\n\n"), "block ends with two newlines")
	return out[1 : len(out)-2]
}

func TestStreamFileContentByteCapExactness(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 100)
	path := writeTestFile(t, "big.txt", data)

	tests := []struct {
		name     string
		maxBytes int64
		want     int
	}{
		{"cap below size", 20, 20},
		{"cap equals size", 100, 100},
		{"cap above size", 1000, 100},
		{"cap zero", 0, 0},
		{"unlimited", -1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, streamFileContent(path, &buf, tt.maxBytes))
			got := contentBytes(t, buf.String())
			assert.Len(t, got, tt.want)
			assert.Equal(t, strings.Repeat("x", tt.want), got)
		})
	}
}

func TestStreamFileContentLargerThanLookahead(t *testing.T) {
	// A file bigger than the 8K lookahead exercises the bounded tail copy.
	data := bytes.Repeat([]byte("abcd"), 5000) // 20000 bytes
	path := writeTestFile(t, "long.txt", data)

	var buf bytes.Buffer
	require.NoError(t, streamFileContent(path, &buf, -1))
	assert.Equal(t, string(data), contentBytes(t, buf.String()))

	buf.Reset()
	require.NoError(t, streamFileContent(path, &buf, lookaheadSize+100))
	assert.Len(t, contentBytes(t, buf.String()), lookaheadSize+100)
}

func TestStreamFileContentBinaryShortCircuit(t *testing.T) {
	data := append([]byte("some text"), 0)
	data = append(data, []byte("more text after the nul")...)
	path := writeTestFile(t, "bin.dat", data)

	for _, maxBytes := range []int64{-1, 0, 5, 1000} {
		var buf bytes.Buffer
		require.NoError(t, streamFileContent(path, &buf, maxBytes))
		assert.Equal(t, "\n<Binary content suppressed>\n\n", buf.String())
	}
}

func TestStreamFileContentNulBeyondLookaheadIsNotBinary(t *testing.T) {
	// Only the lookahead chunk is sniffed; a NUL past it does not suppress.
	data := bytes.Repeat([]byte("y"), lookaheadSize)
	data = append(data, 0)
	path := writeTestFile(t, "late_nul.dat", data)

	var buf bytes.Buffer
	require.NoError(t, streamFileContent(path, &buf, -1))
	assert.Len(t, contentBytes(t, buf.String()), lookaheadSize+1)
}

func TestStreamFileContentEmptyFile(t *testing.T) {
	path := writeTestFile(t, "empty.txt", nil)

	var buf bytes.Buffer
	require.NoError(t, streamFileContent(path, &buf, -1))
	assert.Equal(t, "\n<Empty File>\n\n", buf.String())
}

func TestStreamFileContentOpenFailureWritesMarker(t *testing.T) {
	var buf bytes.Buffer
	// A missing file is a per-file condition, not an error for the run.
	require.NoError(t, streamFileContent(filepath.Join(t.TempDir(), "nope.txt"), &buf, -1))
	assert.Contains(t, buf.String(), "<Error opening file: ")
	assert.True(t, strings.HasPrefix(buf.String(), "\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "\n\n"))
}

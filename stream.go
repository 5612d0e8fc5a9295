package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
)

// lookaheadSize is the initial chunk read for binary detection before
// deciding whether to stream the rest of a file.
const lookaheadSize = 8192

// streamFileContent writes one file's content block to w, honoring the byte
// ceiling. maxBytes < 0 means unlimited; 0 writes no content bytes at all.
// A file that cannot be opened gets an inline marker instead of failing the
// record. Returned errors are read or write failures on an open file; the
// caller classifies them (broken pipe vs. recoverable).
//
// Memory stays bounded whatever the file size: one lookahead buffer plus the
// reader's own buffer.
func streamFileContent(path string, w io.Writer, maxBytes int64) error {
	f, err := os.Open(path)
	if err != nil {
		_, werr := fmt.Fprintf(w, "\n<Error opening file: %v>\n\n", err)
		return werr
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	buf := make([]byte, lookaheadSize)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return err
	}

	if n == 0 {
		_, err = io.WriteString(w, "\n<Empty File>\n\n")
		return err
	}

	// A NUL byte anywhere in the lookahead marks the file as binary; none of
	// its bytes are ever emitted, whatever the ceiling says.
	if bytes.IndexByte(buf[:n], 0) >= 0 {
		_, err = io.WriteString(w, "\n<Binary content suppressed>\n\n")
		return err
	}

	limit := maxBytes
	if limit < 0 {
		limit = math.MaxInt64
	}

	// The lookahead may already exceed the ceiling; only the allowed prefix
	// of it is written.
	first := int64(n)
	if limit < first {
		first = limit
	}

	if _, err = w.Write([]byte{'\n'}); err != nil {
		return err
	}
	if _, err = w.Write(buf[:first]); err != nil {
		return err
	}

	// Stream the remainder without ever reading past the remaining
	// allowance and without buffering the whole file.
	if limit > first {
		if _, err = io.CopyN(w, reader, limit-first); err != nil && err != io.EOF {
			return err
		}
	}

	_, err = io.WriteString(w, "\n\n")
	return err
}

package main

import (
	"bytes"
	"fmt"
	"os"

	tiktoken "github.com/pkoukk/tiktoken-go"
	log "github.com/sirupsen/logrus"
)

// Tokenizer counts tokens for the run summary.
type Tokenizer interface {
	CountTokens(text string) int
}

const defaultTokenModel = "gpt-4o"

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) CountTokens(text string) int {
	if c.enc == nil {
		return 0
	}
	return len(c.enc.EncodeOrdinary(text))
}

// newTokenizer loads the encoding for the requested model, falling back to
// the default model's encoding when the name is unknown.
func newTokenizer(model string) (Tokenizer, error) {
	if model == "" {
		model = defaultTokenModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		log.Warnf("Tokenizer model %q not found, falling back to %q: %v", model, defaultTokenModel, err)
		enc, err = tiktoken.EncodingForModel(defaultTokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer encoding for %q: %w", defaultTokenModel, err)
		}
	}
	return &tiktokenCounter{enc: enc}, nil
}

// countFileTokens reads path once and counts its tokens. Unreadable, empty
// and binary files (NUL within the leading bytes, same sniff as the content
// streamer) count as zero.
func countFileTokens(path string, tk Tokenizer) int {
	content, err := os.ReadFile(path)
	if err != nil || len(content) == 0 {
		return 0
	}
	head := content
	if len(head) > lookaheadSize {
		head = head[:lookaheadSize]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return 0
	}
	return tk.CountTokens(string(content))
}

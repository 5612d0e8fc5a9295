package main

import (
	"errors"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// errStop aborts traversal without signalling a failure. It is raised when
// the downstream consumer closes the sink; the remaining walk is abandoned
// and the run still exits successfully.
var errStop = errors.New("downstream closed")

// RunStats accumulates across all inputs of one run and is reported once at
// the end.
type RunStats struct {
	FilesProcessed uint64
	TotalTokens    int64
	Elapsed        time.Duration
}

// processInput dispatches one input to the matching collector: web URL, git
// URL, local directory or single file. Failures to even access an input are
// logged and the run continues; only errStop propagates.
func processInput(input string, cfg *AppConfig, w *Writer, counter Tokenizer, stats *RunStats) error {
	switch {
	case isWebURL(input):
		return collectWeb(input, cfg, w, stats)
	case isGitURL(input):
		tempDir, err := cloneGitRepo(input, cfg.Quiet)
		if err != nil {
			log.Errorf("Error cloning git repo %s: %v", input, err)
			return nil
		}
		defer os.RemoveAll(tempDir)
		// Records from a clone display relative to the clone root.
		sub := *cfg
		sub.BasePath = tempDir
		return collectTree(tempDir, &sub, w, counter, stats)
	}

	info, err := os.Stat(input)
	if err != nil {
		log.Errorf("Error accessing path %s: %v", input, err)
		return nil
	}
	if info.IsDir() {
		return collectTree(input, cfg, w, counter, stats)
	}
	// Explicit single-file inputs still pass through the filter.
	if !shouldProcess(input, false, cfg) {
		return nil
	}
	return emitFile(input, cfg, w, counter, stats)
}

// collectTree walks one root and emits a record for every non-directory entry
// the filter accepts. The root itself is never a record. Broken pipe on a
// record converts into errStop; any other record failure is logged and the
// walk continues with the next entry.
func collectTree(root string, cfg *AppConfig, w *Writer, counter Tokenizer, stats *RunStats) error {
	walk := newWalker(root, cfg,
		func(e walkEntry) error {
			if e.depth == 0 || e.isDir {
				return nil
			}
			if !shouldProcess(e.path, false, cfg) {
				return nil
			}
			return emitFile(e.path, cfg, w, counter, stats)
		},
		func(path string, err error) {
			log.Warnf("Traversal error at %s: %v", path, err)
		})
	return walk.run()
}

// emitFile writes one accepted file as a record and updates the tallies.
// The filter has already run; this only handles output and counting.
func emitFile(path string, cfg *AppConfig, w *Writer, counter Tokenizer, stats *RunStats) error {
	if err := w.WriteRecord(path, cfg); err != nil {
		if isBrokenPipe(err) {
			return errStop
		}
		log.Errorf("Error processing %s: %v", path, err)
	}
	stats.FilesProcessed++
	if counter != nil {
		stats.TotalTokens += int64(countFileTokens(path, counter))
	}
	return nil
}

package main

import (
	"path/filepath"
	"strings"
)

// shouldProcess decides whether a candidate path becomes an output record.
// This is the hot path: the cheap extension lookup runs first, the regex
// last, short-circuiting on the first rejection. The predicate is total; it
// never errors.
func shouldProcess(path string, isDir bool, cfg *AppConfig) bool {
	// Directories carry no meaningful extension, so the extension check is
	// skipped for them entirely.
	if !isDir && cfg.Extensions != nil {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		_, found := cfg.Extensions[ext]
		// One formula covers whitelist and blacklist: reject when the
		// lookup outcome equals the inversion flag.
		if found == cfg.ExtensionInv {
			return false
		}
	}

	if cfg.Pattern != nil {
		var text string
		switch cfg.Scope {
		case ScopePath:
			text = path
		default:
			text = filepath.Base(path)
		}
		found := cfg.Pattern.MatchString(text)
		if found == cfg.PatternInv {
			return false
		}
	}

	return true
}

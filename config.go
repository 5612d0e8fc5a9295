package main

import (
	"fmt"
	"regexp"
	"strings"
)

// Scope selects which text the regex filter is tested against.
type Scope int

const (
	ScopeName Scope = iota // final path component only
	ScopePath              // full path string
)

func parseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return ScopeName, nil
	case "path":
		return ScopePath, nil
	}
	return ScopeName, fmt.Errorf("invalid scope %q (expected 'name' or 'path')", s)
}

// AppConfig is the runtime configuration, built once from the resolved flag
// values and never mutated afterwards. It is shared read-only across all
// filtering and streaming, so no locking is needed around it.
type AppConfig struct {
	// Filters
	Extensions   map[string]struct{} // nil means no extension filter
	ExtensionInv bool                // true = blacklist, false = whitelist
	Pattern      *regexp.Regexp      // nil means no regex filter
	PatternInv   bool
	Scope        Scope

	// Walker
	BasePath          string
	Depth             int // negative = unlimited, 0 = base only
	Exclude           []string
	NoDefaultExcludes bool
	IncludeHidden     bool
	FollowSymlinks    bool

	// Output
	Output      string
	Clipboard   bool
	Absolute    bool
	MaxBytes    int64 // negative = unlimited; 0 is honored literally
	ReadContent bool
	Quiet       bool

	// Token counting
	CountTokens bool
	TokenModel  string

	// Web traversal
	TraverseLinks bool
	LinkDepth     int
}

// newAppConfig validates and normalizes the raw flag values into an
// AppConfig. Any error here is a fatal setup failure: nothing has been
// traversed or written yet.
func newAppConfig() (*AppConfig, error) {
	var pattern *regexp.Regexp
	if regexStr != "" {
		var err error
		pattern, err = regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex format: %w", err)
		}
	}

	scope, err := parseScope(scopeStr)
	if err != nil {
		return nil, err
	}

	// --extension and --no-extension pick whitelist or blacklist mode; at
	// most one list exists at a time.
	var raw []string
	extensionInv := false
	switch {
	case len(extensionList) > 0 && len(noExtensionList) > 0:
		return nil, fmt.Errorf("--extension and --no-extension cannot be combined")
	case len(extensionList) > 0:
		raw = extensionList
	case len(noExtensionList) > 0:
		raw = noExtensionList
		extensionInv = true
	}
	extensions, err := normalizeExtensions(raw)
	if err != nil {
		return nil, err
	}

	if outputFile != "" && copyToClipboard {
		return nil, fmt.Errorf("--output and --clipboard cannot be combined")
	}

	return &AppConfig{
		Extensions:        extensions,
		ExtensionInv:      extensionInv,
		Pattern:           pattern,
		PatternInv:        regexInv,
		Scope:             scope,
		BasePath:          basePath,
		Depth:             maxDepth,
		Exclude:           excludePatterns,
		NoDefaultExcludes: noDefaultExcludes,
		IncludeHidden:     includeHidden,
		FollowSymlinks:    followSymlinks,
		Output:            outputFile,
		Clipboard:         copyToClipboard,
		Absolute:          absolutePaths,
		MaxBytes:          maxBytes,
		ReadContent:       readContent,
		Quiet:             quiet,
		CountTokens:       countTokens,
		TokenModel:        tokenModel,
		TraverseLinks:     traverseLinks,
		LinkDepth:         linkDepth,
	}, nil
}

// normalizeExtensions trims entries, strips leading dots and lowercases them,
// so ".RS", "rs " and "rs" all land on the same key. An empty input yields a
// nil set (no filter); a list that normalizes to nothing is an error rather
// than a filter that silently matches extension-less files.
func normalizeExtensions(raw []string) (map[string]struct{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(raw))
	for _, e := range raw {
		e = strings.ToLower(strings.TrimLeft(strings.TrimSpace(e), "."))
		if e == "" {
			continue
		}
		set[e] = struct{}{}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("extension list contains no usable entries")
	}
	return set, nil
}

package main

import (
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL reports whether input looks like a repository URL rather than a
// local path. Plain https URLs without the .git suffix are ambiguous and are
// treated as web pages instead.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones the default branch of url, shallow and single-branch,
// into a fresh temporary directory and returns its path. The caller owns
// cleanup of the directory.
func cloneGitRepo(url string, quiet bool) (string, error) {
	tempDir, err := os.MkdirTemp("", "collect-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:           url,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	}
	if !quiet {
		opts.Progress = os.Stderr
	}

	if _, err := git.PlainClone(tempDir, false, opts); err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository %q: %w", url, err)
	}
	return tempDir, nil
}

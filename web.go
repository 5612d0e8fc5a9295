package main

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// collectWeb fetches a page, converts it to Markdown and emits it as one
// record with the URL as the displayed path. With --traverse-links, anchors
// are resolved and followed up to the configured depth, with a visited set
// guarding against loops. Fetch and parse failures are logged and skipped;
// only a closed sink stops the traversal.
func collectWeb(startURL string, cfg *AppConfig, w *Writer, stats *RunStats) error {
	maxDepth := 0
	if cfg.TraverseLinks {
		maxDepth = cfg.LinkDepth
	}
	visited := make(map[string]bool)
	return fetchPage(startURL, 0, maxDepth, visited, cfg, w, stats)
}

func fetchPage(pageURL string, depth, maxDepth int, visited map[string]bool, cfg *AppConfig, w *Writer, stats *RunStats) error {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		log.Warnf("Invalid URL %s: %v", pageURL, err)
		return nil
	}
	// Fragments (and a bare vs. "/" root path) would make the same page look
	// like distinct URLs.
	parsed.Fragment = ""
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	clean := parsed.String()

	if depth > maxDepth || visited[clean] {
		return nil
	}
	visited[clean] = true

	res, err := http.Get(clean)
	if err != nil {
		log.Warnf("Failed to fetch %s: %v", clean, err)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		log.Warnf("Failed to fetch %s: status code %d", clean, res.StatusCode)
		return nil
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "text/html") {
		log.Infof("Skipping non-HTML content type (%s) for %s", ct, clean)
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Warnf("Failed to read response body from %s: %v", clean, err)
		return nil
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(string(body))
	if err != nil {
		log.Warnf("Failed to convert HTML to Markdown for %s: %v", clean, err)
	} else {
		if err := w.WriteContentRecord(clean, []byte(markdown), cfg); err != nil {
			if isBrokenPipe(err) {
				return errStop
			}
			log.Errorf("Error processing %s: %v", clean, err)
		}
		stats.FilesProcessed++
	}

	if depth >= maxDepth {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Warnf("Failed to parse HTML for link extraction from %s: %v", clean, err)
		return nil
	}

	var stopErr error
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link, ok := s.Attr("href")
		if !ok || link == "" || strings.HasPrefix(link, "#") ||
			strings.HasPrefix(strings.ToLower(link), "mailto:") ||
			strings.HasPrefix(strings.ToLower(link), "javascript:") {
			return true
		}
		resolved, err := parsed.Parse(link)
		if err != nil {
			log.Warnf("Could not resolve link %q on page %s: %v", link, clean, err)
			return true
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		if err := fetchPage(resolved.String(), depth+1, maxDepth, visited, cfg, w, stats); err != nil {
			stopErr = err
			return false
		}
		return true
	})
	return stopErr
}

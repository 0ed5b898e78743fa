// Package transform normalizes raw GitHub payloads into the bounded shapes
// the analysis prompt accepts.
package transform

import (
	"encoding/base64"
	"strings"

	"github.com/sirupsen/logrus"

	"repobrief/internal/github"
)

// Budgets keep the prompt within a predictable token envelope regardless of
// repository size.
const (
	MaxManifestChars = 5000
	MaxReadmeChars   = 15000
	MaxTreeEntries   = 250
)

// excludedExtensions drops binary assets and lockfiles from the file tree.
// Neither carries signal about how a codebase is put together.
var excludedExtensions = []string{
	".png", ".jpg", ".jpeg", ".svg", ".ico", ".lockb", ".lock",
}

// FilterTree keeps blob entries whose paths do not end in an excluded
// extension, preserving the original order. The result is never nil.
func FilterTree(entries []github.TreeEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "blob" {
			continue
		}
		if hasExcludedExtension(entry.Path) {
			continue
		}
		paths = append(paths, entry.Path)
	}
	return paths
}

func hasExcludedExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range excludedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DecodeContent turns a base64 file payload into text. Absent payloads,
// unexpected encodings, and undecodable bodies all come back as the empty
// string; a missing README should soften the briefing, not sink it.
func DecodeContent(content *github.Content) string {
	if content == nil || content.Content == "" {
		return ""
	}
	if content.Encoding != "" && content.Encoding != "base64" {
		logrus.Warnf("Skipping content with unsupported encoding %q", content.Encoding)
		return ""
	}
	// GitHub wraps base64 bodies with newlines every 60 characters.
	raw := strings.ReplaceAll(content.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		logrus.Warnf("Discarding undecodable content payload: %v", err)
		return ""
	}
	return string(decoded)
}

// TruncateChars caps s at max characters.
func TruncateChars(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// LimitEntries caps a path list at max entries.
func LimitEntries(paths []string, max int) []string {
	if len(paths) <= max {
		return paths
	}
	return paths[:max]
}

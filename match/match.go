// Package match decides whether externally fetched metadata should replace
// the current value of a library item field. It combines a locale-aware
// placeholder detection, a source-tag heuristic for filename-scraped junk
// and a Levenshtein-based similarity score over normalized strings.
package match

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	harmonia "github.com/juho05/harmonia-server"
)

var unknownSentinels = []string{
	"unknown",
	"unknown artist",
	"unknown album",
	"未知",
	"未知艺术家",
	"未知专辑",
}

var (
	bracketSpanRegex      = regexp.MustCompile(`\(.*?\)|\[.*?\]|\{.*?\}`)
	sourceTagPrefixRegex  = regexp.MustCompile(`^\s*[\[({].+[\])}]\s*`)
	leadingSourceTagRegex = regexp.MustCompile(`^\s*[\[({][^\])}]+[\])}]\s*`)
	urlMarkerRegex        = regexp.MustCompile(`https?://|www\.`)
	domainSuffixRegex     = regexp.MustCompile(`\.(com|net|org|cn|jp|kr|io|me|tv)\b`)
	urlRegex              = regexp.MustCompile(`https?://\S+|www\.\S+`)
	bareDomainRegex       = regexp.MustCompile(`\b[\w\-]+(\.[\w\-]+)+\b`)
	separatorRunRegex     = regexp.MustCompile(`[-_/]+`)
	whitespaceRunRegex    = regexp.MustCompile(`\s+`)
)

// IsUnknown reports whether value is empty or one of the recognized
// "unknown" placeholders written by the import step.
func IsUnknown(value string) bool {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return true
	}
	for _, sentinel := range unknownSentinels {
		if normalized == sentinel {
			return true
		}
	}
	return false
}

// FileBaseName returns the file name of path without its extension.
func FileBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsMissingTitle reports whether title carries no real information:
// it is empty, an unknown placeholder or just the file base name.
func IsMissingTitle(title, path string) bool {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return true
	}
	if trimmed == FileBaseName(path) {
		return true
	}
	return IsUnknown(trimmed)
}

// HasSourceTag reports whether value looks like it was scraped from a file
// name carrying a release-site marker, e.g. "[51ape.com] song" or an
// embedded URL or bare domain.
func HasSourceTag(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	if sourceTagPrefixRegex.MatchString(trimmed) {
		return true
	}
	if urlMarkerRegex.MatchString(trimmed) {
		return true
	}
	return domainSuffixRegex.MatchString(trimmed)
}

// SanitizeQuery strips leading source tags, URLs and bare domains from text
// and normalizes separators and whitespace, so the cleaned string can be
// used in provider queries.
func SanitizeQuery(text string) string {
	value := strings.TrimSpace(text)
	if value == "" {
		return value
	}
	value = leadingSourceTagRegex.ReplaceAllString(value, "")
	value = urlRegex.ReplaceAllString(value, "")
	value = bareDomainRegex.ReplaceAllString(value, "")
	value = separatorRunRegex.ReplaceAllString(value, " ")
	value = whitespaceRunRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// Normalize lowercases text, removes bracketed spans and the "feat." token
// and collapses every run of characters that is neither alphanumeric nor a
// CJK ideograph into a single space.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	lowered = bracketSpanRegex.ReplaceAllString(lowered, "")
	lowered = strings.ReplaceAll(lowered, "feat.", "")

	result := make([]rune, 0, len(lowered))
	for _, r := range lowered {
		keep := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || (r >= 0x4E00 && r <= 0x9FA5)
		if keep {
			result = append(result, r)
			continue
		}
		if len(result) > 0 && result[len(result)-1] != ' ' {
			result = append(result, ' ')
		}
	}
	return strings.TrimSpace(string(result))
}

// EditDistance returns the Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Similarity scores how close two strings are after normalization,
// from 0 (nothing in common) to 1 (equal).
func Similarity(a, b string) float64 {
	left := Normalize(a)
	right := Normalize(b)
	if left == "" || right == "" {
		return 0
	}
	if left == right {
		return 1
	}
	distance := EditDistance(left, right)
	maxLen := max(len([]rune(left)), len([]rune(right)))
	return 1 - float64(distance)/float64(maxLen)
}

// ShouldOverwrite decides whether candidate should replace current.
// The rules are evaluated in order, first match wins:
//  1. manual/force requests always overwrite
//  2. values carrying a source tag are low-trust and get replaced
//  3. placeholders (empty, file base name, unknown sentinel) get replaced
//  4. otherwise the similarity score must reach threshold
//
// path may be empty for fields that have no file name relation (artist,
// album); the file-base-name rule is skipped then.
func ShouldOverwrite(current, candidate, path string, reason harmonia.Reason, threshold float64) bool {
	if reason.Bypass() {
		return true
	}
	if HasSourceTag(current) {
		return true
	}
	if path != "" && IsMissingTitle(current, path) {
		return true
	}
	if IsUnknown(current) {
		return true
	}
	return Similarity(current, candidate) >= threshold
}

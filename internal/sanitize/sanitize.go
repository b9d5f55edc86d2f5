// Package sanitize derives stable, filesystem-safe identifiers from
// recording paths. Source trees frequently arrive from Windows exports, so
// both slash styles are understood.
package sanitize

import (
	"errors"
	"strings"
)

// ErrPathStructure indicates a path without enough parent directories to
// derive an identifier from.
var ErrPathStructure = errors.New("path lacks required parent directories")

// unsafeReplacer maps characters that are awkward in identifiers to
// underscores. Runs are collapsed afterwards.
var unsafeReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	"(", "_",
	")", "_",
	".", "_",
)

// Identifier combines the immediate parent directory name with the file's
// base name (extension stripped) into a single safe identifier:
// "PAT_1 FR09SH68/EEG_21.TRC" becomes "PAT_1_FR09SH68_EEG_21".
//
// The path must carry at least two directory levels above the file;
// otherwise ErrPathStructure is returned.
func Identifier(path string) (string, error) {
	segments := Segments(path)
	if len(segments) < 3 {
		return "", ErrPathStructure
	}

	parent := segments[len(segments)-2]
	base := segments[len(segments)-1]
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}

	id := collapseUnderscores(unsafeReplacer.Replace(parent + "_" + base))
	id = strings.Trim(id, "_")
	if id == "" {
		return "", ErrPathStructure
	}
	return id, nil
}

// Segments splits a path on either separator style, dropping empty parts
// and drive prefixes such as "D:".
func Segments(path string) []string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	parts := strings.Split(normalized, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if len(part) == 2 && part[1] == ':' {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}

func collapseUnderscores(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	lastUnderscore := false
	for _, r := range value {
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

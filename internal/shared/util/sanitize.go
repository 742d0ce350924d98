package util

import (
	"errors"
	"strings"
)

// ErrBadFileName covers empty names and traversal attempts in uploaded
// document names.
var ErrBadFileName = errors.New("invalid document file name")

// SanitizeFileName normalizes an uploaded document's name before its
// extension is inspected: path separators become underscores, traversal
// patterns are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrBadFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", ErrBadFileName
	}
	return s, nil
}

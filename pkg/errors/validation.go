package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from input files and URLs.
const MaxNodeIDLength = 512

// Formats lists the graph file formats accepted by the readers.
var Formats = []string{"json", "yaml", "toml", "dot"}

// ValidateNodeID rejects identifiers that cannot be used as card keys:
// empty strings, over-long strings and strings with control characters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}
	return nil
}

// NormalizeFormat maps a format name or file extension to one of [Formats].
// "yml" and "gv" are accepted as aliases.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	switch f {
	case "yml":
		f = "yaml"
	case "gv":
		f = "dot"
	}
	if !slices.Contains(Formats, f) {
		return "", New(ErrCodeInvalidFormat, "unsupported graph format %q (want one of %s)",
			format, strings.Join(Formats, ", "))
	}
	return f, nil
}

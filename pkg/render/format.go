package render

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/modgraph/pkg/errors"
)

// Graphviz output formats used directly by the outputs.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"

	// DefaultImageFormat is used when a destination path has no extension.
	DefaultImageFormat = "png"
)

// formatRe matches Graphviz -T values such as "png", "svg" or "png:cairo".
var formatRe = regexp.MustCompile(`^[a-z0-9]+(:[a-z0-9]+)*$`)

// FormatFromPath returns the image format implied by the extension of path,
// lower-cased, or DefaultImageFormat when path has no extension.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return DefaultImageFormat
	}
	return ext
}

// ValidateFormat checks that format is a syntactically valid Graphviz
// output format. Whether the engine supports it is only known at render time.
func ValidateFormat(format string) error {
	if format == "" {
		return errors.New(errors.ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if !formatRe.MatchString(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid output format %q", format)
	}
	return nil
}

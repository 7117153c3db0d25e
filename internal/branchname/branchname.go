// Package branchname derives review branch names from commit subjects.
// Naming is a pure function of the configured options plus the selected
// commits, so the same selection always yields the same branch name.
package branchname

import (
	"fmt"
	"regexp"
	"strings"
)

// Options controls branch name generation. Zero values fall back to the
// defaults below.
type Options struct {
	Prefix        string   // namespace prepended as "<prefix>/", default "glu"
	Separator     string   // word separator, default "-"
	MaxLength     int      // maximum length of the generated name
	StripPrefixes []string // conventional-commit prefixes removed from subjects
}

// DefaultOptions matches the out-of-the-box glu configuration
func DefaultOptions() Options {
	return Options{
		Prefix:    "glu",
		Separator: "-",
		MaxLength: 80,
		StripPrefixes: []string{
			"feat", "fix", "chore", "docs", "style", "refactor", "perf", "test", "build", "ci",
		},
	}
}

var invalidCharsPattern = regexp.MustCompile(`[^-_/.a-zA-Z0-9]+`)
var trailingJunkPattern = regexp.MustCompile(`[/.]*$`)

// FromSubject generates a branch name from the subject of the first selected
// commit. An empty subject yields just the prefix plus a positional marker
// supplied by the caller.
func FromSubject(subject string, opts Options) string {
	opts = withDefaults(opts)

	subject = stripConventionalPrefix(subject, opts.StripPrefixes)
	slug := sanitize(subject, opts.Separator)

	name := opts.Prefix + "/" + slug
	if len(name) > opts.MaxLength {
		name = name[:opts.MaxLength]
		name = strings.TrimSuffix(name, opts.Separator)
	}
	return name
}

// ForRange generates a branch name for a positional selection, used when the
// subject slug came out empty.
func ForRange(start, end int, opts Options) string {
	opts = withDefaults(opts)
	if start == end {
		return fmt.Sprintf("%s/commit%s%d", opts.Prefix, opts.Separator, start)
	}
	return fmt.Sprintf("%s/commits%s%d%s%d", opts.Prefix, opts.Separator, start, opts.Separator, end)
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Prefix == "" {
		opts.Prefix = def.Prefix
	}
	if opts.Separator == "" {
		opts.Separator = def.Separator
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = def.MaxLength
	}
	if opts.StripPrefixes == nil {
		opts.StripPrefixes = def.StripPrefixes
	}
	return opts
}

func stripConventionalPrefix(subject string, prefixes []string) string {
	subject = strings.TrimSpace(subject)
	for _, prefix := range prefixes {
		// Accept both "feat:" and scoped "feat(scope):" forms
		pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\([^)]*\))?[!]?:\s*`)
		if pattern.MatchString(subject) {
			return pattern.ReplaceAllString(subject, "")
		}
	}
	return subject
}

func sanitize(name, separator string) string {
	name = trailingJunkPattern.ReplaceAllString(name, "")
	name = invalidCharsPattern.ReplaceAllString(name, separator)

	collapse := regexp.MustCompile(regexp.QuoteMeta(separator) + `+`)
	name = collapse.ReplaceAllString(name, separator)

	name = strings.Trim(name, separator)
	return strings.ToLower(name)
}

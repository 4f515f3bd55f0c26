package content

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
)

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// SlugFromFilename returns the file name without its extension.
func SlugFromFilename(name string) string {
	return strings.TrimSpace(strings.TrimSuffix(path.Base(name), path.Ext(name)))
}

// SuggestSlug returns the normalised form of value when it differs, or "".
func SuggestSlug(value string) string {
	normalized, err := NormalizeSlug(value)
	if err != nil || normalized == "" || normalized == value {
		return ""
	}
	return normalized
}

func foldKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

package review

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/venuescout/internal/interfaces"
)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name, collapses every non-alphanumeric run into a
// single hyphen, and trims hyphens from both ends.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlnumPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug returns the base slug, or the first "-1", "-2", ... suffix
// variant not yet taken by an existing venue.
func uniqueSlug(ctx context.Context, venues interfaces.VenueStorage, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", fmt.Errorf("venue name %q produces an empty slug", name)
	}

	slug := base
	for counter := 1; ; counter++ {
		exists, err := venues.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("slug lookup failed: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

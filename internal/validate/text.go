package validate

import (
	"regexp"
	"strings"
)

var (
	slugStripRE    = regexp.MustCompile("`[^`]*`")
	slugInvalidRE  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacesRE   = regexp.MustCompile(`\s+`)
	slugCollapseRE = regexp.MustCompile(`-+`)
)

// Slugify converts heading text to a URL-friendly anchor slug.
// Example: "A. Introduction" -> "a-introduction". Inline code spans are
// dropped before slugification, matching how markdown renderers anchor
// headings that embed identifiers.
func Slugify(text string) string {
	t := slugStripRE.ReplaceAllString(text, "")
	t = strings.ToLower(strings.TrimSpace(t))
	t = slugInvalidRE.ReplaceAllString(t, "")
	t = slugSpacesRE.ReplaceAllString(t, "-")
	t = slugCollapseRE.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}

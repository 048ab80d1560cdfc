package guard

import "strings"

// Tier decides how hard the injection filter inspects an endpoint.
type Tier int

const (
	// TierDefault checks query parameters with the broad pattern set.
	TierDefault Tier = iota
	// TierContent carries user prose and skips injection checks.
	TierContent
	// TierStrict checks query parameters and body with the broad set.
	TierStrict
	// TierModerate checks the body with the critical-only set.
	TierModerate
)

// Endpoints whose bodies are expected to contain HTML or free text.
// The content-safety filter leaves these alone entirely.
var xssExemptEndpoints = []string{
	"/api/posts",
	"/api/comments",
	"/api/gemini",
}

var contentEndpoints = []string{
	"/api/posts",
	"/api/comments",
	"/api/generate-blog",
	"/api/gemini",
	"/api/profile",
}

var strictEndpoints = []string{
	"/api/login",
	"/api/signup",
	"/api/admin-panel",
}

var moderateEndpoints = []string{
	"/api/forgot-password",
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// IsXSSExempt reports whether the content-safety filter should skip
// the given path.
func IsXSSExempt(path string) bool {
	return hasAnyPrefix(path, xssExemptEndpoints)
}

// Classify returns the injection tier for a path. Tiers are checked in
// a fixed priority order: content > strict > moderate > default.
func Classify(path string) Tier {
	switch {
	case hasAnyPrefix(path, contentEndpoints):
		return TierContent
	case hasAnyPrefix(path, strictEndpoints):
		return TierStrict
	case hasAnyPrefix(path, moderateEndpoints):
		return TierModerate
	default:
		return TierDefault
	}
}

// Package guard holds the request inspection rules used by the
// protection middlewares. Pattern lists are compiled once at package
// init and evaluated in order, first match wins.
package guard

import "regexp"

// Markup and script constructs that have no business being in a
// request body.
var xssPatterns = compile([]string{
	`(?is)<script[^>]*>.*?</script>`,
	`(?i)javascript:`,
	`(?is)on\w+\s*=\s*["'][^"']*["']`,
	`(?i)eval\s*\(`,
	`(?i)expression\s*\(`,
	`(?is)<iframe[^>]*src\s*=`,
	`(?is)<object[^>]*data\s*=`,
	`(?is)<embed[^>]*src\s*=`,
})

// The broad SQL set used for strict and default endpoints. Too
// trigger-happy for prose, which is why content endpoints never see it.
var sqlPatterns = compile([]string{
	`(?i)\bunion\s+select\b`,
	`(?i)\bor\s+\d+\s*=\s*\d+`,
	`(?i)\band\s+\d+\s*=\s*\d+`,
	`(?i)'.*or.*'.*=.*'`,
	`--`,
	`(?i)/\*.*\*/`,
	`(?i)\bdrop\s+table\b`,
	`(?i)\bdelete\s+from\b`,
	`(?i)\btruncate\b`,
	`(?i)\bexec\b|\bexecute\b`,
	`(?i)\bwaitfor\s+delay\b`,
	`(?i)\bload_file\b|\boutfile\b`,
})

// The critical-only subset applied where legitimate text may resemble
// an injection string.
var criticalSQLPatterns = compile([]string{
	`(?i)\bunion\s+select\b.*\bfrom\b`,
	`(?i)\bor\s+\d+\s*=\s*\d+\s*--`,
	`(?i)\band\s+\d+\s*=\s*\d+\s*--`,
	`(?i)\bdrop\s+table\s+\w+`,
	`(?i)\bdelete\s+from\s+\w+`,
})

// The subset applied to blog content, which legitimately carries HTML.
// Only outright script execution is refused.
var scriptMarkupPatterns = compile([]string{
	`(?is)<script[^>]*>.*?</script>`,
	`(?i)javascript:`,
	`(?is)on\w+\s*=\s*["'][^"']*["']`,
	`(?i)eval\s*\(`,
})

func compile(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	if text == "" {
		return false
	}

	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ContainsXSS reports whether text contains dangerous markup or script.
func ContainsXSS(text string) bool {
	return matchAny(xssPatterns, text)
}

// ContainsScriptMarkup reports whether text contains script execution
// constructs. Meant for fields that are allowed to carry benign HTML.
func ContainsScriptMarkup(text string) bool {
	return matchAny(scriptMarkupPatterns, text)
}

// ContainsSQLInjection runs the broad SQL pattern set against text.
func ContainsSQLInjection(text string) bool {
	return matchAny(sqlPatterns, text)
}

// ContainsCriticalSQL runs only the critical SQL pattern subset
// against text.
func ContainsCriticalSQL(text string) bool {
	return matchAny(criticalSQLPatterns, text)
}

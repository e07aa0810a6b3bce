package safety

import (
	"regexp"
	"strings"
)

var (
	roleMarkerPrefixRe = regexp.MustCompile(`(?i)\b(system|assistant|user)\s*:\s*`)
	codeFenceRe        = regexp.MustCompile("(?s)```.*?```")
	separatorRunRe     = regexp.MustCompile(`(--+|==+|__+|~~+){2,}`)
	scriptTagRe        = regexp.MustCompile(`(?is)<\s*script.*?>.*?<\s*/\s*script\s*>`)
)

// Sanitize strips role-marker prefixes, fenced code blocks, repeated
// separator runs and inline script tags from user text. It is best-effort
// normalization applied after detection, not a security boundary on its own.
// Sanitizing already-sanitized text is a no-op.
func Sanitize(text string) string {
	text = roleMarkerPrefixRe.ReplaceAllString(text, " ")
	text = codeFenceRe.ReplaceAllString(text, "")
	text = separatorRunRe.ReplaceAllString(text, " ")
	text = scriptTagRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

package safety

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/campusml/tabot/internal/models"
)

// Verdict is the result of one safety check. Reason names the rule that
// fired so refusals stay auditable.
type Verdict struct {
	Flagged bool
	Reason  string
}

// minCheckLen skips detection on trivial input to avoid false positives.
const minCheckLen = 6

// injectionPatterns are known injection phrasings: instruction overrides,
// role reassignment, exfiltration wording, rigid-format demands.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ignore (all )?previous (instructions|prompts|messages)`),
	regexp.MustCompile(`disregard (all )?previous (instructions|prompts|messages)`),
	regexp.MustCompile(`forget (your|the) (previous|system) instructions`),
	regexp.MustCompile(`ignore (this )?and (answer|respond) with`),
	regexp.MustCompile(`you are now acting as`),
	regexp.MustCompile(`act as an? (assistant|bot|system) named`),
	regexp.MustCompile(`from now on you will`),
	regexp.MustCompile(`answer only with`),
	regexp.MustCompile(`do not mention`),
	regexp.MustCompile(`do not reveal`),
	regexp.MustCompile(`exfiltrate`),
	regexp.MustCompile(`open the following file`),
	regexp.MustCompile(`execute the following`),
	regexp.MustCompile(`click this link`),
	regexp.MustCompile(`respond in json only`),
	regexp.MustCompile(`respond with only`),
	regexp.MustCompile(`system:\s`),
	regexp.MustCompile(`role:\s*system`),
	regexp.MustCompile(`if you are reading this`),
}

// suspiciousTokens are literal substrings common in payload smuggling.
var suspiciousTokens = []string{
	"<script>", "</script>", "<iframe", "javascript:", "eval(", "base64,",
	"====", "----", "```", "begin:", "end:", "drop table", "--", ";--", "@@",
}

var (
	roleMarkerRe = regexp.MustCompile(`\b(system|assistant|user)\s*:`)
	directiveRe  = regexp.MustCompile(`\b(ignore|execute|do not|don't|follow|comply|repeat|answer|respond|print|expose|hide)\b`)
)

// directiveDensityMin and directiveDensityWords bound the density heuristic:
// at least this many distinct directive verbs inside a short message.
const (
	directiveDensityMin   = 3
	directiveDensityWords = 80
)

// inputRule is one named predicate in the detection chain. Rules run in
// fixed priority order and the first match wins.
type inputRule struct {
	name  string
	check func(q string) (bool, string)
}

var inputRules = []inputRule{
	{"injection pattern", matchInjectionPattern},
	{"suspicious token", matchSuspiciousToken},
	{"role marker", matchRoleMarker},
	{"ignore-previous phrasing", matchIgnorePrevious},
	{"directive density", matchDirectiveDensity},
}

// CheckPromptInjection runs the ordered heuristic rule chain over raw user
// text. It is best-effort detection, not a security guarantee.
func CheckPromptInjection(text string) Verdict {
	if len(strings.TrimSpace(text)) < minCheckLen {
		return Verdict{}
	}

	q := strings.ToLower(text)
	for _, rule := range inputRules {
		if hit, detail := rule.check(q); hit {
			return Verdict{Flagged: true, Reason: fmt.Sprintf("%s: %s", rule.name, detail)}
		}
	}
	return Verdict{}
}

func matchInjectionPattern(q string) (bool, string) {
	for _, p := range injectionPatterns {
		if p.MatchString(q) {
			return true, fmt.Sprintf("matched %q", p.String())
		}
	}
	return false, ""
}

func matchSuspiciousToken(q string) (bool, string) {
	for _, tok := range suspiciousTokens {
		if strings.Contains(q, tok) {
			return true, fmt.Sprintf("contained %q", tok)
		}
	}
	return false, ""
}

func matchRoleMarker(q string) (bool, string) {
	if roleMarkerRe.MatchString(q) {
		return true, "contains role-like markers (e.g. 'system:')"
	}
	return false, ""
}

func matchIgnorePrevious(q string) (bool, string) {
	if strings.Contains(q, "ignore") &&
		(strings.Contains(q, "previous") || strings.Contains(q, "instructions") || strings.Contains(q, "system")) {
		return true, "explicit 'ignore previous instructions' phrasing"
	}
	return false, ""
}

func matchDirectiveDensity(q string) (bool, string) {
	if len(strings.Fields(q)) >= directiveDensityWords {
		return false, ""
	}
	distinct := make(map[string]bool)
	for _, m := range directiveRe.FindAllString(q, -1) {
		distinct[m] = true
	}
	if len(distinct) >= directiveDensityMin {
		return true, "unusually high density of directives"
	}
	return false, ""
}

// chunkDirectivePhrases is the reduced rule set applied to retrieved text.
var chunkDirectivePhrases = []string{"ignore previous", "disregard prior", "do not disclose"}

// CheckChunkInjection inspects retrieved chunks for system-like instructions
// embedded in document text (OCR output and scraped pages sometimes carry
// role-marker blocks). One hit condemns the whole set; the caller must not
// keep the non-triggering chunks.
func CheckChunkInjection(chunks []models.ScoredChunk) Verdict {
	for _, c := range chunks {
		low := strings.ToLower(c.Text)
		if low == "" {
			continue
		}
		if roleMarkerRe.MatchString(low) {
			return Verdict{Flagged: true, Reason: fmt.Sprintf("passage from %s contains role markers", c.Source)}
		}
		for _, phrase := range chunkDirectivePhrases {
			if strings.Contains(low, phrase) {
				return Verdict{Flagged: true, Reason: fmt.Sprintf("passage from %s contains directive-like wording", c.Source)}
			}
		}
	}
	return Verdict{}
}

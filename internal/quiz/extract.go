package quiz

import (
	"regexp"
	"strings"
)

var (
	tfLeadingJunkRe     = regexp.MustCompile(`^[\s*#>\-]+`)
	tfFirstLineVerdict  = regexp.MustCompile(`\b(?:answer|statement|claim|assertion|this)\s+is\s+(true|false)\b`)
	tfBareWordRe        = regexp.MustCompile(`\b(true|false)\b`)
	tfBoldRe            = regexp.MustCompile(`\*\*(true|false)\*\*`)
	tfColonRe           = regexp.MustCompile(`:\s*(true|false)\b`)
	tfVerdictAnywhereRe = regexp.MustCompile(`\b(?:the\s+)?(?:correct\s+)?answer\s+is\s+(true|false)\b`)
	tfTrueWordRe        = regexp.MustCompile(`\btrue\b`)
	tfFalseWordRe       = regexp.MustCompile(`\bfalse\b`)

	mcParenRe     = regexp.MustCompile(`\(([a-d])\)`)
	mcVerdictRe   = regexp.MustCompile(`\b(?:the\s+)?(?:correct\s+)?answer\s+is\s+\(?([a-d])\)?\b`)
	mcBoldRe      = regexp.MustCompile(`\*\*\(?([a-d])\)?\*\*`)
	mcLineStartRe = regexp.MustCompile(`(?:^|\n)\s*([a-d])[.:)\s]`)
)

// Extract normalizes a model response into a gradable answer: "T"/"F"
// for true/false, a letter for multiple choice, the trimmed response
// for short answer. Returns "?" when no answer can be identified.
func Extract(response, qtype string) string {
	cleaned := strings.TrimSpace(response)
	if cleaned == "" {
		return "?"
	}
	switch qtype {
	case TypeTF:
		return extractTF(cleaned)
	case TypeMC:
		return extractMC(cleaned)
	}
	return cleaned
}

// extractTF scans progressively wider windows of the response until a
// verdict is found.
func extractTF(response string) string {
	lower := strings.ToLower(response)

	// Pass 1: response starts with the verdict, possibly after markup.
	start := tfLeadingJunkRe.ReplaceAllString(lower, "")
	if strings.HasPrefix(start, "true") {
		return "T"
	}
	if strings.HasPrefix(start, "false") {
		return "F"
	}

	// Pass 2: first line carries a clear verdict.
	firstLine, _, _ := strings.Cut(lower, "\n")
	if m := tfFirstLineVerdict.FindStringSubmatch(firstLine); m != nil {
		return tfLetter(m[1])
	}
	if m := tfBareWordRe.FindStringSubmatch(firstLine); m != nil {
		return tfLetter(m[1])
	}

	// Pass 3: first three lines, bold or colon-prefixed.
	lines := strings.SplitN(lower, "\n", 4)
	if len(lines) > 3 {
		lines = lines[:3]
	}
	head := strings.Join(lines, "\n")
	if m := tfBoldRe.FindStringSubmatch(head); m != nil {
		return tfLetter(m[1])
	}
	if m := tfColonRe.FindStringSubmatch(head); m != nil {
		return tfLetter(m[1])
	}

	// Pass 4: definitive verdict anywhere.
	if m := tfVerdictAnywhereRe.FindStringSubmatch(lower); m != nil {
		return tfLetter(m[1])
	}

	// Pass 5: exactly one of the keywords appears.
	trueCount := len(tfTrueWordRe.FindAllString(lower, -1))
	falseCount := len(tfFalseWordRe.FindAllString(lower, -1))
	if trueCount > 0 && falseCount == 0 {
		return "T"
	}
	if falseCount > 0 && trueCount == 0 {
		return "F"
	}
	return "?"
}

func extractMC(response string) string {
	lower := strings.ToLower(response)

	// Pass 1: parenthesized letter anywhere.
	if m := mcParenRe.FindStringSubmatch(response); m != nil {
		return m[1]
	}
	// Pass 2: "answer is (a)" or "answer is a".
	if m := mcVerdictRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	// Pass 3: bold letter.
	if m := mcBoldRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	// Pass 4: letter at line start followed by punctuation.
	if m := mcLineStartRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	// Pass 5: first a-d character anywhere.
	for _, r := range lower {
		if r >= 'a' && r <= 'd' {
			return string(r)
		}
	}
	return "?"
}

func tfLetter(word string) string {
	if word == "true" {
		return "T"
	}
	return "F"
}

package chunker

import (
	"regexp"
	"sort"
	"strings"
)

// Section is a heading-scoped slice of a markdown document.
type Section struct {
	Heading     string   // Full heading line, e.g. "## Props and State". Empty for the preamble.
	HeadingText string   // Heading without markers, e.g. "Props and State".
	Level       int      // 1-6 for ATX headings, 0 for the untitled preamble.
	Body        string   // Text content under this heading, up to the next heading.
	Breadcrumb  []string // Ancestor headings plus this one, outermost first.
}

// BreadcrumbPath joins the breadcrumb for metadata storage.
func (s Section) BreadcrumbPath() string {
	return strings.Join(s.Breadcrumb, " > ")
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// ParseSections splits markdown into sections by ATX headings, preserving
// the heading hierarchy. Content before the first heading becomes a level-0
// "Introduction" section if non-blank. Headings inside fenced code blocks
// are ignored. Setext-style headings (=== / --- underlines) are not handled.
func ParseSections(content string) []Section {
	lines := strings.Split(content, "\n")

	type headingPos struct {
		line  int
		level int
		text  string
	}

	// First pass: locate headings, tracking fenced code blocks.
	var headings []headingPos
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			headings = append(headings, headingPos{
				line:  i,
				level: len(m[1]),
				text:  strings.TrimSpace(m[2]),
			})
		}
	}

	var sections []Section

	// Content before the first heading.
	firstHeading := len(lines)
	if len(headings) > 0 {
		firstHeading = headings[0].line
	}
	if preamble := strings.TrimSpace(strings.Join(lines[:firstHeading], "\n")); preamble != "" {
		sections = append(sections, Section{
			HeadingText: "Introduction",
			Level:       0,
			Body:        preamble,
			Breadcrumb:  []string{"Introduction"},
		})
	}

	// Second pass: extract bodies and breadcrumbs. The stack maps heading
	// level to the most recent heading text at that level; a new heading
	// replaces its level and discards everything deeper.
	stack := map[int]string{}
	for idx, h := range headings {
		end := len(lines)
		if idx+1 < len(headings) {
			end = headings[idx+1].line
		}
		body := strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n"))

		stack[h.level] = h.text
		for lvl := range stack {
			if lvl > h.level {
				delete(stack, lvl)
			}
		}

		levels := make([]int, 0, len(stack))
		for lvl := range stack {
			levels = append(levels, lvl)
		}
		sort.Ints(levels)
		crumb := make([]string, 0, len(levels))
		for _, lvl := range levels {
			crumb = append(crumb, stack[lvl])
		}

		sections = append(sections, Section{
			Heading:     strings.Repeat("#", h.level) + " " + h.text,
			HeadingText: h.text,
			Level:       h.level,
			Body:        body,
			Breadcrumb:  crumb,
		})
	}

	return sections
}

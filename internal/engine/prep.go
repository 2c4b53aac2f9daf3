package engine

import "strings"

// PrepareContent reduces a note to the excerpt submitted when chunking is
// active: the section the user is editing, truncated to a rune budget at a
// line boundary. The chunking controller only signals; this is the consumer
// that does the cutting.
func PrepareContent(content, section string, budget int) string {
	excerpt := scopeToSection(content, section)
	return truncateLines(excerpt, budget)
}

// scopeToSection returns the block starting at the given markdown heading and
// ending before the next heading of the same or higher level. Falls back to
// the full content when the heading is absent.
func scopeToSection(content, section string) string {
	section = strings.TrimSpace(section)
	if section == "" {
		return content
	}
	level := headingLevel(section)
	if level == 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == section {
			start = i
			break
		}
	}
	if start < 0 {
		return content
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if l := headingLevel(strings.TrimSpace(lines[i])); l > 0 && l <= level {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n")
}

// headingLevel counts leading '#' characters of a markdown heading line;
// 0 means the line is not a heading.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n == len(line) || line[n] == ' ' {
		return n
	}
	return 0
}

// truncateLines cuts content to at most budget runes, dropping the partial
// trailing line so the model never sees a sentence sheared mid-word.
func truncateLines(content string, budget int) string {
	if budget <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= budget {
		return content
	}
	cut := string(runes[:budget])
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

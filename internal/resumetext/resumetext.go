// Package resumetext normalizes resume bodies at the import boundary and
// renders them back out as plain text. Resumes are stored as normalized
// plain text; formatting beyond line structure is out of scope.
package resumetext

import "strings"

// Normalize cleans pasted or uploaded resume text for storage: line endings
// become LF, each line loses surrounding whitespace, and empty lines are
// dropped. Normalize is idempotent.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Export renders a stored resume as a plain-text document: the resume name as
// a heading followed by the body, one stored line per output line.
func Export(name, text string) string {
	var sb strings.Builder
	name = strings.TrimSpace(name)
	if name != "" {
		sb.WriteString(name)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", len(name)))
		sb.WriteString("\n\n")
	}
	sb.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

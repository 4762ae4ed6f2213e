package content

import (
	"fmt"
	"strings"
)

// SplitLines splits content into lines, handling both \n and \r\n line endings.
// It returns a slice of strings, each representing a line without its line ending.
// If the content ends with a newline sequence, it does NOT return a trailing empty string.
func SplitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 1
		} else if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 2
			i++ // Skip the \n
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// CountLines counts lines the way SplitLines splits them.
func CountLines(content string) int {
	return len(SplitLines(content))
}

// HeadLines keeps at most n lines of content and reports whether any were dropped.
func HeadLines(content string, n int) (string, bool) {
	lines := SplitLines(content)
	if len(lines) <= n {
		return content, false
	}
	return strings.Join(lines[:n], "\n"), true
}

// HumanSize formats a byte count as B, KB or MB.
func HumanSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%dB", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(size)/(1024*1024))
	}
}

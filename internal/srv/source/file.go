package source

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ReadLines returns exactly n lines of the file at path. Missing lines are
// empty strings and a file that cannot be read yields n empty lines.
func ReadLines(path string, n int) []string {
	lines := make([]string, n)

	content, err := os.ReadFile(path)
	if err != nil {
		logrus.Debugf("Unable to read %s: %v", path, err)
		return lines
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return lines
	}
	copy(lines, strings.Split(text, "\n"))
	return lines
}

package executor

import (
	"regexp"
	"strings"
)

var choiceLine = regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`)

// ParseChoices extracts the numbered options a narrator closes its beat
// with, in the order they appear. Text with no numbered lines yields nil,
// which leaves the player in free-input mode.
func ParseChoices(text string) []string {
	var choices []string
	for _, line := range strings.Split(text, "\n") {
		m := choiceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		choices = append(choices, strings.TrimSpace(m[1]))
	}
	return choices
}

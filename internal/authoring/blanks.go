package authoring

import (
	"regexp"
	"strings"
)

// blankPattern matches a {…} span. Braces do not nest and an empty pair is
// not a blank.
var blankPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ExtractBlanks derives the answers of a fill_in_blank question from its
// text: every {span}, left to right, becomes a correct answer. The result
// only depends on the text, so calling it again on the same text yields the
// same list.
func ExtractBlanks(text string) []AnswerDraft {
	matches := blankPattern.FindAllStringSubmatch(text, -1)
	answers := make([]AnswerDraft, 0, len(matches))
	for i, m := range matches {
		answers = append(answers, AnswerDraft{
			Text:      m[1],
			IsCorrect: true,
			Order:     i + 1,
		})
	}
	return answers
}

// MatchBlank reports whether a learner's value fills a blank: comparison is
// case-insensitive and ignores surrounding whitespace.
func MatchBlank(expected, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(submitted))
}

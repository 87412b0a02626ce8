package authoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBlanks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []AnswerDraft
	}{
		{
			name: "two blanks in order",
			text: "Le {chat} dort sur le {canapé}",
			want: []AnswerDraft{
				{Text: "chat", IsCorrect: true, Order: 1},
				{Text: "canapé", IsCorrect: true, Order: 2},
			},
		},
		{
			name: "no blanks",
			text: "Aucune accolade",
			want: []AnswerDraft{},
		},
		{
			name: "empty braces are not a blank",
			text: "vide {} puis {plein}",
			want: []AnswerDraft{{Text: "plein", IsCorrect: true, Order: 1}},
		},
		{
			name: "adjacent blanks",
			text: "{a}{b}",
			want: []AnswerDraft{
				{Text: "a", IsCorrect: true, Order: 1},
				{Text: "b", IsCorrect: true, Order: 2},
			},
		},
		{
			name: "nested braces keep the innermost span",
			text: "{x{y}z}",
			want: []AnswerDraft{{Text: "y", IsCorrect: true, Order: 1}},
		},
		{
			name: "unclosed brace",
			text: "le {chat dort",
			want: []AnswerDraft{},
		},
		{
			name: "span with spaces is kept verbatim",
			text: "la {tour Eiffel} ",
			want: []AnswerDraft{{Text: "tour Eiffel", IsCorrect: true, Order: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBlanks(tt.text))
		})
	}
}

func TestExtractBlanks_Idempotent(t *testing.T) {
	text := "Le {chat} dort sur le {canapé} près de la {fenêtre}"
	assert.Equal(t, ExtractBlanks(text), ExtractBlanks(text))

	d := Fresh()
	d.SetQuestionText(0, text)
	d.SetQuestionType(0, "fill_in_blank")
	first := append([]AnswerDraft{}, d.Questions[0].Answers...)
	d.SetQuestionText(0, text)
	assert.Equal(t, first, d.Questions[0].Answers)
}

func TestMatchBlank(t *testing.T) {
	tests := []struct {
		expected  string
		submitted string
		want      bool
	}{
		{"chat", "chat", true},
		{"chat", "  CHAT ", true},
		{"canapé", "Canapé", true},
		{"canapé", "CANAPÉ", true},
		{"tour Eiffel", "tour  Eiffel", false},
		{"chat", "chien", false},
		{"chat", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchBlank(tt.expected, tt.submitted), "%q vs %q", tt.expected, tt.submitted)
	}
}

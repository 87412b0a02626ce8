package models

// Submission is a learner's set of responses to a quiz, keyed by question ID.
type Submission struct {
	QuizID    uint                      `json:"quizId"`
	Responses map[uint]QuestionResponse `json:"responses" validate:"required"`
	TimeSpent int                       `json:"timeSpent"` // seconds
}

// QuestionResponse carries the response fields relevant to each question type:
// selected answer IDs for multiple_choice/true_false, blank values in order of
// appearance for fill_in_blank, free text for text.
type QuestionResponse struct {
	SelectedAnswerIDs []uint   `json:"selectedAnswerIds,omitempty"`
	Blanks            []string `json:"blanks,omitempty"`
	Text              string   `json:"text,omitempty"`
}

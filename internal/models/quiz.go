package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionText           QuestionType = "text"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
)

// QuestionTypes lists every supported question type in display order.
var QuestionTypes = []QuestionType{
	QuestionMultipleChoice,
	QuestionTrueFalse,
	QuestionText,
	QuestionFillInBlank,
}

func (t QuestionType) IsValid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Quiz is the persisted quiz attached to a formation. JSON names follow the
// REST contract consumed by the admin front-end.
type Quiz struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	FormationID  uint   `json:"formationId" gorm:"not null;index"`
	Title        string `json:"title" gorm:"not null;size:200;index"`
	Description  string `json:"description" gorm:"type:text"`
	PassingScore int    `json:"passingScore" gorm:"not null"`
	TimeLimit    *int   `json:"timeLimit"` // minutes, nil means no limit
	IsActive     bool   `json:"isActive" gorm:"not null"`

	// Metadata
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Version control
	Version int `json:"version" gorm:"default:1"`

	// Relations
	Questions []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	QuestionsCount int `json:"questionsCount" gorm:"-"`
	TotalPoints    int `json:"totalPoints" gorm:"-"`
}

type QuizQuestion struct {
	ID         uint         `json:"id,omitempty" gorm:"primaryKey"`
	QuizID     uint         `json:"-" gorm:"not null;index"`
	Question   string       `json:"question" gorm:"type:text;not null"`
	Type       QuestionType `json:"type" gorm:"not null;size:32"`
	Order      int          `json:"order" gorm:"column:position;not null"`
	Points     int          `json:"points" gorm:"not null;default:1"`
	IsRequired bool         `json:"isRequired" gorm:"not null"`

	Answers []QuizAnswer `json:"answers" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type QuizAnswer struct {
	ID         uint   `json:"id,omitempty" gorm:"primaryKey"`
	QuestionID uint   `json:"-" gorm:"not null;index"`
	Answer     string `json:"answer" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"isCorrect" gorm:"not null"`
	Order      int    `json:"order" gorm:"column:position;not null"`
}

// QuizRevision keeps the submitted payload of every save so an author can
// see what a quiz looked like before a later edit.
type QuizRevision struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	QuizID    uint           `json:"quizId" gorm:"not null;index"`
	Version   int            `json:"version" gorm:"not null"`
	Snapshot  datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}

func (QuizRevision) TableName() string {
	return "quiz_revisions"
}

// CalculateComputedFields fills the fields that are derived from questions.
func (q *Quiz) CalculateComputedFields() {
	q.QuestionsCount = len(q.Questions)
	q.TotalPoints = 0
	for _, question := range q.Questions {
		q.TotalPoints += question.Points
	}
}

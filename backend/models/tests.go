package models

type Test struct {
	Base
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions,omitempty"`
}

type Question struct {
	Base
	TestID       string   `gorm:"type:uuid;not null;index" json:"test_id"`
	Topic        string   `json:"topic"` // свободная метка, по ней группируется статистика
	QuestionText string   `gorm:"not null" json:"question_text"`
	Explanation  string   `json:"explanation"`
	Answers      []Answer `json:"answers,omitempty"`
}

type Answer struct {
	Base
	QuestionID string `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string `gorm:"not null" json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

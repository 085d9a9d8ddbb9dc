package models

import "time"

// UserTestSession — одна попытка прохождения теста.
// Незавершённая сессия на пару (user, test) может быть только одна:
// это закреплено частичным уникальным индексом (см. utils.Migrate).
type UserTestSession struct {
	Base
	UserID           string     `gorm:"type:uuid;not null;index" json:"user_id"`
	TestID           string     `gorm:"type:uuid;not null;index" json:"test_id"`
	StartTime        time.Time  `gorm:"not null" json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	TotalTimeSeconds *int       `json:"total_time_seconds"`
	IsCompleted      bool       `gorm:"default:false" json:"is_completed"`
}

// UserQuestion — текущий ответ пользователя на вопрос.
// Запись одна на пару (user, question): повторный ответ перезаписывает её
// и не привязан к конкретной сессии.
type UserQuestion struct {
	Base
	UserID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_question" json:"question_id"`
	SelectedAnswerID string    `gorm:"type:uuid;not null" json:"selected_answer_id"`
	IsCorrect        bool      `json:"is_correct"`
	AnsweredAt       time.Time `json:"answered_at"`
}

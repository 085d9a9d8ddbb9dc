package models

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage — реплика диалога с ИИ-интервьюером, упорядочены по created_at.
type ChatMessage struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	Role        string `gorm:"not null" json:"role"` // user, assistant, system
	MessageText string `gorm:"not null" json:"message_text"`
}

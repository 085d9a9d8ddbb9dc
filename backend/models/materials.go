package models

type Material struct {
	Base
	Title    string `gorm:"not null" json:"title"`
	Subtitle string `json:"subtitle"`
	Content  string `json:"content"`
	Level    string `json:"level"` // junior, middle, senior
}

// UserMaterial — связка "пользователь - материал" с флагом лайка.
type UserMaterial struct {
	Base
	UserID     string `gorm:"type:uuid;not null;uniqueIndex:idx_user_material" json:"user_id"`
	MaterialID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_material" json:"material_id"`
	IsLiked    bool   `json:"is_liked"`
}

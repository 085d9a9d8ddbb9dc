package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Base
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Role         string     `gorm:"default:user" json:"role"` // user, admin
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Level        string     `json:"level,omitempty"` // junior, middle, senior
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName — имя для лидерборда; если имя не заполнено, берём email.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

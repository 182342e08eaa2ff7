package entity

import "time"

// User 系统用户
type User struct {
	ID           string      `json:"id" gorm:"primaryKey;size:36"`
	Username     string      `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string      `json:"email" gorm:"size:200;uniqueIndex"`
	Name         string      `json:"name" gorm:"size:100"`
	PasswordHash string      `json:"-" gorm:"size:100;not null"`
	Roles        *JSONBArray `json:"roles" gorm:"type:jsonb"`
	IsActive     bool        `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

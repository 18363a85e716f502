package models

import "gorm.io/gorm"

// User 注册用户
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex:idx_users_email;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"type:varchar(100);not null"`
}

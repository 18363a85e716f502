package models

import "gorm.io/gorm"

// Post 博客帖子
type Post struct {
	gorm.Model
	Title   string `gorm:"type:varchar(255);not null"`
	Content string `gorm:"type:text;not null"`

	// ImageFile 为存储层中配图文件的标识符，帖子存在期间文件必须存在
	ImageFile string `gorm:"not null"`

	// Creator 为冗余的作者展示名（尚无会话层，创建时写入占位身份）
	Creator string `gorm:"type:varchar(100);not null"`
}

package model

import "time"

type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"index;not null" json:"post"`
	AuthorID uint   `gorm:"index;not null" json:"author"`
	Content  string `gorm:"not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post   Post `gorm:"foreignKey:PostID" json:"-"`
	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

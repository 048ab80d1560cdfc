package model

import "time"

// Like records that a user liked a post. The composite unique index
// keeps repeated likes out at the database level.
type Like struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_user_post;not null" json:"user"`
	PostID uint `gorm:"uniqueIndex:idx_user_post;not null" json:"post"`

	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

package model

import "time"

type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AuthorID    uint   `gorm:"index;not null" json:"author"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"unique;not null" json:"slug"`
	Content     string `gorm:"not null" json:"content"`
	Cover       string `json:"cover"`
	IsPublished bool   `gorm:"default:false;index:idx_published_created" json:"is_published"`

	CreatedAt time.Time `gorm:"index:idx_published_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author   User      `gorm:"foreignKey:AuthorID" json:"-"`
	Tags     []Tag     `gorm:"many2many:post_tags" json:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

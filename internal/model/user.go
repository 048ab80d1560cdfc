// Package model contains the gorm table definitions
package model

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phone_number"`
	IsAdminUser  bool   `gorm:"default:false" json:"is_admin_user"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile         Profile          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Posts           []Post           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Comments        []Comment        `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Likes           []Like           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SecurityAnswers []SecurityAnswer `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

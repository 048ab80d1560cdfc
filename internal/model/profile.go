package model

import "time"

// Profile holds the public-facing extras of an account. One row per
// user, created together with the user and removed with it.
type Profile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
	Linkedin string `json:"linkedin"`
	Github   string `json:"github"`
	Facebook string `json:"facebook"`
	Website  string `json:"website"`
	XTwitter string `json:"x_twitter"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

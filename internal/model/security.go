package model

// SecurityQuestion is shared across all users and seeded at startup.
// The recovery flow expects exactly three canonical questions.
type SecurityQuestion struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	QuestionText string `gorm:"unique;not null" json:"question_text"`
}

// SecurityAnswer stores a user's answer to one question. A user can
// answer each question at most once.
type SecurityAnswer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"uniqueIndex:idx_user_question;not null" json:"user_id"`
	QuestionID uint   `gorm:"uniqueIndex:idx_user_question;not null" json:"question_id"`
	Answer     string `gorm:"not null" json:"-"`

	User     User             `gorm:"foreignKey:UserID" json:"-"`
	Question SecurityQuestion `gorm:"foreignKey:QuestionID" json:"-"`
}

package internal

import (
	"quillbit/blog-api/internal/service"
	"quillbit/blog-api/pkg/security"

	"gorm.io/gorm"
)

// Deps carries everything handlers need. One instance is built at
// startup and shared by every request.
type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Tokens   *security.Issuer
	Sessions *service.Sessions
	Gemini   *service.Gemini
}

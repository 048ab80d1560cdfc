package service

import (
	"fmt"

	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/security"
	"quillbit/blog-api/pkg/util"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The recovery flow expects exactly these three questions, in this
// order, to exist before the first signup.
var defaultQuestions = []string{
	"What is your favourite colour?",
	"What is your favourite animal?",
	"What is your favourite food?",
}

var defaultTags = []string{
	"python", "java", "javascript", "typescript", "golang", "ruby", "php",
	"react", "vue", "angular", "html", "css",
	"django", "flask", "spring", "express", "gin",
	"aws", "azure", "gcp", "docker", "kubernetes", "devops", "terraform",
	"machine learning", "deep learning", "data science",
	"database", "mysql", "postgresql", "mongodb", "redis", "sqlite",
	"android", "ios", "flutter", "react native",
	"web development", "mobile development", "full stack", "backend", "frontend",
	"design patterns", "clean code", "refactoring", "testing",
	"security", "authentication", "authorization",
	"git", "rest api", "graphql", "microservices",
	"career", "interview", "productivity", "open source", "other",
}

// SeedDefaults makes sure the rows the app cannot run without exist:
// the canonical security questions, the starter tag set and, when
// enabled, a default admin account. Safe to run on every boot.
func SeedDefaults(db *gorm.DB, argon *security.ArgonHash, withAdmin bool) error {
	for _, q := range defaultQuestions {
		if err := db.Where(model.SecurityQuestion{QuestionText: q}).
			FirstOrCreate(&model.SecurityQuestion{}).Error; err != nil {
			return fmt.Errorf("failed to seed security questions, %w", err)
		}
	}

	for _, name := range defaultTags {
		tag := model.Tag{Name: name, Slug: util.Slugify(name)}
		if err := db.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("failed to seed tags, %w", err)
		}
	}

	if !withAdmin {
		return nil
	}

	return seedAdmin(db, argon)
}

func seedAdmin(db *gorm.DB, argon *security.ArgonHash) error {
	var count int64
	if err := db.Model(&model.User{}).Where("is_admin_user = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look for an admin account, %w", err)
	}

	if count > 0 {
		return nil
	}

	hash, err := argon.GenerateFromPassword(viper.GetString("admin.password"))
	if err != nil {
		return fmt.Errorf("failed to hash the default admin password, %w", err)
	}

	admin := model.User{
		Username:     viper.GetString("admin.username"),
		Email:        viper.GetString("admin.email"),
		PasswordHash: hash,
		IsAdminUser:  true,
		IsActive:     true,
		Profile:      model.Profile{},
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create the default admin, %w", err)
	}

	zap.L().Info("Created default admin account", zap.String("username", admin.Username))
	return nil
}

// Package db opens the configured database and keeps the schema current
package db

import (
	"errors"
	"fmt"

	"quillbit/blog-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dial = postgres.Open(viper.GetString("db.dsn"))
	case "sqlite":
		dial = sqlite.Open(viper.GetString("db.dsn"))
	default:
		return nil, errors.New("invalid database driver provided")
	}

	db, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(
		model.User{},
		model.Profile{},
		model.Post{},
		model.Tag{},
		model.Comment{},
		model.Like{},
		model.SecurityQuestion{},
		model.SecurityAnswer{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}

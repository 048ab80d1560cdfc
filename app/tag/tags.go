// Package tag contains the tag endpoints
package tag

import (
	"fmt"
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// List returns every tag. Readable without authentication.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var tags []model.Tag
	if err := d.DB.Order("name").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list tags", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, tags)
}

type tagBody struct {
	Name string `json:"name"`
}

// Create adds a new tag with an auto-generated slug.
func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data tagBody
	if err := c.ShouldBind(&data); err != nil || data.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Tag name is required",
			"requestID": requestID,
		})
		return
	}

	if len(data.Name) > 30 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Tag name is too long",
			"requestID": requestID,
		})
		return
	}

	var exists bool
	r := d.DB.Model(model.Tag{}).Select("count(*) > 0").
		Where("LOWER(name) = LOWER(?)", data.Name).First(&exists)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check tag", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if exists {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This tag already exists",
			"requestID": requestID,
		})
		return
	}

	slug, err := uniqueTagSlug(d.DB, data.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate tag slug", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	tag := model.Tag{Name: data.Name, Slug: slug}
	if err := d.DB.Create(&tag).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create tag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, tag)
}

func uniqueTagSlug(db *gorm.DB, name string) (string, error) {
	base := util.Slugify(name)
	if base == "" {
		base = "tag"
	}

	slug := base
	for num := 1; ; num++ {
		var taken bool
		err := db.Model(model.Tag{}).Select("count(*) > 0").
			Where("slug = ?", slug).First(&taken).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return "", err
		}

		if !taken {
			return slug, nil
		}

		slug = fmt.Sprintf("%s-%d", base, num)
	}
}

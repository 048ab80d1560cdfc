// Package post contains the blog post endpoints
package post

import (
	"fmt"
	"html"
	"net/http"
	"slices"
	"strings"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/guard"
	"quillbit/blog-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var orderings = []string{"created_at", "updated_at"}

type postBody struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Cover       string   `json:"cover"`
	IsPublished bool     `json:"is_published"`
	Tags        []string `json:"tags"`
}

type postOut struct {
	ID             uint         `json:"id"`
	Author         uint         `json:"author"`
	AuthorUsername string       `json:"author_username"`
	AuthorAvatar   string       `json:"author_avatar"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	Content        string       `json:"content"`
	Cover          string       `json:"cover"`
	IsPublished    bool         `json:"is_published"`
	Tags           []string     `json:"tags"`
	CreatedAt      any          `json:"created_at"`
	UpdatedAt      any          `json:"updated_at"`
	LikesCount     int          `json:"likes_count"`
	LikedByUser    bool         `json:"liked_by_user"`
	LikeID         *uint        `json:"like_id"`
	Comments       []model.Comment `json:"comments,omitempty"`
}

func render(d *internal.Deps, p *model.Post, userID uint, withComments bool) postOut {
	out := postOut{
		ID:             p.ID,
		Author:         p.AuthorID,
		AuthorUsername: p.Author.Username,
		AuthorAvatar:   p.Author.Profile.Avatar,
		Title:          p.Title,
		Slug:           p.Slug,
		Content:        p.Content,
		Cover:          p.Cover,
		IsPublished:    p.IsPublished,
		Tags:           make([]string, 0, len(p.Tags)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		LikesCount:     len(p.Likes),
	}

	for _, t := range p.Tags {
		out.Tags = append(out.Tags, t.Name)
	}

	for _, l := range p.Likes {
		if userID != 0 && l.UserID == userID {
			out.LikedByUser = true
			id := l.ID
			out.LikeID = &id
		}
	}

	if withComments {
		out.Comments = p.Comments
	}

	return out
}

func preloaded(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Author.Profile").Preload("Tags").Preload("Likes")
}

// List returns published posts, optionally filtered by tag name,
// author id and a title/content search term.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	q := preloaded(d.DB).Where("is_published = ?", true)

	if tag := c.Query("tags"); tag != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("LOWER(tags.name) = LOWER(?)", tag)
	}

	if author := c.Query("author"); author != "" {
		q = q.Where("author_id = ?", author)
	}

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}

	order := "created_at desc"
	if o := c.Query("ordering"); o != "" {
		field, desc := strings.CutPrefix(o, "-")
		if slices.Contains(orderings, field) {
			order = field
			if desc {
				order += " desc"
			}
		}
	}

	var posts []model.Post
	if err := q.Order(order).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list posts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID := c.GetUint("userID")
	out := make([]postOut, 0, len(posts))
	for i := range posts {
		out = append(out, render(d, &posts[i], userID, false))
	}

	c.JSON(http.StatusOK, out)
}

// Get returns a single post by slug, comments included.
func Get(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var post model.Post
	err := preloaded(d.DB).Preload("Comments").
		Where("slug = ?", c.Param("slug")).First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Post not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, render(d, &post, c.GetUint("userID"), true))
}

// Create stores a new post owned by the caller. Titles are rejected
// when they resemble markup or SQL and are HTML-escaped before
// storage; content may carry benign HTML but no script constructs.
func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data postBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Title == "" || data.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Title and content are required",
			"requestID": requestID,
		})
		return
	}

	if guard.ContainsSQLInjection(data.Title) || guard.ContainsXSS(data.Title) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Title contains unsafe content",
			"requestID": requestID,
		})
		return
	}

	if guard.ContainsScriptMarkup(data.Content) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Content contains unsafe content",
			"requestID": requestID,
		})
		return
	}

	tags, err := resolveTags(d.DB, data.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	slug, err := uniqueSlug(d.DB, data.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate slug", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	post := model.Post{
		AuthorID:    c.GetUint("userID"),
		Title:       html.EscapeString(data.Title),
		Slug:        slug,
		Content:     data.Content,
		Cover:       data.Cover,
		IsPublished: data.IsPublished,
		Tags:        tags,
	}

	if err := d.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var created model.Post
	if err := preloaded(d.DB).First(&created, post.ID).Error; err != nil {
		created = post
	}

	c.JSON(http.StatusCreated, render(d, &created, c.GetUint("userID"), false))
}

// resolveTags maps tag names to existing rows. Unknown names are an
// input error, tags are curated separately.
func resolveTags(db *gorm.DB, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))

	for _, name := range names {
		var tag model.Tag
		if err := db.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("unknown tag: %s", name)
			}
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// uniqueSlug slugifies the title and appends -1, -2, ... until the
// slug is free.
func uniqueSlug(db *gorm.DB, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "post"
	}

	slug := base
	for num := 1; ; num++ {
		var taken bool
		err := db.Model(model.Post{}).Select("count(*) > 0").
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

package post

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setup builds a router with a stand-in auth middleware that trusts
// the X-Test-User header.
func setup(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&model.User{}, &model.Profile{}, &model.Post{},
		&model.Tag{}, &model.Comment{}, &model.Like{},
	))

	d := &internal.Deps{DB: database}

	fakeAuth := func(c *gin.Context) {
		if v := c.GetHeader("X-Test-User"); v != "" {
			var id uint
			fmt.Sscanf(v, "%d", &id)
			c.Set("userID", id)
		}
	}

	r := gin.New()
	r.Use(fakeAuth)
	r.GET("/api/posts", func(c *gin.Context) { List(c, d) })
	r.GET("/api/posts/:slug", func(c *gin.Context) { Get(c, d) })
	r.POST("/api/posts", func(c *gin.Context) { Create(c, d) })
	r.PUT("/api/posts/:slug", func(c *gin.Context) { Update(c, d) })
	r.DELETE("/api/posts/:slug", func(c *gin.Context) { Delete(c, d) })
	r.GET("/api/highlighted-posts", func(c *gin.Context) { Highlighted(c, d) })

	return r, d
}

func seedAuthor(t *testing.T, d *internal.Deps, username string) *model.User {
	t.Helper()

	user := model.User{
		Username:     username,
		Email:        username + "@ex.com",
		PasswordHash: "x",
		IsActive:     true,
		Profile:      model.Profile{},
	}
	require.NoError(t, d.DB.Create(&user).Error)
	return &user
}

func seedTags(t *testing.T, d *internal.Deps, names ...string) {
	t.Helper()

	for _, n := range names {
		require.NoError(t, d.DB.Create(&model.Tag{Name: n, Slug: n}).Error)
	}
}

func do(r *gin.Engine, method, path string, userID uint, body any) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rdr = strings.NewReader(string(raw))
	} else {
		rdr = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", fmt.Sprint(userID))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePost(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")
	seedTags(t, d, "go", "web")

	w := do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
		"title":        "My First Post",
		"content":      "<p>Some thoughts</p>",
		"is_published": true,
		"tags":         []string{"go", "web"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Slug           string   `json:"slug"`
		Author         uint     `json:"author"`
		AuthorUsername string   `json:"author_username"`
		Tags           []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "my-first-post", out.Slug)
	assert.Equal(t, author.ID, out.Author)
	assert.Equal(t, "alice", out.AuthorUsername)
	assert.ElementsMatch(t, []string{"go", "web"}, out.Tags)
}

func TestCreatePostSlugsStayUnique(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	for i, want := range []string{"same-title", "same-title-1", "same-title-2"} {
		w := do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
			"title":   "Same Title",
			"content": fmt.Sprintf("body %d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var out struct {
			Slug string `json:"slug"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, want, out.Slug)
	}
}

func TestCreatePostRejectsUnsafeTitle(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	w := do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
		"title":   "DROP TABLE users",
		"content": "body",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title contains unsafe content")

	w = do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
		"title":   `<script>alert(1)</script>`,
		"content": "body",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePostEscapesTitle(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	w := do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
		"title":   "Benchmarks: a < b & b > c",
		"content": "body",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var post model.Post
	require.NoError(t, d.DB.Last(&post).Error)
	assert.Equal(t, "Benchmarks: a &lt; b &amp; b &gt; c", post.Title)
}

func TestCreatePostRejectsScriptContent(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	w := do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
		"title":   "Fine Title",
		"content": `<p>hi</p><script>alert(1)</script>`,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Content contains unsafe content")

	// Benign HTML is allowed
	w = do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
		"title":   "Fine Title",
		"content": `<h2>Hi</h2><p>Some <strong>bold</strong> text</p>`,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreatePostUnknownTag(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	w := do(r, http.MethodPost, "/api/posts", author.ID, gin.H{
		"title":   "Tagged Post",
		"content": "body",
		"tags":    []string{"missing"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown tag: missing")
}

func TestListShowsOnlyPublishedPosts(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	require.NoError(t, d.DB.Create(&model.Post{
		AuthorID: author.ID, Title: "Public", Slug: "public", Content: "x", IsPublished: true,
	}).Error)
	require.NoError(t, d.DB.Create(&model.Post{
		AuthorID: author.ID, Title: "Draft", Slug: "draft", Content: "x", IsPublished: false,
	}).Error)

	w := do(r, http.MethodGet, "/api/posts", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "public", posts[0]["slug"])
}

func TestGetPostBySlug(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	post := model.Post{
		AuthorID: author.ID, Title: "Deep Dive", Slug: "deep-dive", Content: "x", IsPublished: true,
	}
	require.NoError(t, d.DB.Create(&post).Error)
	require.NoError(t, d.DB.Create(&model.Comment{
		PostID: post.ID, AuthorID: author.ID, Content: "nice one",
	}).Error)

	w := do(r, http.MethodGet, "/api/posts/deep-dive", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nice one")

	w = do(r, http.MethodGet, "/api/posts/no-such-slug", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLikedByUser(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")
	reader := seedAuthor(t, d, "bob")

	post := model.Post{
		AuthorID: author.ID, Title: "Liked", Slug: "liked", Content: "x", IsPublished: true,
	}
	require.NoError(t, d.DB.Create(&post).Error)
	require.NoError(t, d.DB.Create(&model.Like{UserID: reader.ID, PostID: post.ID}).Error)

	w := do(r, http.MethodGet, "/api/posts", reader.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []struct {
		LikesCount  int  `json:"likes_count"`
		LikedByUser bool `json:"liked_by_user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].LikesCount)
	assert.True(t, posts[0].LikedByUser)

	// Anonymous readers see the count but no ownership flag
	w = do(r, http.MethodGet, "/api/posts", 0, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	assert.False(t, posts[0].LikedByUser)
}

func TestUpdatePostOwnership(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")
	other := seedAuthor(t, d, "mallory")

	require.NoError(t, d.DB.Create(&model.Post{
		AuthorID: author.ID, Title: "Mine", Slug: "mine", Content: "x", IsPublished: true,
	}).Error)

	w := do(r, http.MethodPut, "/api/posts/mine", other.ID, gin.H{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPut, "/api/posts/mine", author.ID, gin.H{"title": "Mine Updated"})
	assert.Equal(t, http.StatusOK, w.Code)

	var post model.Post
	require.NoError(t, d.DB.Where("slug = ?", "mine").First(&post).Error)
	assert.Equal(t, "Mine Updated", post.Title)
}

func TestDeletePostCascades(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")

	post := model.Post{
		AuthorID: author.ID, Title: "Doomed", Slug: "doomed", Content: "x", IsPublished: true,
	}
	require.NoError(t, d.DB.Create(&post).Error)
	require.NoError(t, d.DB.Create(&model.Comment{PostID: post.ID, AuthorID: author.ID, Content: "c"}).Error)
	require.NoError(t, d.DB.Create(&model.Like{UserID: author.ID, PostID: post.ID}).Error)

	w := do(r, http.MethodDelete, "/api/posts/doomed", author.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	d.DB.Model(&model.Comment{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Zero(t, count)
	d.DB.Model(&model.Like{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Zero(t, count)
}

func TestHighlightedPosts(t *testing.T) {
	r, d := setup(t)
	author := seedAuthor(t, d, "alice")
	fans := []*model.User{seedAuthor(t, d, "f1"), seedAuthor(t, d, "f2")}

	popular := model.Post{AuthorID: author.ID, Title: "Popular", Slug: "popular", Content: "x", IsPublished: true}
	require.NoError(t, d.DB.Create(&popular).Error)
	quiet := model.Post{AuthorID: author.ID, Title: "Quiet", Slug: "quiet", Content: "x", IsPublished: true}
	require.NoError(t, d.DB.Create(&quiet).Error)

	for _, f := range fans {
		require.NoError(t, d.DB.Create(&model.Like{UserID: f.ID, PostID: popular.ID}).Error)
	}

	w := do(r, http.MethodGet, "/api/highlighted-posts", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Latest    []map[string]any `json:"latest"`
		MostLiked []map[string]any `json:"most_liked"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.MostLiked)
	assert.Equal(t, "popular", resp.MostLiked[0]["slug"])
	assert.Len(t, resp.Latest, 2)
}

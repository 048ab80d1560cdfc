package tag

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

func setup(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&model.Tag{}))

	d := &internal.Deps{DB: database}

	r := gin.New()
	r.GET("/api/tags", func(c *gin.Context) { List(c, d) })
	r.POST("/api/tags", func(c *gin.Context) { Create(c, d) })

	return r, d
}

func post(r *gin.Engine, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTag(t *testing.T) {
	r, _ := setup(t)

	w := post(r, gin.H{"name": "Cloud Computing"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tag model.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tag))
	assert.Equal(t, "Cloud Computing", tag.Name)
	assert.Equal(t, "cloud-computing", tag.Slug)
}

func TestCreateTagValidation(t *testing.T) {
	r, _ := setup(t)

	w := post(r, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Tag name is required")

	w = post(r, gin.H{"name": strings.Repeat("x", 31)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Tag name is too long")
}

func TestCreateTagDuplicateIsCaseInsensitive(t *testing.T) {
	r, _ := setup(t)

	w := post(r, gin.H{"name": "DevOps"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = post(r, gin.H{"name": "devops"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "This tag already exists")
}

func TestListTagsSortedByName(t *testing.T) {
	r, d := setup(t)

	for _, n := range []string{"zig", "ada", "moss"} {
		require.NoError(t, d.DB.Create(&model.Tag{Name: n, Slug: n}).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []model.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 3)
	assert.Equal(t, "ada", tags[0].Name)
	assert.Equal(t, "zig", tags[2].Name)
}

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/internal/service"
	"quillbit/blog-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memCache keeps session state in a map so the tests run without redis.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]string{}}
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key], nil
}

func (m *memCache) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func setup(t *testing.T) (*gin.Engine, *internal.Deps, *memCache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.SecurityQuestion{},
		&model.SecurityAnswer{},
	))

	cache := newMemCache()
	d := &internal.Deps{
		DB:       database,
		Argon:    security.NewArgon(),
		Tokens:   security.NewIssuer("test-secret", 30*time.Minute, 720*time.Hour, 30*time.Minute),
		Sessions: service.NewSessions(cache),
	}

	r := gin.New()
	r.POST("/api/signup", func(c *gin.Context) { Signup(c, d) })
	r.POST("/api/login", func(c *gin.Context) { Login(c, d) })
	r.POST("/api/logout", func(c *gin.Context) { Logout(c, d) })
	r.POST("/api/refresh", func(c *gin.Context) { Refresh(c, d) })

	return r, d, cache
}

func seedQuestions(t *testing.T, d *internal.Deps) {
	t.Helper()

	questions := []model.SecurityQuestion{
		{QuestionText: "What is your favourite colour?"},
		{QuestionText: "What is your favourite animal?"},
		{QuestionText: "What is your favourite food?"},
	}
	require.NoError(t, d.DB.Create(&questions).Error)
}

func seedAccount(t *testing.T, d *internal.Deps) *model.User {
	t.Helper()

	hash, err := d.Argon.GenerateFromPassword("pass1234")
	require.NoError(t, err)

	user := model.User{
		Username:     "alice",
		Email:        "alice@ex.com",
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, d.DB.Create(&user).Error)
	return &user
}

func post(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type tokenPair struct {
	Refresh     string `json:"refresh"`
	Access      string `json:"access"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsAdminUser bool   `json:"is_admin_user"`
}

func login(t *testing.T, r *gin.Engine, username, password string) tokenPair {
	t.Helper()

	w := post(r, "/api/login", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pair tokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	return pair
}

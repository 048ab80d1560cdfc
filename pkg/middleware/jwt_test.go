package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func jwtTestSetup(t *testing.T) (*gin.Engine, *gorm.DB, *security.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&model.User{}))

	issuer := security.NewIssuer("test-secret", 30*time.Minute, time.Hour, time.Minute)

	r := gin.New()
	r.GET("/protected", NewJWTMiddleware(database, issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":  c.GetUint("userID"),
			"isAdmin": c.GetBool("isAdmin"),
		})
	})
	r.GET("/admin", NewJWTMiddleware(database, issuer), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, database, issuer
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedUser(t *testing.T, db *gorm.DB, admin bool) *model.User {
	t.Helper()

	user := model.User{
		Username: "alice", Email: "alice@ex.com", PasswordHash: "x",
		IsActive: true, IsAdminUser: admin,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestJWTAllowsValidAccessToken(t *testing.T) {
	r, db, issuer := jwtTestSetup(t)
	user := seedUser(t, db, false)

	token, err := issuer.IssueAccess(user.ID)
	require.NoError(t, err)

	w := get(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"userID":%d`, user.ID))
}

func TestJWTMissingAndMalformedHeaders(t *testing.T) {
	r, _, _ := jwtTestSetup(t)

	w := get(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing Authorization header")

	w = get(r, "/protected", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed Authorization header")

	w = get(r, "/protected", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_invalid")
}

func TestJWTRejectsRefreshToken(t *testing.T) {
	r, db, issuer := jwtTestSetup(t)
	user := seedUser(t, db, false)

	token, err := issuer.IssueRefresh(user.ID)
	require.NoError(t, err)

	w := get(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_invalid")
}

func TestJWTRejectsDeletedAndDisabledUsers(t *testing.T) {
	r, db, issuer := jwtTestSetup(t)
	user := seedUser(t, db, false)

	token, err := issuer.IssueAccess(user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	w := get(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "account_disabled")

	require.NoError(t, db.Delete(user).Error)
	w = get(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user_not_found")
}

func TestAdminOnly(t *testing.T) {
	r, db, issuer := jwtTestSetup(t)

	member := seedUser(t, db, false)
	memberToken, err := issuer.IssueAccess(member.ID)
	require.NoError(t, err)

	w := get(r, "/admin", "Bearer "+memberToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	admin := model.User{
		Username: "root", Email: "root@ex.com", PasswordHash: "x",
		IsActive: true, IsAdminUser: true,
	}
	require.NoError(t, db.Create(&admin).Error)
	adminToken, err := issuer.IssueAccess(admin.ID)
	require.NoError(t, err)

	w = get(r, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

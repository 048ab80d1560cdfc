package auth

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	r, d, _ := setup(t)
	user := seedAccount(t, d)
	pair := login(t, r, "alice", "pass1234")

	w := post(r, "/api/refresh", gin.H{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Access)

	claims, err := d.Tokens.Verify(resp.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshMissingToken(t *testing.T) {
	r, _, _ := setup(t)

	w := post(r, "/api/refresh", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing refresh token")
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r, d, _ := setup(t)
	user := seedAccount(t, d)

	access, err := d.Tokens.IssueAccess(user.ID)
	require.NoError(t, err)

	w := post(r, "/api/refresh", gin.H{"refresh": access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid refresh token")
}

func TestRefreshRejectsBlacklistedToken(t *testing.T) {
	r, d, _ := setup(t)
	seedAccount(t, d)
	pair := login(t, r, "alice", "pass1234")

	w := post(r, "/api/logout", gin.H{"refresh": pair.Refresh})
	require.Equal(t, http.StatusResetContent, w.Code)

	w = post(r, "/api/refresh", gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid refresh token")
}

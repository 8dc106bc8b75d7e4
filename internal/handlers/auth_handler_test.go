package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go-resto-api/internal/database"
	"go-resto-api/internal/middleware"
	"go-resto-api/internal/models"
	"go-resto-api/internal/tokencache"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMailer struct {
	to   string
	link string
	err  error
}

func (f *fakeMailer) SendPasswordReset(to, link string) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.link = link
	return nil
}

func setupAuthTest(t *testing.T) (*gin.Engine, *tokencache.MemoryStore, *fakeMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Email: "admin@resto.test", PasswordHash: string(hash)}).Error)

	tokens := tokencache.NewMemoryStore()
	mail := &fakeMailer{}
	h := NewAuthHandler(tokens, mail, "http://localhost:4200/reset-password")

	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/password/email", h.SendResetLink)
	r.POST("/password/reset", h.ResetPassword)
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/administrador", GetAdmin)
	}
	return r, tokens, mail
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func putJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	r, _, _ := setupAuthTest(t)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
	}{
		{"valid credentials", gin.H{"email": "admin@resto.test", "password": "secret123"}, http.StatusOK},
		{"wrong password", gin.H{"email": "admin@resto.test", "password": "nope"}, http.StatusUnauthorized},
		{"unknown email", gin.H{"email": "ghost@resto.test", "password": "secret123"}, http.StatusUnauthorized},
		{"missing fields", gin.H{"email": "admin@resto.test"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/login", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Token     string `json:"token"`
					TokenType string `json:"token_type"`
					ExpiresIn int    `json:"expires_in"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, "bearer", resp.TokenType)
				assert.Equal(t, 86400, resp.ExpiresIn)
			}
		})
	}
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := postJSON(t, r, "/login", gin.H{"email": "admin@resto.test", "password": "secret123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func TestLogoutRevokesToken(t *testing.T) {
	r, _, _ := setupAuthTest(t)
	token := loginToken(t, r)
	auth := map[string]string{"Authorization": "Bearer " + token}

	// Token works before logout
	req := httptest.NewRequest(http.MethodGet, "/administrador", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/logout", gin.H{}, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	// And is rejected afterwards
	req = httptest.NewRequest(http.MethodGet, "/administrador", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	r, _, mail := setupAuthTest(t)

	w := postJSON(t, r, "/password/email", gin.H{"email": "admin@resto.test"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, mail.link)
	assert.Equal(t, "admin@resto.test", mail.to)

	parsed, err := url.Parse(mail.link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.Len(t, token, 64)
	assert.True(t, strings.HasPrefix(mail.link, "http://localhost:4200/reset-password"))

	w = postJSON(t, r, "/password/reset", gin.H{
		"email": "admin@resto.test", "token": token, "password": "newpass456",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Old password out, new password in
	w = postJSON(t, r, "/login", gin.H{"email": "admin@resto.test", "password": "secret123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(t, r, "/login", gin.H{"email": "admin@resto.test", "password": "newpass456"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Tokens are single use
	w = postJSON(t, r, "/password/reset", gin.H{
		"email": "admin@resto.test", "token": token, "password": "thirdpass789",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordResetExpiredToken(t *testing.T) {
	r, tokens, mail := setupAuthTest(t)

	now := time.Now()
	tokens.SetClock(func() time.Time { return now })

	w := postJSON(t, r, "/password/email", gin.H{"email": "admin@resto.test"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	parsed, err := url.Parse(mail.link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	// An hour and change later the token is dead
	tokens.SetClock(func() time.Time { return now.Add(61 * time.Minute) })

	w = postJSON(t, r, "/password/reset", gin.H{
		"email": "admin@resto.test", "token": token, "password": "newpass456",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Password unchanged
	w = postJSON(t, r, "/login", gin.H{"email": "admin@resto.test", "password": "secret123"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPasswordResetRejectsBadToken(t *testing.T) {
	r, _, _ := setupAuthTest(t)

	w := postJSON(t, r, "/password/email", gin.H{"email": "admin@resto.test"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/password/reset", gin.H{
		"email": "admin@resto.test", "token": strings.Repeat("f", 64), "password": "newpass456",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendResetLinkUnknownEmail(t *testing.T) {
	r, _, _ := setupAuthTest(t)

	w := postJSON(t, r, "/password/email", gin.H{"email": "ghost@resto.test"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go-resto-api/internal/auth"
	"go-resto-api/internal/database"
	"go-resto-api/internal/mailer"
	"go-resto-api/internal/models"
	"go-resto-api/internal/tokencache"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// AuthHandler owns login, logout and the password recovery flow. Reset
// tokens and revoked bearer tokens live in the token cache, never in
// the database.
type AuthHandler struct {
	tokens       tokencache.Store
	mail         mailer.Mailer
	resetURLBase string
}

func NewAuthHandler(tokens tokencache.Store, mail mailer.Mailer, resetURLBase string) *AuthHandler {
	return &AuthHandler{tokens: tokens, mail: mail, resetURLBase: resetURLBase}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --- POST: /login ---
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	var admin models.Admin
	if err := database.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"token_type": "bearer",
		"expires_in": int(auth.TokenLifetime.Seconds()),
	})
}

// --- POST: /register ---
// Route registration is gated by configuration; a deployment normally
// runs with exactly one admin seeded at startup.
func (h *AuthHandler) Register(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	var count int64
	database.DB.Model(&models.Admin{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"email": "email already registered"}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register admin"})
		return
	}

	admin := models.Admin{Email: req.Email, PasswordHash: string(hash)}
	if err := database.DB.Create(&admin).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to register admin", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered successfully", "admin": admin})
}

// --- POST: /logout ---
// The bearer token is denylisted until its natural expiry, so a stolen
// copy dies with the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	expiresAt, _ := c.Get("tokenExpiresAt")

	ttl := auth.TokenLifetime
	if exp, ok := expiresAt.(time.Time); ok {
		ttl = time.Until(exp)
	}
	if ttl <= 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
		return
	}

	if err := h.tokens.Set(c.Request.Context(), tokencache.RevokedKey(token), "revoked", ttl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// --- POST: /password/email ---
func (h *AuthHandler) SendResetLink(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	var admin models.Admin
	if err := database.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No account registered with that email"})
		return
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate reset token"})
		return
	}
	token := hex.EncodeToString(buf)

	if err := h.tokens.Set(c.Request.Context(), tokencache.ResetKey(req.Email), token, resetTokenTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store reset token"})
		return
	}

	link := fmt.Sprintf("%s?token=%s&email=%s", h.resetURLBase, token, url.QueryEscape(req.Email))
	if err := h.mail.SendPasswordReset(req.Email, link); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Could not send password reset mail")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send reset email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent"})
}

// --- POST: /password/reset ---
// Tokens are single use: a successful reset deletes the cache entry.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": err.Error()})
		return
	}

	stored, found, err := h.tokens.Get(c.Request.Context(), tokencache.ResetKey(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify reset token"})
		return
	}
	if !found || subtle.ConstantTimeCompare([]byte(stored), []byte(req.Token)) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	var admin models.Admin
	if err := database.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No account registered with that email"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update password"})
		return
	}
	admin.PasswordHash = string(hash)
	if err := database.DB.Save(&admin).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update password", "error": err.Error()})
		return
	}

	if err := h.tokens.Delete(c.Request.Context(), tokencache.ResetKey(req.Email)); err != nil {
		log.Warn().Err(err).Msg("Could not invalidate used reset token")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

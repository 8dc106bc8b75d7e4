package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var baseURL = "http://localhost:8080"

// SetBaseURL configures the public URL prefix for stored images.
func SetBaseURL(u string) {
	if u != "" {
		baseURL = strings.TrimSuffix(u, "/")
	}
}

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// saveUpload stores the uploaded image under ./uploads/<subdir>/ and
// returns the relative path that gets persisted. ok is false when the
// request carried no file for the field.
func saveUpload(c *gin.Context, field, subdir string) (rel string, ok bool, err error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", false, nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", true, fmt.Errorf("unsupported image type %q", ext)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	rel = filepath.Join("uploads", subdir, name)

	if err := os.MkdirAll(filepath.Dir(rel), 0o755); err != nil {
		return "", true, err
	}
	if err := c.SaveUploadedFile(file, rel); err != nil {
		return "", true, err
	}
	return rel, true, nil
}

// removeUpload releases a stored blob. Best effort: a missing file is
// not worth failing the request over.
func removeUpload(rel string) {
	if rel == "" {
		return
	}
	if err := os.Remove(rel); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", rel).Msg("Could not remove stored image")
	}
}

// publicURL turns the persisted relative path into the fully qualified
// URL clients receive.
func publicURL(rel string) string {
	if rel == "" {
		return ""
	}
	return baseURL + "/" + filepath.ToSlash(rel)
}

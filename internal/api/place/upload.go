package place

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

// Uploader stores image files under the configured upload directory.
type Uploader struct {
	cfg config.UploadConfig
}

func NewUploader(cfg config.UploadConfig) *Uploader {
	return &Uploader{cfg: cfg}
}

func (u *Uploader) allowed(ext string) bool {
	for _, allowed := range u.cfg.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Save writes the uploaded file with a uuid-suffixed name and returns
// the filename. The extension must be on the allow-list.
func (u *Uploader) Save(fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !u.allowed(ext) {
		return "", fmt.Errorf("file type %q not allowed: %w", ext, types.ErrBadRequest)
	}
	if u.cfg.MaxSizeBytes > 0 && fileHeader.Size > u.cfg.MaxSizeBytes {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes: %w", u.cfg.MaxSizeBytes, types.ErrBadRequest)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(u.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(fileHeader.Filename), filepath.Ext(fileHeader.Filename))
	name := fmt.Sprintf("%s_%s.%s", sanitizeFilename(base), uuid.NewString()[:8], ext)

	dst, err := os.Create(filepath.Join(u.cfg.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	return name, nil
}

func sanitizeFilename(name string) string {
	cleaned := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "image"
	}
	return cleaned
}

package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/contactsapp/backend/pkg/errors"
	"github.com/contactsapp/backend/pkg/utils"
)

// AvatarDir is where uploaded avatar images land, served under /uploads
const AvatarDir = "uploads/avatars"

// MaxAvatarSizeBytes caps avatar uploads at 5 MiB
const MaxAvatarSizeBytes = 5 << 20

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadService validates uploads and assigns storage paths
type UploadService struct{}

// NewUploadService creates a new UploadService
func NewUploadService() *UploadService {
	return &UploadService{}
}

// AvatarPath validates an uploaded avatar and returns the relative path it
// should be stored at. The directory is created on demand.
func (s *UploadService) AvatarPath(email string, file *multipart.FileHeader) (string, error) {
	if file.Size > MaxAvatarSizeBytes {
		return "", errors.NewValidationError("file", "avatar must not exceed 5 MiB")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExts[ext] {
		return "", errors.NewValidationError("file", fmt.Sprintf("unsupported image type '%s'", ext))
	}

	if err := os.MkdirAll(AvatarDir, 0o755); err != nil {
		return "", errors.NewInternalError("failed to create upload directory", err)
	}

	// Random filename: leaking the email into a public URL is not wanted,
	// and repeated uploads must not collide.
	filename := utils.GenerateID() + ext
	return filepath.Join(AvatarDir, filename), nil
}

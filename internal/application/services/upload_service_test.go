package services

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsapp/backend/pkg/errors"
)

func TestAvatarPathAcceptsImageTypes(t *testing.T) {
	svc := NewUploadService()

	path, err := svc.AvatarPath("jane@example.com", &multipart.FileHeader{
		Filename: "me.PNG",
		Size:     1024,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, AvatarDir))
	assert.True(t, strings.HasSuffix(path, ".png"))
	// The uploader's email must not appear in the public URL
	assert.NotContains(t, path, "jane")
}

func TestAvatarPathRejectsUnsupportedType(t *testing.T) {
	svc := NewUploadService()

	_, err := svc.AvatarPath("jane@example.com", &multipart.FileHeader{
		Filename: "payload.exe",
		Size:     1024,
	})
	require.Error(t, err)
	assert.IsType(t, &errors.ValidationError{}, err)
}

func TestAvatarPathRejectsOversizedFile(t *testing.T) {
	svc := NewUploadService()

	_, err := svc.AvatarPath("jane@example.com", &multipart.FileHeader{
		Filename: "me.jpg",
		Size:     MaxAvatarSizeBytes + 1,
	})
	require.Error(t, err)
	assert.IsType(t, &errors.ValidationError{}, err)
}

func TestAvatarPathsDoNotCollide(t *testing.T) {
	svc := NewUploadService()

	header := &multipart.FileHeader{Filename: "me.jpg", Size: 1024}
	first, err := svc.AvatarPath("jane@example.com", header)
	require.NoError(t, err)
	second, err := svc.AvatarPath("jane@example.com", header)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

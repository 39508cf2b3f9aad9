package services

import (
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"time"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/internal/infrastructure/cache"
	"github.com/contactsapp/backend/internal/infrastructure/persistence"
	"github.com/contactsapp/backend/pkg/constants"
	"github.com/contactsapp/backend/pkg/errors"
)

// UserCacheTTL is how long a cached user profile stays warm
const UserCacheTTL = 15 * time.Minute

// UserService handles user profile reads and avatar management
type UserService struct {
	users  *persistence.UserRepository
	cache  *cache.RedisCache
	upload *UploadService
}

// NewUserService creates a new UserService
func NewUserService(users *persistence.UserRepository, redisCache *cache.RedisCache, upload *UploadService) *UserService {
	return &UserService{
		users:  users,
		cache:  redisCache,
		upload: upload,
	}
}

// GetByEmail returns a user profile, cache-aside through Redis.
// A cold or unavailable cache falls back to the database.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, userCacheKey(email)); err == nil {
			var u models.User
			if err := json.Unmarshal([]byte(raw), &u); err == nil {
				return &u, nil
			}
		} else if !cache.IsMiss(err) {
			log.Printf("⚠️ Redis read failed for %s: %v", email, err)
		}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User", "")
	}

	if s.cache != nil {
		if raw, err := marshalUser(user); err == nil {
			if err := s.cache.Set(ctx, userCacheKey(email), raw, UserCacheTTL); err != nil {
				log.Printf("⚠️ Redis write failed for %s: %v", email, err)
			}
		}
	}

	return user, nil
}

// UpdateAvatar stores an uploaded avatar image and points the user record at
// it. Restricted to administrators; the cached profile is invalidated.
func (s *UserService) UpdateAvatar(ctx context.Context, actorRole, email string, file *multipart.FileHeader,
	save func(dst string) error) (*models.User, error) {
	if !constants.IsAdminRole(actorRole) {
		return nil, errors.NewPermissionError("change avatar of", "user")
	}

	path, err := s.upload.AvatarPath(email, file)
	if err != nil {
		return nil, err
	}

	if err := save(path); err != nil {
		return nil, errors.NewInternalError("failed to save avatar", err)
	}

	if err := s.users.UpdateAvatar(ctx, email, "/"+path); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, userCacheKey(email)); err != nil {
			log.Printf("⚠️ Failed to invalidate cache for %s: %v", email, err)
		}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User", "")
	}

	log.Printf("🖼️ Avatar updated for %s", email)
	return user, nil
}

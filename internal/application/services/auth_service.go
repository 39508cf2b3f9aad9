package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/internal/infrastructure/cache"
	"github.com/contactsapp/backend/internal/infrastructure/database"
	"github.com/contactsapp/backend/internal/infrastructure/persistence"
	"github.com/contactsapp/backend/pkg/auth"
	"github.com/contactsapp/backend/pkg/constants"
	"github.com/contactsapp/backend/pkg/errors"
	"github.com/contactsapp/backend/pkg/utils"
)

// ResetTokenTTL is how long a password reset link stays valid
const ResetTokenTTL = time.Hour

// ConfirmTokenTTL is how long an email confirmation link stays valid
const ConfirmTokenTTL = 24 * time.Hour

// AuthService handles registration, authentication, session management,
// email confirmation and password recovery
type AuthService struct {
	db       *database.PostgresConnection
	users    *persistence.UserRepository
	sessions *persistence.SessionRepository
	outbox   *persistence.OutboxRepository
	cache    *cache.RedisCache
}

// NewAuthService creates a new AuthService
func NewAuthService(db *database.PostgresConnection, users *persistence.UserRepository,
	sessions *persistence.SessionRepository, outbox *persistence.OutboxRepository,
	redisCache *cache.RedisCache) *AuthService {
	return &AuthService{
		db:       db,
		users:    users,
		sessions: sessions,
		outbox:   outbox,
		cache:    redisCache,
	}
}

// SignupRequest carries registration data
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// Signup registers a new unconfirmed user and enqueues the confirmation mail
// in the same transaction as the insert.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest, baseURL string) (*models.User, error) {
	if !auth.IsValidEmail(req.Email) {
		return nil, errors.NewValidationError("email", "Invalid email format")
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, errors.NewValidationError("password", err.Error())
	}

	exists, err := s.users.CheckUserExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if exists {
		return nil, errors.NewConflictError("Account", constants.FieldEmail, req.Email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        utils.GenerateID(),
		Email:     req.Email,
		Password:  hash,
		FullName:  req.FullName,
		Confirmed: false,
		Role:      constants.RoleUser,
	}

	token, err := auth.GenerateActionToken(user.Email, constants.TokenScopeEmailConfirm, ConfirmTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.users.InsertUser(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	payload := models.EmailPayload{FullName: user.FullName, Token: token, BaseURL: baseURL}
	if _, err := s.outbox.Enqueue(ctx, tx, user.Email, constants.EmailKindConfirmation, payload); err != nil {
		return nil, fmt.Errorf("failed to enqueue confirmation email: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit signup: %w", err)
	}

	log.Printf("👤 New account registered: %s", user.Email)
	return user, nil
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	User      auth.UserSession
	ExpiresAt time.Time
}

// Login authenticates a user and creates a revocable session
func (s *AuthService) Login(ctx context.Context, email, password, ip, userAgent string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		log.Printf("⚠️ Login failed for %s: user not found", email)
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	if !auth.VerifyPassword(password, user.Password) {
		log.Printf("⚠️ Login failed for %s: invalid password", email)
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	if !user.Confirmed {
		return nil, errors.NewUnauthorizedError("Email not confirmed")
	}

	userSession := auth.UserSession{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}

	token, err := auth.GenerateToken(userSession)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	claims, err := auth.DecodeToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode issued token: %w", err)
	}
	expiresAt := claims.ExpiresAt.Time
	now := time.Now()

	session := &models.Session{
		ID:           claims.RegisteredClaims.ID,
		UserID:       user.ID,
		Token:        token,
		ExpiresAt:    expiresAt,
		IPAddress:    ip,
		UserAgent:    userAgent,
		IsRevoked:    false,
		LastActivity: now,
	}

	if err := s.sessions.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &LoginResult{
		Token:     token,
		User:      userSession,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSession checks the JWT signature plus the revocation state in the database
func (s *AuthService) ValidateSession(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Invalid or expired token")
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.RegisteredClaims.ID)
	if err == sql.ErrNoRows {
		return nil, errors.NewUnauthorizedError("Session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if revoked {
		return nil, errors.NewUnauthorizedError("Session has been revoked")
	}

	return claims, nil
}

// TouchSession updates the last activity timestamp for a session.
// Fire and forget: activity timestamps are not critical.
func (s *AuthService) TouchSession(sessionID string) {
	go func() {
		_ = s.sessions.TouchSession(context.Background(), sessionID)
	}()
}

// Logout revokes the session behind the token
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := auth.DecodeToken(tokenString)
	if err != nil {
		return errors.NewValidationError("token", "Invalid token")
	}

	err = s.sessions.RevokeSession(ctx, claims.RegisteredClaims.ID)
	if err == nil {
		log.Printf("👋 User logged out: %s (Session: %s)", claims.RegisteredClaims.Subject, claims.RegisteredClaims.ID)
	}
	return err
}

// ChangePassword updates a user's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return errors.NewValidationError("new_password", err.Error())
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return errors.NewNotFoundError("User", userID)
	}

	if !auth.VerifyPassword(currentPassword, user.Password) {
		return errors.NewUnauthorizedError("Current password is incorrect")
	}

	newHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.Email, newHash); err != nil {
		return err
	}

	s.invalidateUserCache(ctx, user.Email)
	log.Printf("🔐 Password changed for user: %s", userID)
	return nil
}

// ConfirmEmail activates the account referenced by a confirmation token.
// Returns true when the account was already confirmed.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	email, err := auth.ValidateActionToken(token, constants.TokenScopeEmailConfirm)
	if err != nil {
		return false, errors.NewValidationError("token", "Verification error")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return false, errors.NewValidationError("token", "Verification error")
	}

	if user.Confirmed {
		return true, nil
	}

	if err := s.users.ConfirmEmail(ctx, email); err != nil {
		return false, err
	}

	s.invalidateUserCache(ctx, email)
	log.Printf("✅ Email confirmed: %s", email)
	return false, nil
}

// ResendConfirmation re-enqueues the confirmation mail. The result never
// reveals whether an account exists for the address.
func (s *AuthService) ResendConfirmation(ctx context.Context, email, baseURL string) (alreadyConfirmed bool, err error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		// Pretend success so the endpoint cannot be used to probe accounts
		return false, nil
	}
	if user.Confirmed {
		return true, nil
	}

	token, err := auth.GenerateActionToken(user.Email, constants.TokenScopeEmailConfirm, ConfirmTokenTTL)
	if err != nil {
		return false, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	payload := models.EmailPayload{FullName: user.FullName, Token: token, BaseURL: baseURL}
	_, err = s.outbox.Enqueue(ctx, s.db.DB(), user.Email, constants.EmailKindConfirmation, payload)
	return false, err
}

// RequestPasswordReset enqueues a reset mail carrying a one-hour scoped token
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, baseURL string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return errors.NewNotFoundError("User", "")
	}

	token, err := auth.GenerateActionToken(user.Email, constants.TokenScopePasswordReset, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	payload := models.EmailPayload{FullName: user.FullName, Token: token, BaseURL: baseURL}
	_, err = s.outbox.Enqueue(ctx, s.db.DB(), user.Email, constants.EmailKindPasswordReset, payload)
	return err
}

// ResetPassword updates the password using a valid reset token
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := auth.ValidateActionToken(token, constants.TokenScopePasswordReset)
	if err != nil {
		return errors.NewValidationError("token", "Invalid or expired reset token")
	}

	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return errors.NewValidationError("new_password", err.Error())
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return errors.NewNotFoundError("User", "")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		return err
	}

	s.invalidateUserCache(ctx, email)
	log.Printf("🔐 Password reset completed for %s", email)
	return nil
}

// invalidateUserCache drops the cached profile after credential or state
// changes. Redis failures are ignored: the cache entry expires on its own.
func (s *AuthService) invalidateUserCache(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, userCacheKey(email)); err != nil {
		log.Printf("⚠️ Failed to invalidate cache for %s: %v", email, err)
	}
}

// userCacheKey builds the Redis key for a cached user profile
func userCacheKey(email string) string {
	return "user:" + email
}

// marshalUser serialises a user for the cache
func marshalUser(u *models.User) (string, error) {
	raw, err := json.Marshal(u)
	return string(raw), err
}

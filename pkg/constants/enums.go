package constants

// Application roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsAdminRole checks if the role grants administrative privileges
func IsAdminRole(role string) bool {
	return role == RoleAdmin
}

// Email outbox kinds
const (
	EmailKindConfirmation  = "confirmation"
	EmailKindPasswordReset = "password_reset"
)

// Token scopes embedded in single-purpose JWTs
const (
	TokenScopeEmailConfirm  = "email_confirm"
	TokenScopePasswordReset = "reset_password"
)

// Worker timings
const (
	// OutboxPollIntervalMs is how often the email worker checks for pending mail
	OutboxPollIntervalMs = 500

	// SessionCleanupCron purges expired/revoked sessions hourly
	SessionCleanupCron = "0 * * * *"

	// OutboxCleanupCron removes old delivered mail daily at 03:15
	OutboxCleanupCron = "15 3 * * *"
)

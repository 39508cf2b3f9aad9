package constants

// Common column names shared across repositories
const (
	FieldID               = "id"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldFullName         = "full_name"
	FieldAvatar           = "avatar"
	FieldConfirmed        = "confirmed"
	FieldRole             = "role"
	FieldCreatedDate      = "created_date"
	FieldLastModifiedDate = "last_modified_date"

	FieldName           = "name"
	FieldPhoneNumber    = "phone_number"
	FieldDateOfBirth    = "date_of_birth"
	FieldAdditionalInfo = "additional_info"
	FieldUserID         = "user_id"

	FieldIsRevoked    = "is_revoked"
	FieldLastActivity = "last_activity"
	FieldExpiresAt    = "expires_at"
)

// Context keys set by middleware
const (
	ContextKeyUser  = "user"
	ContextKeyToken = "token"
)

// HTTP header names
const (
	HeaderAuthorization = "Authorization"
	HeaderProcessTime   = "My-Process-Time"
)

// Response envelope keys
const (
	ResponseError   = "error"
	ResponseMessage = "message"
)

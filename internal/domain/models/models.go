package models

import "time"

// User is a registered account
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	FullName         string    `json:"full_name"`
	Avatar           *string   `json:"avatar,omitempty"`
	Confirmed        bool      `json:"confirmed"`
	Role             string    `json:"role"`
	CreatedDate      time.Time `json:"created_date"`
	LastModifiedDate time.Time `json:"last_modified_date"`
}

// Contact is an address-book entry owned by a user
type Contact struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	DateOfBirth      time.Time `json:"date_of_birth"`
	AdditionalInfo   *string   `json:"additional_info,omitempty"`
	UserID           string    `json:"user_id"`
	CreatedDate      time.Time `json:"created_date"`
	LastModifiedDate time.Time `json:"last_modified_date"`
}

// Session is a revocable login session backing a JWT (keyed by the token JTI)
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Token            string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
	IsRevoked        bool      `json:"is_revoked"`
	LastActivity     time.Time `json:"last_activity"`
	CreatedDate      time.Time `json:"created_date"`
	LastModifiedDate time.Time `json:"last_modified_date"`
}

// OutboxEmail is a pending or delivered mail job stored transactionally with
// the write that triggered it
type OutboxEmail struct {
	ID               string    `json:"id"`
	Recipient        string    `json:"recipient"`
	Kind             string    `json:"kind"`
	Payload          string    `json:"payload"`
	Status           string    `json:"status"`
	RetryCount       int       `json:"retry_count"`
	LastError        *string   `json:"last_error,omitempty"`
	CreatedDate      time.Time `json:"created_date"`
	LastModifiedDate time.Time `json:"last_modified_date"`
}

// EmailPayload is the JSON document stored in OutboxEmail.Payload
type EmailPayload struct {
	FullName string `json:"full_name"`
	Token    string `json:"token"`
	BaseURL  string `json:"base_url"`
}

package utils

import "github.com/google/uuid"

// GenerateID returns a new random UUID string used as a primary key
func GenerateID() string {
	return uuid.NewString()
}

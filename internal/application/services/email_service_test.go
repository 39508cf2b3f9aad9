package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsapp/backend/internal/domain/models"
)

func TestNewEmailServiceParsesTemplates(t *testing.T) {
	svc := NewEmailService()
	require.NotNil(t, svc)
	assert.NotNil(t, svc.templates.Lookup("email_confirmation.html"))
	assert.NotNil(t, svc.templates.Lookup("password_reset.html"))
}

func TestSendRejectsUnknownKind(t *testing.T) {
	svc := NewEmailService()

	err := svc.Send("jane@example.com", "newsletter", models.EmailPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown email kind")
}

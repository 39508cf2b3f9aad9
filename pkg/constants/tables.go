package constants

// Database table names
const (
	TableUsers       = "users"
	TableContacts    = "contacts"
	TableSessions    = "sessions"
	TableEmailOutbox = "email_outbox"
)

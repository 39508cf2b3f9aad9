package bootstrap

import (
	"fmt"
	"log"

	"github.com/contactsapp/backend/internal/infrastructure/database"
	"github.com/contactsapp/backend/pkg/constants"
)

// InitializeSchema creates the application tables when they do not exist yet.
// DDL is idempotent so repeated startups are safe.
func InitializeSchema(db *database.PostgresConnection) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id                 TEXT PRIMARY KEY,
			email              VARCHAR(150) NOT NULL UNIQUE,
			password           VARCHAR(150) NOT NULL,
			full_name          VARCHAR(100) NOT NULL,
			avatar             VARCHAR(255),
			confirmed          BOOLEAN NOT NULL DEFAULT FALSE,
			role               VARCHAR(20) NOT NULL DEFAULT 'user',
			created_date       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_modified_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, constants.TableUsers),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id                 TEXT PRIMARY KEY,
			name               VARCHAR(150) NOT NULL,
			email              VARCHAR(150) NOT NULL,
			phone_number       VARCHAR(20) NOT NULL,
			date_of_birth      DATE NOT NULL,
			additional_info    VARCHAR(500),
			user_id            TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			created_date       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_modified_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, constants.TableContacts, constants.TableUsers),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_contacts_user_id ON %s (user_id)`, constants.TableContacts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			token              TEXT NOT NULL,
			expires_at         TIMESTAMPTZ NOT NULL,
			ip_address         VARCHAR(45),
			user_agent         VARCHAR(255),
			is_revoked         BOOLEAN NOT NULL DEFAULT FALSE,
			last_activity      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_date       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_modified_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, constants.TableSessions, constants.TableUsers),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id                 TEXT PRIMARY KEY,
			recipient          VARCHAR(150) NOT NULL,
			kind               VARCHAR(30) NOT NULL,
			payload            TEXT NOT NULL,
			status             VARCHAR(20) NOT NULL DEFAULT 'pending',
			retry_count        INT NOT NULL DEFAULT 0,
			last_error         TEXT,
			created_date       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_modified_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, constants.TableEmailOutbox),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_email_outbox_status ON %s (status, created_date)`, constants.TableEmailOutbox),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
	}

	log.Println("📦 Database schema initialized")
	return nil
}

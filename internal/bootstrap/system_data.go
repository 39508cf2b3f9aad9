package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/internal/infrastructure/database"
	"github.com/contactsapp/backend/internal/infrastructure/persistence"
	"github.com/contactsapp/backend/pkg/auth"
	"github.com/contactsapp/backend/pkg/constants"
	"github.com/contactsapp/backend/pkg/utils"
)

// InitializeAdminUser seeds the administrator account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Skipped when the env vars are absent or the account exists.
func InitializeAdminUser(db *database.PostgresConnection) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("⚠️  ADMIN_EMAIL/ADMIN_PASSWORD not set - skipping admin seed")
		return nil
	}

	ctx := context.Background()
	users := persistence.NewUserRepository(db.DB())

	exists, err := users.CheckUserExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		ID:        utils.GenerateID(),
		Email:     email,
		Password:  hash,
		FullName:  "Administrator",
		Confirmed: true,
		Role:      constants.RoleAdmin,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := users.InsertUser(ctx, tx, admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("👑 Admin account seeded: %s", email)
	return nil
}

package seeders

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/app/repositories"
	"github.com/shashiranjanraj/devburger/config"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the administrator described by ADMIN_NAME, ADMIN_EMAIL
// and ADMIN_PASSWORD. It does nothing when the email is unset or taken.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "")
	if email == "" {
		return nil
	}
	password := config.Get("ADMIN_PASSWORD", "")
	if len(password) < 6 {
		return fmt.Errorf("ADMIN_PASSWORD must have at least 6 characters")
	}

	users := repositories.NewUserRepository(db)
	taken, err := users.EmailTaken(ctx, email)
	if err != nil || taken {
		return err
	}

	return users.Create(ctx, &models.User{
		Name:     config.Get("ADMIN_NAME", "Admin"),
		Email:    email,
		Password: password,
		Admin:    true,
	})
}

package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := orm.On(r.db).WithContext(ctx).Model(&models.User{}).Where("email = ?", email).First(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := orm.On(r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", id).First(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether a user already registered email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return orm.On(r.db).WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Exists()
}

// Create hashes the pending password and persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.PrepareForWrite(); err != nil {
		return err
	}
	return orm.On(r.db).WithContext(ctx).Create(user)
}

// IsAdmin reads the admin flag of a user.
func (r *UserRepository) IsAdmin(ctx context.Context, id string) (bool, bool, error) {
	user, err := r.FindByID(ctx, id)
	if errors.Is(err, orm.ErrNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return user.Admin, true, nil
}

package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/app/repositories"
	"github.com/shashiranjanraj/devburger/pkg/auth"
	"github.com/shashiranjanraj/devburger/pkg/orm"
)

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// RegisterInput is a validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Admin    bool
}

// Register creates a user. A taken email yields ErrConflict, whether caught
// by the lookup or by the unique index.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	taken, err := s.users.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Admin:    in.Admin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, orm.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Session is a logged-in user with its token.
type Session struct {
	User  *models.User
	Token string
}

type SessionService struct {
	users  *repositories.UserRepository
	tokens *auth.TokenService
}

func NewSessionService(users *repositories.UserRepository, tokens *auth.TokenService) *SessionService {
	return &SessionService{users: users, tokens: tokens}
}

// Login checks the credentials and issues a token carrying the user's id
// and name.
func (s *SessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Name)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

package controllers

import (
	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/app/resources"
	"github.com/shashiranjanraj/devburger/app/services"
	"github.com/shashiranjanraj/devburger/pkg/ctx"
	"github.com/shashiranjanraj/devburger/pkg/resource"
	"github.com/shashiranjanraj/devburger/pkg/validate"
)

var userStoreSchema = validate.Schema{
	{Name: "name", Required: true, Kind: validate.String},
	{Name: "email", Required: true, Kind: validate.String, Rules: "email"},
	{Name: "password", Required: true, Kind: validate.String, Rules: "min=6"},
	{Name: "admin", Kind: validate.Boolean},
}

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Store registers a user.
func (uc *UserController) Store(c *ctx.Context) {
	body, err := c.Bind(userStoreSchema)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := uc.users.Register(c.Context(), services.RegisterInput{
		Name:     body.String("name"),
		Email:    body.String("email"),
		Password: body.String("password"),
		Admin:    body.Bool("admin"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resource.One[models.User](resources.User{}, *user))
}

var sessionStoreSchema = validate.Schema{
	{Name: "email", Required: true, Kind: validate.String, Rules: "email"},
	{Name: "password", Required: true, Kind: validate.String, Rules: "min=6"},
}

type SessionController struct {
	sessions *services.SessionService
}

func NewSessionController(sessions *services.SessionService) *SessionController {
	return &SessionController{sessions: sessions}
}

// Store logs a user in. Every failure, including a malformed body, gets
// the same 401 so callers cannot probe which part was wrong.
func (sc *SessionController) Store(c *ctx.Context) {
	body, err := c.Bind(sessionStoreSchema)
	if err != nil {
		c.Unauthorized(msgBadCredentials)
		return
	}

	session, err := sc.sessions.Login(c.Context(), body.String("email"), body.String("password"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(resource.With(
		resource.One[models.User](resources.User{}, *session.User),
		resource.Map{"token": session.Token},
	))
}

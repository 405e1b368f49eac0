package controllers

import (
	"github.com/eburutu/mart/app/services"
	"github.com/eburutu/mart/pkg/ctx"
	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/session"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(s *services.Services) *AuthController {
	return &AuthController{service: s.Auth}
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := ac.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("user registered", "user_id", user.ID, "role", user.Role)
	c.Created(map[string]string{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := ac.service.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}

	token, err := session.Issue(c.W, user.ID, user.Role.String())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]any{"token": token, "user": user})
}

// Logout handles POST /api/auth/logout.
func (ac *AuthController) Logout(c *ctx.Context) {
	session.Destroy(c.W, c.R)
	c.Message("Logged out successfully")
}

// Session handles GET /api/auth/session.
func (ac *AuthController) Session(c *ctx.Context) {
	user, err := ac.service.Current(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.OK(map[string]any{"user": user})
}

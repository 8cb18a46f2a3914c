package controllers

import (
	"github.com/shashiranjanraj/diagnocare/app/services"
	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Token signs the posted claims. POST /jwt
func (c *AuthController) Token(x *ctx.Context) {
	claims := x.BindDocument("email")
	if claims == nil {
		return
	}

	token, err := c.auth.IssueToken(claims)
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(map[string]string{"token": token})
}

// Register stores a user on first sign-in. POST /users
func (c *AuthController) Register(x *ctx.Context) {
	user := x.BindDocument("email")
	if user == nil {
		return
	}
	id, err := c.auth.Register(x.Context(), store.Document(user))
	inserted(x, id, err)
}

package controllers

import (
	"github.com/shashiranjanraj/diagnocare/app/repositories"
	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
)

type UserController struct {
	users *repositories.Users
}

func NewUserController(users *repositories.Users) *UserController {
	return &UserController{users: users}
}

// Show GET /user/{email}
func (c *UserController) Show(x *ctx.Context) {
	user, err := c.users.FindByEmail(x.Context(), x.Param("email"))
	document(x, user, err)
}

// Index GET /users
func (c *UserController) Index(x *ctx.Context) {
	users, err := c.users.All(x.Context())
	list(x, users, err)
}

type roleInput struct {
	Role string `json:"role" validate:"required,in=default,admin"`
}

// UpdateRole PATCH /roleUpdate/{id}
func (c *UserController) UpdateRole(x *ctx.Context) {
	var in roleInput
	if !x.BindJSON(&in) {
		return
	}
	res, err := c.users.SetRole(x.Context(), x.Param("id"), in.Role)
	updated(x, res, err, "")
}

// UpdateStatus PATCH /statusUpdate/{id}. Roles change only through
// UpdateRole and the email is fixed at registration, so both fields are
// ignored here.
func (c *UserController) UpdateStatus(x *ctx.Context) {
	doc, ok := fields(x)
	if !ok {
		return
	}
	delete(doc, "role")
	delete(doc, "email")
	if len(doc) == 0 {
		x.ValidationError(map[string]string{"body": "At least one field is required."})
		return
	}
	res, err := c.users.Update(x.Context(), x.Param("id"), doc)
	updated(x, res, err, "")
}

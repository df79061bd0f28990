package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"snowflake-admin/internal/model"
	"snowflake-admin/internal/snowflake"
)

type UserController struct {
	users     UserAdmin
	validator *validator.Validate
}

func NewUserController(users UserAdmin) *UserController {
	return &UserController{
		users:     users,
		validator: validator.New(),
	}
}

// @Router /api/v1/users [get]
func (uc *UserController) ListUsers(c *gin.Context) {
	frame, err := uc.users.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, frame)
}

// @Router /api/v1/users/{name} [get]
func (uc *UserController) DescribeUser(c *gin.Context) {
	frame, err := uc.users.Describe(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, frame)
}

// CreateUser creates a user who must change the password at first login
// @Router /api/v1/users [post]
func (uc *UserController) CreateUser(c *gin.Context) {
	var spec snowflake.UserSpec
	if !bindJSON(c, uc.validator, &spec) {
		return
	}
	uc.run(c, func() (string, error) {
		return uc.users.Create(c.Request.Context(), spec)
	})
}

// @Router /api/v1/users/{name} [delete]
func (uc *UserController) RemoveUser(c *gin.Context) {
	uc.run(c, func() (string, error) {
		return uc.users.Remove(c.Request.Context(), c.Param("name"))
	})
}

// @Router /api/v1/users/{name}/reset-password [post]
func (uc *UserController) ResetPassword(c *gin.Context) {
	uc.run(c, func() (string, error) {
		return uc.users.ResetPassword(c.Request.Context(), c.Param("name"))
	})
}

// @Router /api/v1/users/{name}/roles [post]
func (uc *UserController) AddRole(c *gin.Context) {
	var req model.UserRoleRequest
	if !bindJSON(c, uc.validator, &req) {
		return
	}
	uc.run(c, func() (string, error) {
		return uc.users.AddRole(c.Request.Context(), c.Param("name"), req.Role)
	})
}

// @Router /api/v1/users/{name}/roles/{role} [delete]
func (uc *UserController) RemoveRole(c *gin.Context) {
	uc.run(c, func() (string, error) {
		return uc.users.RemoveRole(c.Request.Context(), c.Param("name"), c.Param("role"))
	})
}

func (uc *UserController) run(c *gin.Context, fn func() (string, error)) {
	status, err := fn()
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatus(c, status)
}

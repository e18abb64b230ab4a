package controllers

import (
	"errors"

	"classroom/backend/session"
	"classroom/backend/store"
	"classroom/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Users    *store.Users
	Sessions *session.Manager
}

func NewAuthController(users *store.Users, sessions *session.Manager) *AuthController {
	return &AuthController{Users: users, Sessions: sessions}
}

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup godoc
// @Summary Register a new student account
// @Description Creates a user with role student
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/signup [post]
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	user, err := ac.Users.Create(input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrValidation):
			return utils.ValidationError(c, "Username and password are required")
		case errors.Is(err, store.ErrUsernameTaken):
			return utils.Conflict(c, "Username already exists")
		}
		return utils.InternalServerError(c, "Could not create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Login godoc
// @Summary Log in
// @Description Authenticates the credential and binds the identity to the browser session
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	ident, err := ac.Sessions.Authenticate(c, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		return utils.InternalServerError(c, "Could not authenticate")
	}

	return c.JSON(fiber.Map{"user": ident})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session binding
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Sessions.Destroy(c); err != nil {
		return utils.InternalServerError(c, "Could not clear session")
	}
	return utils.NoContent(c)
}

// Me godoc
// @Summary Current identity
// @Description Returns the identity snapshot bound to the session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	ident, ok := ac.Sessions.Resolve(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    "Unauthorized",
			"redirect": "/auth/login",
		})
	}
	return c.JSON(fiber.Map{"user": ident})
}

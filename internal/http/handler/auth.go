package handler

import (
	"github.com/gofiber/fiber/v2"

	"govdocs/internal/service"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type passwordUpdateRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

// SignUp godoc
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.SignUpInput true "Registration"
// @Success 201 {object} model.UserWithRoles
// @Router /api/v1/auth/signup [post]
func SignUp(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SignUpInput
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		u, err := svc.SignUp(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// SignIn godoc
// @Summary Start a session
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.Session
// @Router /api/v1/auth/signin [post]
func SignIn(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in signInRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		sess, err := svc.SignIn(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(sess)
	}
}

// SignOut revokes the current session token.
func SignOut(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.SignOut(c.UserContext(), a); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetSession returns the signed-in user.
func GetSession(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		u, err := svc.Session(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"user": u, "expires_at": a.ExpiresAt})
	}
}

// RequestPasswordReset always answers 202 for well-formed addresses.
func RequestPasswordReset(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in emailRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		if err := svc.RequestPasswordReset(c.UserContext(), in.Email); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	}
}

// UpdatePassword completes a reset started by RequestPasswordReset.
func UpdatePassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in passwordUpdateRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		if err := svc.ResetPassword(c.UserContext(), in.Token, in.Password); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func VerifyEmail(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in tokenRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		if err := svc.Verify(c.UserContext(), in.Token); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ResendVerification(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in emailRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		if err := svc.ResendVerification(c.UserContext(), in.Email); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"govdocs/internal/service"
)

type profileRequest struct {
	FullName string `json:"full_name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ListUsers is the admin user directory.
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		users, err := svc.List(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"data": users})
	}
}

func ListDepartments(svc service.DepartmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"data": deps})
	}
}

func GetProfile(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		u, err := svc.GetProfile(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

func UpdateProfile(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		var in profileRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		p, err := svc.UpdateProfile(c.UserContext(), a, in.FullName)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

func ChangePassword(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		var in changePasswordRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		if err := svc.ChangePassword(c.UserContext(), a, in.CurrentPassword, in.NewPassword); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Dashboard godoc
// @Summary Landing-page counters
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.DashboardStats
// @Security BearerAuth
// @Router /api/v1/dashboard [get]
func Dashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		st, err := svc.Stats(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(st)
	}
}

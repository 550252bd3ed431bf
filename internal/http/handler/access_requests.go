package handler

import (
	"github.com/gofiber/fiber/v2"

	"govdocs/internal/service"
)

type reviewRequest struct {
	Decision service.ReviewDecision `json:"decision"`
}

// ListAccessRequests is the admin review queue.
func ListAccessRequests(svc service.AccessRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		reqs, err := svc.ListAll(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"data": reqs})
	}
}

func ListMyAccessRequests(svc service.AccessRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		reqs, err := svc.ListMine(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"data": reqs})
	}
}

// ReviewAccessRequest godoc
// @Summary Approve or deny a pending request
// @Description Approval grants read access for two hours from the review.
// @Tags access-requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} model.AccessRequest
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/access-requests/{id}/review [post]
func ReviewAccessRequest(svc service.AccessRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in reviewRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		req, err := svc.Review(c.UserContext(), a, id, in.Decision)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(req)
	}
}

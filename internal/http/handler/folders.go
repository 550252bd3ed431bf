package handler

import (
	"github.com/gofiber/fiber/v2"

	"govdocs/internal/service"
)

type createFolderRequest struct {
	Name     string `json:"name"`
	IsSecret bool   `json:"is_secret"`
}

type secretRequest struct {
	IsSecret *bool `json:"is_secret"`
}

type accessRequestBody struct {
	Reason string `json:"reason"`
}

// ListFolders godoc
// @Summary List folders
// @Description Own folders (all for admins). scope=all adds other users' folders with a can_read flag.
// @Tags folders
// @Produce json
// @Param scope query string false "all"
// @Success 200 {array} service.FolderView
// @Security BearerAuth
// @Router /api/v1/folders [get]
func ListFolders(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		folders, err := svc.List(c.UserContext(), a, c.Query("scope") == "all")
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"data": folders})
	}
}

func CreateFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		var in createFolderRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		f, err := svc.Create(c.UserContext(), a, in.Name, in.IsSecret)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	}
}

func DeleteFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.Delete(c.UserContext(), a, id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetFolderSecret is the secret-folder toggle.
func SetFolderSecret(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in secretRequest
		if err := bind(c, &in); err != nil || in.IsSecret == nil {
			return respondError(c, errInvalidBody)
		}
		f, err := svc.SetSecret(c.UserContext(), a, id, *in.IsSecret)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(f)
	}
}

// FolderDocuments lists a readable folder's documents. A secret folder without an active grant
// answers 403 ACCESS_REQUIRED.
func FolderDocuments(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		limit, offset, err := page(c, 50)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.Contents(c.UserContext(), a, id, limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// RequestFolderAccess godoc
// @Summary Request access to a secret folder
// @Tags access-requests
// @Accept json
// @Produce json
// @Param id path string true "Folder ID"
// @Success 201 {object} model.AccessRequest
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/folders/{id}/access-requests [post]
func RequestFolderAccess(svc service.AccessRequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in accessRequestBody
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		req, err := svc.Submit(c.UserContext(), a, id, in.Reason)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

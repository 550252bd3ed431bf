package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"govdocs/internal/model"
	"govdocs/internal/service"
)

type statusRequest struct {
	Status model.DocumentStatus `json:"status"`
	Notes  string               `json:"notes"`
}

// ListDocuments godoc
// @Summary List documents
// @Description The caller's documents, or every document for admins, newest first.
// @Tags documents
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		limit, offset, err := page(c, 10)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), a, limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// SearchDocuments godoc
// @Summary Search documents
// @Description Matches title, reference number, tags and folder name.
// @Tags documents
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} service.DocumentListResult
// @Security BearerAuth
// @Router /api/v1/search [get]
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		limit, offset, err := page(c, 10)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.Search(c.UserContext(), a, c.Query("q"), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Param folder_id formData string false "Folder"
// @Param department_id formData string false "Department"
// @Param date_received formData string false "YYYY-MM-DD"
// @Param reference_number formData string false "Reference number"
// @Param remarks formData string false "Remarks"
// @Param tags formData string false "Comma-separated tags"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return respondError(c, errFileRequired)
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		var tags []string
		if form, err := c.MultipartForm(); err == nil {
			for _, v := range form.Value["tags"] {
				tags = append(tags, strings.Split(v, ",")...)
			}
		}

		doc, err := svc.Upload(c.UserContext(), a, service.UploadInput{
			Reader:          f,
			Filename:        fh.Filename,
			ContentType:     fh.Header.Get("Content-Type"),
			Size:            fh.Size,
			FolderID:        c.FormValue("folder_id"),
			DepartmentID:    c.FormValue("department_id"),
			DateReceived:    c.FormValue("date_received"),
			ReferenceNumber: c.FormValue("reference_number"),
			Remarks:         c.FormValue("remarks"),
			Tags:            tags,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument godoc
// @Summary Get document metadata
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		doc, err := svc.Get(c.UserContext(), a, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the stored file as an attachment.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		rc, doc, err := svc.Download(c.UserContext(), a, id)
		if err != nil {
			return respondError(c, err)
		}

		c.Set(fiber.HeaderContentType, doc.FileType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Title))
		// fasthttp closes rc once the body has been written.
		if doc.FileSize > 0 {
			return c.SendStream(rc, int(doc.FileSize))
		}
		return c.SendStream(rc)
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Tags documents
// @Param id path string true "Document ID"
// @Success 204
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
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

// UpdateDocumentStatus moves a document between received, processing and completed.
func UpdateDocumentStatus(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := pathID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in statusRequest
		if err := bind(c, &in); err != nil {
			return respondError(c, err)
		}
		doc, err := svc.UpdateStatus(c.UserContext(), a, id, in.Status, in.Notes)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

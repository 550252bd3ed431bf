package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"govdocs/internal/http/middleware"
	"govdocs/internal/model"
	"govdocs/internal/service"
)

// actor returns the session attached by middleware.RequireSession.
func actor(c *fiber.Ctx) (model.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}, service.ErrUnauthenticated
	}
	return a, nil
}

// pathID reads a UUID path parameter.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", errInvalidID
	}
	return id, nil
}

// requestError is a malformed request detected by the handler itself.
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

var (
	errInvalidID     = &requestError{"INVALID_ID", "invalid id format"}
	errInvalidLimit  = &requestError{"INVALID_LIMIT", "invalid limit"}
	errInvalidOffset = &requestError{"INVALID_OFFSET", "invalid offset"}
	errInvalidBody   = &requestError{"INVALID_BODY", "request body is malformed"}
	errFileRequired  = &requestError{"FILE_REQUIRED", "file is required"}
	errInvalidFormat = &requestError{"INVALID_FORMAT", "format must be one of xlsx, pdf, docx"}
)

// page parses limit & offset query parameters.
func page(c *fiber.Ctx, defLimit int) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(defLimit)))
	if err != nil {
		return 0, 0, errInvalidLimit
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, errInvalidOffset
	}
	return limit, offset, nil
}

// bind decodes the request body into v.
func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return errInvalidBody
	}
	return nil
}

// sendFile writes a rendered download as an attachment.
func sendFile(c *fiber.Ctx, f *service.File) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Send(f.Data)
}

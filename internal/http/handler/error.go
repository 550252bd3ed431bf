package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"govdocs/internal/http/middleware"
	"govdocs/internal/repository"
	"govdocs/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is. The sentinel's message is safe to show unless
// fixedMessages replaces it.
var errorMappings = []errorMapping{
	{service.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrEmailNotVerified, fiber.StatusForbidden, "EMAIL_NOT_VERIFIED"},
	{service.ErrAccessRequired, fiber.StatusForbidden, "ACCESS_REQUIRED"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrAlreadyReviewed, fiber.StatusConflict, "ALREADY_REVIEWED"},
	{service.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN"},
	{service.ErrOwnFolder, fiber.StatusConflict, "OWN_FOLDER"},
	{service.ErrFolderNotSecret, fiber.StatusConflict, "FOLDER_NOT_SECRET"},
	{service.ErrIDRequired, fiber.StatusBadRequest, "INVALID_ID"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "FILE_REQUIRED"},
	{service.ErrFilenameRequired, fiber.StatusBadRequest, "FILE_REQUIRED"},
	{service.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{service.ErrInvalidDate, fiber.StatusBadRequest, "INVALID_DATE"},
	{service.ErrNameRequired, fiber.StatusBadRequest, "NAME_REQUIRED"},
	{service.ErrReasonRequired, fiber.StatusBadRequest, "REASON_REQUIRED"},
	{service.ErrInvalidDecision, fiber.StatusBadRequest, "INVALID_DECISION"},
	{service.ErrInvalidReport, fiber.StatusBadRequest, "INVALID_REPORT"},
	{service.ErrNoFields, fiber.StatusBadRequest, "NO_FIELDS"},
	{service.ErrInvalidEmail, fiber.StatusBadRequest, "INVALID_EMAIL"},
	{service.ErrWeakPassword, fiber.StatusBadRequest, "WEAK_PASSWORD"},
	{service.ErrInvalidToken, fiber.StatusBadRequest, "INVALID_TOKEN"},
	{repository.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{repository.ErrConstraint, fiber.StatusConflict, "CONSTRAINT_VIOLATION"},
}

// fixedMessages hides storage-layer wording behind a stable message.
var fixedMessages = map[error]string{
	repository.ErrDuplicate:  "record already exists",
	repository.ErrConstraint: "request conflicts with existing data",
}

// respondError maps a service error to the envelope. Unknown errors become a generic 500 and the
// cause is handed to the access log.
func respondError(c *fiber.Ctx, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return writeError(c, fiber.StatusBadRequest, re.code, re.message)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg, ok := fixedMessages[m.err]
			if !ok {
				msg = err.Error()
			}
			return writeError(c, m.status, m.code, msg)
		}
	}
	c.Locals(middleware.ErrorLocalKey, err)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body is too large")
		default:
			c.Locals(middleware.ErrorLocalKey, err)
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

// NotFound is the catch-all for unmatched routes.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	}
}

package service

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP statuses; wrap them with
// fmt.Errorf("...: %w") to add context.
var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("you do not have permission to perform this action")
	ErrReaderNil  = errors.New("reader is nil")

	ErrFilenameRequired = errors.New("file name is required")
	ErrInvalidStatus    = errors.New("status must be one of received, processing, completed")
	ErrInvalidDate      = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNameRequired     = errors.New("name is required")

	ErrReasonRequired  = errors.New("please provide a reason for accessing this folder")
	ErrOwnFolder       = errors.New("you already own this folder")
	ErrFolderNotSecret = errors.New("folder is not secret; no access request is needed")
	ErrInvalidDecision = errors.New("decision must be approve or deny")
	ErrAlreadyReviewed = errors.New("access request has already been reviewed")
	ErrAccessRequired  = errors.New("this is a secret folder that requires approval")

	ErrInvalidReport = errors.New("unknown report table or field")
	ErrNoFields      = errors.New("please select at least one field to generate a report")

	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address has not been verified")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("a valid email address is required")
	ErrWeakPassword       = errors.New("password is too short")
	ErrInvalidToken       = errors.New("token is invalid or has expired")
)

package model

import "time"

// DocumentStatus is the processing lifecycle of a registered document.
type DocumentStatus string

const (
	StatusReceived   DocumentStatus = "received"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// Document is the metadata row for a stored file. The bytes live in object storage under FilePath.
type Document struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	FilePath        string         `json:"file_path"`
	FileType        string         `json:"file_type"`
	FileSize        int64          `json:"file_size"`
	OwnerID         string         `json:"owner_id"`
	FolderID        *string        `json:"folder_id"`
	DepartmentID    *string        `json:"department_id"`
	DateReceived    *time.Time     `json:"date_received"`
	ReferenceNumber *string        `json:"reference_number"`
	Remarks         *string        `json:"remarks"`
	Tags            []string       `json:"tags"`
	Status          DocumentStatus `json:"status"`
	StatusNotes     *string        `json:"status_notes"`
	StatusUpdatedAt *time.Time     `json:"status_updated_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

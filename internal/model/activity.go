package model

import "time"

// Activity actions recorded in the audit trail.
const (
	ActionUploadDocument       = "upload_document"
	ActionDownloadDocument     = "download_document"
	ActionDeleteDocument       = "delete_document"
	ActionUpdateDocumentStatus = "update_document_status"
	ActionCreateFolder         = "create_folder"
	ActionDeleteFolder         = "delete_folder"
	ActionUpdateFolder         = "update_folder"
	ActionRequestFolderAccess  = "request_folder_access"
	ActionApproveAccessRequest = "approve_access_request"
	ActionDenyAccessRequest    = "deny_access_request"
	ActionLogin                = "login"
	ActionLogout               = "logout"
)

// Entity types referenced by activity records.
const (
	EntityDocument      = "document"
	EntityFolder        = "folder"
	EntityAccessRequest = "access_request"
	EntityUser          = "user"
	EntitySystem        = "system"
)

// ActivityLog is an append-only audit record.
type ActivityLog struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityLogView is an activity record joined with the acting user's profile.
type ActivityLogView struct {
	ActivityLog
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

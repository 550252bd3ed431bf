package model

import "time"

// AccessRequestStatus is the state of an access request. Approved and denied are terminal.
type AccessRequestStatus string

const (
	AccessPending  AccessRequestStatus = "pending"
	AccessApproved AccessRequestStatus = "approved"
	AccessDenied   AccessRequestStatus = "denied"
)

// AccessRequest asks an admin for time-boxed read access to a secret folder.
// ExpiresAt is set if and only if Status is AccessApproved.
type AccessRequest struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	FolderID    string              `json:"folder_id"`
	Reason      string              `json:"reason"`
	Status      AccessRequestStatus `json:"status"`
	RequestedAt time.Time           `json:"requested_at"`
	ReviewedAt  *time.Time          `json:"reviewed_at"`
	ReviewedBy  *string             `json:"reviewed_by"`
	ExpiresAt   *time.Time          `json:"expires_at"`
}

// ActiveAt reports whether the request grants access at the given instant.
func (r AccessRequest) ActiveAt(now time.Time) bool {
	return r.Status == AccessApproved && r.ExpiresAt != nil && now.Before(*r.ExpiresAt)
}

// AccessRequestView is an access request joined with requester and folder names.
type AccessRequestView struct {
	AccessRequest
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	FolderName     string `json:"folder_name"`
}

package model

import "time"

// Folder groups documents. A secret folder needs an approved, unexpired access grant
// before anyone other than its owner or an admin may read it.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	IsSecret  bool      `json:"is_secret"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// accessPolicy answers read questions for folders and the documents inside them. Row scoping for
// listings is applied by passing the actor's ID (or nothing, for admins) to the repositories.
type accessPolicy struct {
	folders repository.FolderRepository
	grants  repository.AccessRequestRepository
	now     func() time.Time
}

// ownerScope is the owner filter for listings: empty for admins, the caller otherwise.
func ownerScope(actor model.Actor) string {
	if actor.IsAdmin() {
		return ""
	}
	return actor.UserID
}

// canReadFolder: owner, admin, non-secret folder, or an approved grant that has not expired.
func (p *accessPolicy) canReadFolder(ctx context.Context, actor model.Actor, f *model.Folder) (bool, error) {
	if actor.CanManage(f.OwnerID) || !f.IsSecret {
		return true, nil
	}
	ok, err := p.grants.HasActiveGrant(ctx, actor.UserID, f.ID, p.now())
	if err != nil {
		return false, fmt.Errorf("check access grant: %w", err)
	}
	return ok, nil
}

func (p *accessPolicy) folder(ctx context.Context, id string) (*model.Folder, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	f, err := p.folders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("folder %w", ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// canReadDocument: owner, admin, or anyone who can read the document's folder. A document in a
// secret folder the caller cannot read yields ErrAccessRequired.
func (p *accessPolicy) canReadDocument(ctx context.Context, actor model.Actor, d *model.Document) error {
	if actor.CanManage(d.OwnerID) {
		return nil
	}
	if d.FolderID == nil {
		return ErrForbidden
	}
	f, err := p.folder(ctx, *d.FolderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	ok, err := p.canReadFolder(ctx, actor, f)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessRequired
	}
	return nil
}

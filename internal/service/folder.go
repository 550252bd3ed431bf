package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"govdocs/internal/model"
	"govdocs/internal/repository"
)

// FolderView is a folder with what the caller may do with it.
type FolderView struct {
	model.Folder
	Owned   bool `json:"owned"`
	CanRead bool `json:"can_read"`
}

// FolderContents is a readable folder and the documents inside it.
type FolderContents struct {
	Folder    model.Folder   `json:"folder"`
	Documents []DocumentView `json:"documents"`
	Total     int            `json:"total"`
}

// FolderService manages folders and the secret-folder toggle.
type FolderService interface {
	// List returns the caller's folders, or every folder for admins. With includeShared set,
	// non-admins also see other users' folders so they can browse them or request access.
	List(ctx context.Context, actor model.Actor, includeShared bool) ([]FolderView, error)
	Create(ctx context.Context, actor model.Actor, name string, secret bool) (*model.Folder, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	SetSecret(ctx context.Context, actor model.Actor, id string, secret bool) (*model.Folder, error)
	Contents(ctx context.Context, actor model.Actor, id string, limit, offset int) (*FolderContents, error)
	CanRead(ctx context.Context, actor model.Actor, f *model.Folder) (bool, error)
}

type folderService struct {
	repo     repository.FolderRepository
	docs     repository.DocumentRepository
	policy   *accessPolicy
	activity ActivityService
	loc      *time.Location
	now      func() time.Time
}

func NewFolderService(
	repo repository.FolderRepository,
	docs repository.DocumentRepository,
	grants repository.AccessRequestRepository,
	activity ActivityService,
	loc *time.Location,
) FolderService {
	if loc == nil {
		loc = time.UTC
	}
	s := &folderService{repo: repo, docs: docs, activity: activity, loc: loc, now: time.Now}
	s.policy = &accessPolicy{folders: repo, grants: grants, now: func() time.Time { return s.now() }}
	return s
}

func (s *folderService) List(ctx context.Context, actor model.Actor, includeShared bool) ([]FolderView, error) {
	scope := ownerScope(actor)
	if includeShared {
		scope = ""
	}
	folders, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := make([]FolderView, 0, len(folders))
	for i := range folders {
		ok, err := s.policy.canReadFolder(ctx, actor, &folders[i])
		if err != nil {
			return nil, err
		}
		out = append(out, FolderView{Folder: folders[i], Owned: actor.Owns(folders[i].OwnerID), CanRead: ok})
	}
	return out, nil
}

func (s *folderService) Create(ctx context.Context, actor model.Actor, name string, secret bool) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := s.now().UTC()
	f, err := s.repo.Create(ctx, &model.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   actor.UserID,
		IsSecret:  secret,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.activity.Log(ctx, actor, model.ActionCreateFolder, model.EntityFolder, &f.ID, map[string]any{
		"name":      f.Name,
		"is_secret": f.IsSecret,
	})
	return f, nil
}

func (s *folderService) manageable(ctx context.Context, actor model.Actor, id string) (*model.Folder, error) {
	f, err := s.policy.folder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(f.OwnerID) {
		return nil, ErrForbidden
	}
	return f, nil
}

func (s *folderService) Delete(ctx context.Context, actor model.Actor, id string) error {
	f, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, f.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("folder %w", ErrNotFound)
		}
		return err
	}
	s.activity.Log(ctx, actor, model.ActionDeleteFolder, model.EntityFolder, &f.ID, map[string]any{"name": f.Name})
	return nil
}

func (s *folderService) SetSecret(ctx context.Context, actor model.Actor, id string, secret bool) (*model.Folder, error) {
	f, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.SetSecret(ctx, f.ID, secret, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("folder %w", ErrNotFound)
		}
		return nil, err
	}
	s.activity.Log(ctx, actor, model.ActionUpdateFolder, model.EntityFolder, &f.ID, map[string]any{
		"name":      f.Name,
		"is_secret": secret,
	})
	return updated, nil
}

func (s *folderService) Contents(ctx context.Context, actor model.Actor, id string, limit, offset int) (*FolderContents, error) {
	f, err := s.policy.folder(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.policy.canReadFolder(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessRequired
	}

	limit, offset = normalizePage(limit, offset, 50)
	res, err := s.docs.List(ctx, repository.DocumentFilter{FolderID: f.ID}, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	docs := make([]DocumentView, len(res.Items))
	for i, d := range res.Items {
		docs[i] = newDocumentView(d, s.loc)
	}
	return &FolderContents{Folder: *f, Documents: docs, Total: res.Total}, nil
}

func (s *folderService) CanRead(ctx context.Context, actor model.Actor, f *model.Folder) (bool, error) {
	return s.policy.canReadFolder(ctx, actor, f)
}

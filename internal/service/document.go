package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"govdocs/internal/format"
	"govdocs/internal/model"
	"govdocs/internal/repository"
	"govdocs/internal/storage"
)

var tracer = otel.Tracer("govdocs/internal/service")

// UploadInput carries the file stream and the metadata entered on the upload form.
type UploadInput struct {
	Reader       io.Reader
	Filename     string
	ContentType  string
	Size         int64
	FolderID     string
	DepartmentID string
	// DateReceived is YYYY-MM-DD or empty.
	DateReceived    string
	ReferenceNumber string
	Remarks         string
	Tags            []string
}

// DocumentView is a document with its listing labels.
type DocumentView struct {
	model.Document
	TypeLabel string `json:"type_label"`
	SizeLabel string `json:"size_label"`
	DateLabel string `json:"date_label"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []DocumentView `json:"data"`
	Total int            `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the bytes under a key no other object uses, then the metadata row. If the row
	// cannot be saved the stored object is removed again, except when the row is a duplicate.
	Upload(ctx context.Context, actor model.Actor, in UploadInput) (*model.Document, error)

	// List returns the caller's documents (all documents for admins), newest first.
	List(ctx context.Context, actor model.Actor, limit, offset int) (*DocumentListResult, error)

	// Search matches title, reference number, tags and folder name with the same scoping as List.
	Search(ctx context.Context, actor model.Actor, query string, limit, offset int) (*DocumentListResult, error)

	Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error)

	// Download opens the stored bytes. The caller must close the reader.
	Download(ctx context.Context, actor model.Actor, id string) (io.ReadCloser, *model.Document, error)

	// Delete removes the metadata row, then the object. If the object cannot be removed the row is
	// restored and the error returned.
	Delete(ctx context.Context, actor model.Actor, id string) error

	UpdateStatus(ctx context.Context, actor model.Actor, id string, status model.DocumentStatus, notes string) (*model.Document, error)
}

type documentService struct {
	store       storage.Storage
	repo        repository.DocumentRepository
	departments repository.DepartmentRepository
	policy      *accessPolicy
	activity    ActivityService
	loc         *time.Location
	now         func() time.Time
	keys        ownerLocks
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	repo repository.DocumentRepository,
	folders repository.FolderRepository,
	grants repository.AccessRequestRepository,
	departments repository.DepartmentRepository,
	activity ActivityService,
	loc *time.Location,
) DocumentService {
	if loc == nil {
		loc = time.UTC
	}
	s := &documentService{
		store:       store,
		repo:        repo,
		departments: departments,
		activity:    activity,
		loc:         loc,
		now:         time.Now,
	}
	s.policy = &accessPolicy{folders: folders, grants: grants, now: func() time.Time { return s.now() }}
	return s
}

func (s *documentService) Upload(ctx context.Context, actor model.Actor, in UploadInput) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Upload")
	defer span.End()

	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	title := path.Base(strings.ReplaceAll(strings.TrimSpace(in.Filename), `\`, "/"))
	if title == "" || title == "." || title == "/" {
		return nil, ErrFilenameRequired
	}

	doc := &model.Document{
		ID:              uuid.NewString(),
		Title:           title,
		FileType:        storage.ContentTypeFor(in.ContentType, title),
		OwnerID:         actor.UserID,
		ReferenceNumber: optional(in.ReferenceNumber),
		Remarks:         optional(in.Remarks),
		Tags:            normalizeTags(in.Tags),
		Status:          model.StatusReceived,
	}

	if in.DateReceived != "" {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(in.DateReceived))
		if err != nil {
			return nil, ErrInvalidDate
		}
		doc.DateReceived = &d
	}
	if in.FolderID != "" {
		f, err := s.policy.folder(ctx, in.FolderID)
		if err != nil {
			return nil, err
		}
		if !actor.CanManage(f.OwnerID) {
			return nil, ErrForbidden
		}
		doc.FolderID = &f.ID
	}
	if in.DepartmentID != "" {
		dep, err := s.departments.FindByID(ctx, in.DepartmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("department %w", ErrNotFound)
			}
			return nil, err
		}
		doc.DepartmentID = &dep.ID
	}

	now := s.now().UTC()

	// The owner's lock is held until the object exists so a concurrent upload sees the key taken.
	unlock := s.keys.lock(actor.UserID)
	key, err := s.freeKey(ctx, actor.UserID, now, title)
	if err != nil {
		unlock()
		span.SetStatus(codes.Error, "key allocation failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("storage.key", key))

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: doc.FileType,
		Metadata: map[string]string{
			"original-filename": title,
		},
	})
	unlock()
	if err != nil {
		span.SetStatus(codes.Error, "storage put failed")
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	if objInfo.Key == "" {
		objInfo.Key = key
	}

	doc.FilePath = objInfo.Key
	doc.FileSize = objInfo.Size
	if doc.FileSize <= 0 {
		doc.FileSize = in.Size
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		span.SetStatus(codes.Error, "metadata insert failed")
		// A duplicate means another row already points at this key; its object is not ours to remove.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("db save failed: %w", err)
		}
		if delErr := s.store.Delete(ctx, objInfo.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.activity.Log(ctx, actor, model.ActionUploadDocument, model.EntityDocument, &stored.ID, map[string]any{
		"title":            stored.Title,
		"reference_number": stored.ReferenceNumber,
	})
	return stored, nil
}

// freeKey returns the first unused object key at or after at, stepping one millisecond at a time.
func (s *documentService) freeKey(ctx context.Context, ownerID string, at time.Time, filename string) (string, error) {
	for i := 0; i < maxKeyAttempts; i++ {
		key := storage.ObjectKey(ownerID, at, filename)
		_, err := s.store.Stat(ctx, key)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return key, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat object key: %w", err)
		}
		at = at.Add(time.Millisecond)
	}
	return "", fmt.Errorf("no free object key for owner %s after %d attempts", ownerID, maxKeyAttempts)
}

const maxKeyAttempts = 1000

// ownerLocks hands out one mutex per owner and forgets it once nobody holds it.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

func (l *ownerLocks) lock(owner string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*ownerLock)
	}
	ol, ok := l.locks[owner]
	if !ok {
		ol = &ownerLock{}
		l.locks[owner] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			ol.mu.Unlock()
			l.mu.Lock()
			ol.refs--
			if ol.refs == 0 {
				delete(l.locks, owner)
			}
			l.mu.Unlock()
		})
	}
}

func (s *documentService) List(ctx context.Context, actor model.Actor, limit, offset int) (*DocumentListResult, error) {
	return s.list(ctx, repository.DocumentFilter{OwnerID: ownerScope(actor)}, limit, offset)
}

func (s *documentService) Search(ctx context.Context, actor model.Actor, query string, limit, offset int) (*DocumentListResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &DocumentListResult{Items: []DocumentView{}}, nil
	}
	return s.list(ctx, repository.DocumentFilter{OwnerID: ownerScope(actor), Query: query}, limit, offset)
}

func (s *documentService) list(ctx context.Context, f repository.DocumentFilter, limit, offset int) (*DocumentListResult, error) {
	limit, offset = normalizePage(limit, offset, 10)
	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := make([]DocumentView, len(res.Items))
	for i, d := range res.Items {
		items[i] = s.view(d)
	}
	return &DocumentListResult{Items: items, Total: res.Total}, nil
}

func (s *documentService) view(d model.Document) DocumentView {
	return newDocumentView(d, s.loc)
}

func newDocumentView(d model.Document, loc *time.Location) DocumentView {
	return DocumentView{
		Document:  d,
		TypeLabel: format.TypeLabel(d.FileType),
		SizeLabel: format.FileSize(d.FileSize),
		DateLabel: format.DateLabel(d.CreatedAt, loc),
	}
}

func (s *documentService) find(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("document %w", ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.canReadDocument(ctx, actor, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, actor model.Actor, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	s.activity.Log(ctx, actor, model.ActionDownloadDocument, model.EntityDocument, &doc.ID, map[string]any{
		"title": doc.Title,
	})
	return rc, doc, nil
}

func (s *documentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete")
	defer span.End()

	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(doc.OwnerID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("document %w", ErrNotFound)
		}
		return fmt.Errorf("delete record: %w", err)
	}

	if err := s.store.Delete(ctx, doc.FilePath); err != nil {
		span.SetStatus(codes.Error, "storage delete failed")
		if _, restoreErr := s.repo.Create(ctx, doc); restoreErr != nil {
			return fmt.Errorf("delete storage: %v; restore record failed: %v", err, restoreErr)
		}
		return fmt.Errorf("delete storage: %w", err)
	}

	s.activity.Log(ctx, actor, model.ActionDeleteDocument, model.EntityDocument, &doc.ID, map[string]any{
		"title": doc.Title,
	})
	return nil
}

func (s *documentService) UpdateStatus(ctx context.Context, actor model.Actor, id string, status model.DocumentStatus, notes string) (*model.Document, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(doc.OwnerID) {
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdateStatus(ctx, doc.ID, status, optional(notes), s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("document %w", ErrNotFound)
		}
		return nil, err
	}

	s.activity.Log(ctx, actor, model.ActionUpdateDocumentStatus, model.EntityDocument, &doc.ID, map[string]any{
		"title":      doc.Title,
		"old_status": doc.Status,
		"new_status": status,
	})
	return updated, nil
}

// optional returns nil for blank input and the trimmed value otherwise.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// normalizeTags trims, drops empty tags and removes duplicates, keeping first-seen order.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

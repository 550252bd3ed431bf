package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"govdocs/internal/logging"
	"govdocs/internal/model"
	"govdocs/internal/notify"
	notifyMocks "govdocs/internal/notify/mocks"
	"govdocs/internal/repository"
	repoMocks "govdocs/internal/repository/mocks"
)

type accessMocks struct {
	repo     *repoMocks.MockAccessRequestRepository
	folders  *repoMocks.MockFolderRepository
	users    *repoMocks.MockUserRepository
	notifier *notifyMocks.MockNotifier
	logs     *repoMocks.MockActivityRepository
}

func newAccessRequestService(t *testing.T) (*accessRequestService, accessMocks, *bytes.Buffer) {
	t.Helper()
	m := accessMocks{
		repo:     new(repoMocks.MockAccessRequestRepository),
		folders:  new(repoMocks.MockFolderRepository),
		users:    new(repoMocks.MockUserRepository),
		notifier: new(notifyMocks.MockNotifier),
	}
	var activity ActivityService
	activity, m.logs = newActivity()
	var buf bytes.Buffer
	svc := NewAccessRequestService(m.repo, m.folders, m.users, m.notifier, activity, logging.New(&buf, time.UTC)).(*accessRequestService)
	svc.now = fixedClock
	return svc, m, &buf
}

func TestAccessRequestService_Submit(t *testing.T) {
	ctx := context.Background()
	secret := &model.Folder{ID: "f-1", Name: "Payroll", OwnerID: "user-2", IsSecret: true}

	tests := []struct {
		name       string
		folderID   string
		reason     string
		setupMocks func(m accessMocks)
		wantErr    error
	}{
		{
			name:     "happy path",
			folderID: "f-1",
			reason:   "  quarterly audit  ",
			setupMocks: func(m accessMocks) {
				m.folders.On("FindByID", ctx, "f-1").Return(secret, nil)
				m.repo.On("Create", ctx, mock.MatchedBy(func(r *model.AccessRequest) bool {
					return r.Reason == "quarterly audit" &&
						r.Status == model.AccessPending &&
						r.UserID == "user-1" &&
						r.FolderID == "f-1" &&
						r.ExpiresAt == nil &&
						r.RequestedAt.Equal(fixedNow)
				})).Return(&model.AccessRequest{ID: "ar-1", Status: model.AccessPending}, nil)
			},
		},
		{name: "empty reason", folderID: "f-1", reason: "", wantErr: ErrReasonRequired},
		{name: "blank reason", folderID: "f-1", reason: " \t\n ", wantErr: ErrReasonRequired},
		{name: "missing folder id", reason: "audit", wantErr: ErrIDRequired},
		{
			name:     "unknown folder",
			folderID: "f-x",
			reason:   "audit",
			setupMocks: func(m accessMocks) {
				m.folders.On("FindByID", ctx, "f-x").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:     "own folder",
			folderID: "f-2",
			reason:   "audit",
			setupMocks: func(m accessMocks) {
				m.folders.On("FindByID", ctx, "f-2").Return(&model.Folder{ID: "f-2", OwnerID: "user-1", IsSecret: true}, nil)
			},
			wantErr: ErrOwnFolder,
		},
		{
			name:     "folder is not secret",
			folderID: "f-3",
			reason:   "audit",
			setupMocks: func(m accessMocks) {
				m.folders.On("FindByID", ctx, "f-3").Return(&model.Folder{ID: "f-3", OwnerID: "user-2"}, nil)
			},
			wantErr: ErrFolderNotSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, _ := newAccessRequestService(t)
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}

			req, err := svc.Submit(ctx, clerk, tt.folderID, tt.reason)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, req)
				m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				m.logs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ar-1", req.ID)
			m.logs.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(l *model.ActivityLog) bool {
				return l.Action == model.ActionRequestFolderAccess && l.Details["folder_name"] == "Payroll"
			}))
		})
	}

	t.Run("blank reason touches nothing", func(t *testing.T) {
		svc, m, _ := newAccessRequestService(t)
		_, err := svc.Submit(ctx, clerk, "f-1", "   ")
		assert.ErrorIs(t, err, ErrReasonRequired)
		m.folders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAccessRequestService_Review(t *testing.T) {
	ctx := context.Background()
	pending := &model.AccessRequest{ID: "ar-1", UserID: "user-1", FolderID: "f-1", Status: model.AccessPending}
	requester := &model.UserWithRoles{Profile: model.Profile{ID: "user-1", Email: "clerk@example.gov"}}

	t.Run("approve grants exactly two hours", func(t *testing.T) {
		svc, m, _ := newAccessRequestService(t)
		wantExp := fixedNow.Add(2 * time.Hour)
		m.repo.On("FindByID", ctx, "ar-1").Return(pending, nil)
		m.repo.On("Review", ctx, "ar-1", repository.ReviewUpdate{
			Status:     model.AccessApproved,
			ReviewedBy: "admin-1",
			ReviewedAt: fixedNow,
			ExpiresAt:  &wantExp,
		}).Return(&model.AccessRequest{
			ID: "ar-1", UserID: "user-1", FolderID: "f-1", Status: model.AccessApproved, ExpiresAt: &wantExp,
		}, nil)
		m.users.On("FindByID", ctx, "user-1").Return(requester, nil)
		m.notifier.On("Notify", ctx, mock.MatchedBy(func(n notify.Notice) bool {
			return n.Kind == notify.KindAccessReviewed && n.To == "clerk@example.gov" && n.Data["expires_at"] != nil
		})).Return(nil)

		got, err := svc.Review(ctx, admin, "ar-1", DecisionApprove)
		require.NoError(t, err)
		require.NotNil(t, got.ExpiresAt)
		assert.Equal(t, wantExp, *got.ExpiresAt)
		assert.True(t, got.ActiveAt(fixedNow.Add(119*time.Minute)))
		assert.False(t, got.ActiveAt(fixedNow.Add(2*time.Hour)))
		m.logs.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(l *model.ActivityLog) bool {
			return l.Action == model.ActionApproveAccessRequest
		}))
		m.repo.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("deny leaves expiry unset", func(t *testing.T) {
		svc, m, _ := newAccessRequestService(t)
		m.repo.On("FindByID", ctx, "ar-1").Return(pending, nil)
		m.repo.On("Review", ctx, "ar-1", mock.MatchedBy(func(u repository.ReviewUpdate) bool {
			return u.Status == model.AccessDenied && u.ExpiresAt == nil
		})).Return(&model.AccessRequest{ID: "ar-1", UserID: "user-1", Status: model.AccessDenied}, nil)
		m.users.On("FindByID", ctx, "user-1").Return(requester, nil)
		m.notifier.On("Notify", ctx, mock.Anything).Return(nil)

		got, err := svc.Review(ctx, admin, "ar-1", DecisionDeny)
		require.NoError(t, err)
		assert.Nil(t, got.ExpiresAt)
		assert.Equal(t, model.AccessDenied, got.Status)
	})

	t.Run("notification failure does not fail the review", func(t *testing.T) {
		svc, m, buf := newAccessRequestService(t)
		m.repo.On("FindByID", ctx, "ar-1").Return(pending, nil)
		m.repo.On("Review", ctx, "ar-1", mock.Anything).
			Return(&model.AccessRequest{ID: "ar-1", UserID: "user-1", Status: model.AccessDenied}, nil)
		m.users.On("FindByID", ctx, "user-1").Return(requester, nil)
		m.notifier.On("Notify", ctx, mock.Anything).Return(errors.New("webhook down"))

		_, err := svc.Review(ctx, admin, "ar-1", DecisionDeny)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "notify_failed")
	})

	tests := []struct {
		name       string
		actor      model.Actor
		id         string
		decision   ReviewDecision
		setupMocks func(m accessMocks)
		wantErr    error
	}{
		{name: "non-admin", actor: clerk, id: "ar-1", decision: DecisionApprove, wantErr: ErrForbidden},
		{name: "missing id", actor: admin, decision: DecisionApprove, wantErr: ErrIDRequired},
		{name: "unknown decision", actor: admin, id: "ar-1", decision: "maybe", wantErr: ErrInvalidDecision},
		{
			name: "not found", actor: admin, id: "ar-x", decision: DecisionApprove,
			setupMocks: func(m accessMocks) {
				m.repo.On("FindByID", ctx, "ar-x").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "already reviewed", actor: admin, id: "ar-1", decision: DecisionDeny,
			setupMocks: func(m accessMocks) {
				m.repo.On("FindByID", ctx, "ar-1").Return(&model.AccessRequest{ID: "ar-1", Status: model.AccessApproved}, nil)
			},
			wantErr: ErrAlreadyReviewed,
		},
		{
			name: "lost race with another reviewer", actor: admin, id: "ar-1", decision: DecisionApprove,
			setupMocks: func(m accessMocks) {
				m.repo.On("FindByID", ctx, "ar-1").Return(pending, nil)
				m.repo.On("Review", ctx, "ar-1", mock.Anything).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrAlreadyReviewed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, _ := newAccessRequestService(t)
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}
			_, err := svc.Review(ctx, tt.actor, tt.id, tt.decision)
			assert.ErrorIs(t, err, tt.wantErr)
			m.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		})
	}
}

func TestAccessRequestService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("list all requires admin", func(t *testing.T) {
		svc, _, _ := newAccessRequestService(t)
		_, err := svc.ListAll(ctx, clerk)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin lists everything", func(t *testing.T) {
		svc, m, _ := newAccessRequestService(t)
		m.repo.On("List", ctx, "").Return([]model.AccessRequestView{{}, {}}, nil)
		got, err := svc.ListAll(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("mine is scoped to caller", func(t *testing.T) {
		svc, m, _ := newAccessRequestService(t)
		m.repo.On("List", ctx, "user-1").Return([]model.AccessRequestView{}, nil)
		_, err := svc.ListMine(ctx, clerk)
		require.NoError(t, err)
		m.repo.AssertExpectations(t)
	})

	t.Run("active grant uses the service clock", func(t *testing.T) {
		svc, m, _ := newAccessRequestService(t)
		m.repo.On("HasActiveGrant", ctx, "user-1", "f-1", fixedNow).Return(true, nil)
		ok, err := svc.HasActiveGrant(ctx, "user-1", "f-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

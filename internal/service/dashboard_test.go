package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"govdocs/internal/model"
	"govdocs/internal/repository"
	repoMocks "govdocs/internal/repository/mocks"
)

type dashboardMocks struct {
	docs     *repoMocks.MockDocumentRepository
	folders  *repoMocks.MockFolderRepository
	requests *repoMocks.MockAccessRequestRepository
	activity *repoMocks.MockActivityRepository
}

func newDashboardService() (DashboardService, dashboardMocks) {
	m := dashboardMocks{
		docs:     new(repoMocks.MockDocumentRepository),
		folders:  new(repoMocks.MockFolderRepository),
		requests: new(repoMocks.MockAccessRequestRepository),
		activity: new(repoMocks.MockActivityRepository),
	}
	return NewDashboardService(m.docs, m.folders, m.requests, m.activity), m
}

func TestDashboardService_Stats(t *testing.T) {
	recent := &repository.PageResult[model.ActivityLogView]{Items: []model.ActivityLogView{{}}, Total: 1}

	t.Run("user", func(t *testing.T) {
		svc, m := newDashboardService()
		m.docs.On("Count", mock.Anything, "user-1").Return(7, nil)
		m.folders.On("Count", mock.Anything, "user-1").Return(2, nil)
		m.requests.On("CountPending", mock.Anything, "user-1").Return(1, nil)
		m.activity.On("List", mock.Anything, "user-1", repository.PageQuery{Limit: 5}).Return(recent, nil)

		st, err := svc.Stats(context.Background(), clerk)
		require.NoError(t, err)
		assert.Equal(t, 7, st.Documents)
		assert.Equal(t, 2, st.Folders)
		assert.Equal(t, 1, st.PendingRequests)
		assert.Nil(t, st.AwaitingReview)
		assert.Len(t, st.Recent, 1)
		m.requests.AssertNotCalled(t, "CountPending", mock.Anything, "")
	})

	t.Run("admin sees the review queue", func(t *testing.T) {
		svc, m := newDashboardService()
		m.docs.On("Count", mock.Anything, "").Return(70, nil)
		m.folders.On("Count", mock.Anything, "").Return(20, nil)
		m.requests.On("CountPending", mock.Anything, "admin-1").Return(0, nil)
		m.requests.On("CountPending", mock.Anything, "").Return(4, nil)
		m.activity.On("List", mock.Anything, "", repository.PageQuery{Limit: 5}).Return(recent, nil)

		st, err := svc.Stats(context.Background(), admin)
		require.NoError(t, err)
		require.NotNil(t, st.AwaitingReview)
		assert.Equal(t, 4, *st.AwaitingReview)
		assert.Equal(t, 70, st.Documents)
	})

	t.Run("any failing count fails the whole call", func(t *testing.T) {
		svc, m := newDashboardService()
		m.docs.On("Count", mock.Anything, "user-1").Return(0, errors.New("db down"))
		m.folders.On("Count", mock.Anything, "user-1").Return(2, nil).Maybe()
		m.requests.On("CountPending", mock.Anything, "user-1").Return(1, nil).Maybe()
		m.activity.On("List", mock.Anything, "user-1", mock.Anything).Return(recent, nil).Maybe()

		_, err := svc.Stats(context.Background(), clerk)
		assert.ErrorContains(t, err, "db down")
	})
}

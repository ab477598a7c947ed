package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
	"github.com/iho/autotransfer/internal/usecase/mocks"
)

func TestNotificationUseCase_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository(ctrl)
	cache := mocks.NewMockNotificationCache(ctrl)
	publisher := mocks.NewMockEventPublisher(ctrl)
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

	var stored *domain.Notification
	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, n *domain.Notification) error {
			stored = n
			return nil
		}),
		cache.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil),
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, e domain.Event) error {
			assert.Equal(t, domain.EventTypeNotificationCreated, e.Type)
			assert.Equal(t, "m1", e.AggregateID)
			return errors.New("broker down")
		}),
	)

	uc := usecase.NewNotificationUseCase(repo, mocks.NewStubIDGenerator(), zerolog.Nop()).
		WithCache(cache).
		WithPublisher(publisher).
		WithClock(func() time.Time { return now })

	uc.Notify(t.Context(), "m1", domain.NotificationAutoTransferSuccess, "done")

	require.NotNil(t, stored)
	assert.Equal(t, "m1", stored.MemberID)
	assert.Equal(t, domain.NotificationAutoTransferSuccess, stored.Kind)
	assert.Equal(t, now, stored.CreatedAt)
}

func TestNotificationUseCase_NotifyStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository(ctrl)
	cache := mocks.NewMockNotificationCache(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	uc := usecase.NewNotificationUseCase(repo, mocks.NewStubIDGenerator(), zerolog.Nop()).WithCache(cache)

	// must not panic or call the cache
	uc.Notify(t.Context(), "m1", domain.NotificationAutoTransferFail, "failed")
}

func TestNotificationUseCase_Ownership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "n1").Return(&domain.Notification{ID: "n1", MemberID: "m1"}, nil).Times(3)
	repo.EXPECT().MarkRead(gomock.Any(), "n1").Return(nil)
	repo.EXPECT().SoftDelete(gomock.Any(), "n1").Return(nil)

	uc := usecase.NewNotificationUseCase(repo, mocks.NewStubIDGenerator(), zerolog.Nop())

	require.NoError(t, uc.MarkRead(t.Context(), "n1", "m1"))
	assert.ErrorIs(t, uc.MarkRead(t.Context(), "n1", "m2"), domain.ErrNotificationNotFound)
	require.NoError(t, uc.Delete(t.Context(), "n1", "m1"))
}

func TestNotificationUseCase_ListAndReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockNotificationRepository(ctrl)
	cache := mocks.NewMockNotificationCache(ctrl)

	repo.EXPECT().ListByMember(gomock.Any(), "m1", domain.DefaultPageSize, 0).Return([]*domain.Notification{{ID: "n2"}, {ID: "n1"}}, nil)
	repo.EXPECT().CountUnread(gomock.Any(), "m1").Return(2, nil)
	cache.EXPECT().Since(gomock.Any(), "m1", "n1").Return([]*domain.Notification{{ID: "n2"}}, nil)

	uc := usecase.NewNotificationUseCase(repo, mocks.NewStubIDGenerator(), zerolog.Nop()).WithCache(cache)

	list, err := uc.List(t.Context(), "m1", 0, -1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	count, err := uc.UnreadCount(t.Context(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	replay, err := uc.ReplaySince(t.Context(), "m1", "n1")
	require.NoError(t, err)
	require.Len(t, replay, 1)
	assert.Equal(t, "n2", replay[0].ID)
}

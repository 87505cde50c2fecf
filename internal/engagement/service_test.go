package engagement

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

type serviceMocks struct {
	reactions *MockReactionRepository
	views     *MockViewRepository
	subs      *MockSubscriptionRepository
	videos    *MockVideoFinder
	users     *MockUserFinder
}

func newServiceWithMocks(t *testing.T) (Service, serviceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	m := serviceMocks{
		reactions: NewMockReactionRepository(ctrl),
		views:     NewMockViewRepository(ctrl),
		subs:      NewMockSubscriptionRepository(ctrl),
		videos:    NewMockVideoFinder(ctrl),
		users:     NewMockUserFinder(ctrl),
	}
	svc := NewService(m.reactions, m.views, m.subs, m.videos, m.users)
	return svc, m, ctrl
}

func TestToggleReaction(t *testing.T) {
	viewer := common.Viewer{UserID: 7, Handle: "alice"}
	const videoID = uint64(42)

	tests := []struct {
		name       string
		viewer     common.Viewer
		polarity   int8
		setupMocks func(m serviceMocks)
		wantState  *ReactionState
		wantErr    error
	}{
		{
			name:       "anonymous viewer rejected",
			viewer:     common.Anonymous,
			polarity:   dbmysql.PolarityLike,
			setupMocks: func(m serviceMocks) {},
			wantErr:    common.ErrUnauthorized,
		},
		{
			name:       "invalid polarity rejected",
			viewer:     viewer,
			polarity:   0,
			setupMocks: func(m serviceMocks) {},
			wantErr:    common.ErrInvalidOperation,
		},
		{
			name:     "missing video",
			viewer:   viewer,
			polarity: dbmysql.PolarityLike,
			setupMocks: func(m serviceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(false, nil)
			},
			wantErr: common.ErrNotFound,
		},
		{
			name:     "no reaction creates like",
			viewer:   viewer,
			polarity: dbmysql.PolarityLike,
			setupMocks: func(m serviceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
				m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, videoID).Return(nil, nil)
				m.reactions.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, r *dbmysql.Reaction) error {
						require.Equal(t, viewer.UserID, r.UserID)
						require.Equal(t, videoID, r.VideoID)
						require.Equal(t, dbmysql.PolarityLike, r.Polarity)
						return nil
					})
			},
			wantState: &ReactionState{Active: true, Polarity: dbmysql.PolarityLike},
		},
		{
			name:     "same polarity removes reaction",
			viewer:   viewer,
			polarity: dbmysql.PolarityLike,
			setupMocks: func(m serviceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
				existing := &dbmysql.Reaction{ReactionID: 3, UserID: viewer.UserID, VideoID: videoID, Polarity: dbmysql.PolarityLike}
				m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, videoID).Return(existing, nil)
				m.reactions.EXPECT().Delete(gomock.Any(), existing.ReactionID).Return(nil)
			},
			wantState: &ReactionState{},
		},
		{
			name:     "opposite polarity switches in place",
			viewer:   viewer,
			polarity: dbmysql.PolarityDislike,
			setupMocks: func(m serviceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
				existing := &dbmysql.Reaction{ReactionID: 3, UserID: viewer.UserID, VideoID: videoID, Polarity: dbmysql.PolarityLike}
				m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, videoID).Return(existing, nil)
				m.reactions.EXPECT().UpdatePolarity(gomock.Any(), existing.ReactionID, dbmysql.PolarityDislike).Return(nil)
			},
			wantState: &ReactionState{Active: true, Polarity: dbmysql.PolarityDislike},
		},
		{
			name:     "lost insert race re-reads and toggles off",
			viewer:   viewer,
			polarity: dbmysql.PolarityLike,
			setupMocks: func(m serviceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
				first := m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, videoID).Return(nil, nil)
				m.reactions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(common.ErrConflict)
				raced := &dbmysql.Reaction{ReactionID: 9, UserID: viewer.UserID, VideoID: videoID, Polarity: dbmysql.PolarityLike}
				m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, videoID).Return(raced, nil).After(first)
				m.reactions.EXPECT().Delete(gomock.Any(), raced.ReactionID).Return(nil)
			},
			wantState: &ReactionState{},
		},
		{
			name:     "retries exhausted surfaces conflict",
			viewer:   viewer,
			polarity: dbmysql.PolarityLike,
			setupMocks: func(m serviceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
				m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, videoID).Return(nil, nil).Times(2)
				m.reactions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(common.ErrConflict).Times(2)
			},
			wantErr: common.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, ctrl := newServiceWithMocks(t)
			defer ctrl.Finish()
			tt.setupMocks(m)

			state, err := svc.ToggleReaction(context.Background(), tt.viewer, videoID, tt.polarity)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, state)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantState, state)
		})
	}
}

func TestToggleReactionIdempotentPair(t *testing.T) {
	// toggling the same polarity twice lands back where it started
	viewer := common.Viewer{UserID: 7}
	const videoID = uint64(42)

	svc, m, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil).Times(2)

	var stored *dbmysql.Reaction
	m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, videoID).DoAndReturn(
		func(context.Context, uint64, uint64) (*dbmysql.Reaction, error) {
			return stored, nil
		}).Times(2)
	m.reactions.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *dbmysql.Reaction) error {
			r.ReactionID = 1
			stored = r
			return nil
		})
	m.reactions.EXPECT().Delete(gomock.Any(), uint64(1)).DoAndReturn(
		func(context.Context, uint64) error {
			stored = nil
			return nil
		})

	state, err := svc.ToggleReaction(context.Background(), viewer, videoID, dbmysql.PolarityLike)
	require.NoError(t, err)
	require.True(t, state.Active)

	state, err = svc.ToggleReaction(context.Background(), viewer, videoID, dbmysql.PolarityLike)
	require.NoError(t, err)
	require.False(t, state.Active)
	require.Nil(t, stored)
}

func TestToggleSubscription(t *testing.T) {
	viewer := common.Viewer{UserID: 7, Handle: "alice"}
	const targetID = uint64(12)

	tests := []struct {
		name           string
		viewer         common.Viewer
		target         uint64
		setupMocks     func(m serviceMocks)
		wantSubscribed bool
		wantErr        error
	}{
		{
			name:       "anonymous viewer rejected",
			viewer:     common.Anonymous,
			target:     targetID,
			setupMocks: func(m serviceMocks) {},
			wantErr:    common.ErrUnauthorized,
		},
		{
			name:       "self subscription rejected",
			viewer:     viewer,
			target:     viewer.UserID,
			setupMocks: func(m serviceMocks) {},
			wantErr:    common.ErrInvalidOperation,
		},
		{
			name:   "missing target user",
			viewer: viewer,
			target: targetID,
			setupMocks: func(m serviceMocks) {
				m.users.EXPECT().UserExists(gomock.Any(), targetID).Return(false, nil)
			},
			wantErr: common.ErrNotFound,
		},
		{
			name:   "absent subscription subscribes",
			viewer: viewer,
			target: targetID,
			setupMocks: func(m serviceMocks) {
				m.users.EXPECT().UserExists(gomock.Any(), targetID).Return(true, nil)
				m.subs.EXPECT().Get(gomock.Any(), viewer.UserID, targetID).Return(nil, nil)
				m.subs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, s *dbmysql.Subscription) error {
						require.Equal(t, viewer.UserID, s.SubscriberID)
						require.Equal(t, targetID, s.SubscribedToID)
						return nil
					})
			},
			wantSubscribed: true,
		},
		{
			name:   "present subscription unsubscribes",
			viewer: viewer,
			target: targetID,
			setupMocks: func(m serviceMocks) {
				m.users.EXPECT().UserExists(gomock.Any(), targetID).Return(true, nil)
				existing := &dbmysql.Subscription{SubscriptionID: 5, SubscriberID: viewer.UserID, SubscribedToID: targetID}
				m.subs.EXPECT().Get(gomock.Any(), viewer.UserID, targetID).Return(existing, nil)
				m.subs.EXPECT().Delete(gomock.Any(), existing.SubscriptionID).Return(nil)
			},
			wantSubscribed: false,
		},
		{
			name:   "lost insert race re-reads and unsubscribes",
			viewer: viewer,
			target: targetID,
			setupMocks: func(m serviceMocks) {
				m.users.EXPECT().UserExists(gomock.Any(), targetID).Return(true, nil)
				first := m.subs.EXPECT().Get(gomock.Any(), viewer.UserID, targetID).Return(nil, nil)
				m.subs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(common.ErrConflict)
				raced := &dbmysql.Subscription{SubscriptionID: 8, SubscriberID: viewer.UserID, SubscribedToID: targetID}
				m.subs.EXPECT().Get(gomock.Any(), viewer.UserID, targetID).Return(raced, nil).After(first)
				m.subs.EXPECT().Delete(gomock.Any(), raced.SubscriptionID).Return(nil)
			},
			wantSubscribed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, ctrl := newServiceWithMocks(t)
			defer ctrl.Finish()
			tt.setupMocks(m)

			subscribed, err := svc.ToggleSubscription(context.Background(), tt.viewer, tt.target)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantSubscribed, subscribed)
		})
	}
}

func TestRecordView(t *testing.T) {
	const videoID = uint64(42)

	t.Run("missing video", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(false, nil)

		_, err := svc.RecordView(context.Background(), videoID, common.Anonymous)
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("anonymous view stores no user", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
		m.views.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, v *dbmysql.View) error {
				require.Equal(t, videoID, v.VideoID)
				require.Nil(t, v.UserID)
				return nil
			})

		view, err := svc.RecordView(context.Background(), videoID, common.Anonymous)
		require.NoError(t, err)
		require.Nil(t, view.UserID)
	})

	t.Run("identified view stores the user", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		viewer := common.Viewer{UserID: 7}
		m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
		m.views.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, v *dbmysql.View) error {
				require.NotNil(t, v.UserID)
				require.Equal(t, viewer.UserID, *v.UserID)
				return nil
			})

		view, err := svc.RecordView(context.Background(), videoID, viewer)
		require.NoError(t, err)
		require.NotNil(t, view.UserID)
	})

	t.Run("repeated views each count", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		viewer := common.Viewer{UserID: 7}
		m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil).Times(3)
		m.views.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(3)

		for i := 0; i < 3; i++ {
			_, err := svc.RecordView(context.Background(), videoID, viewer)
			require.NoError(t, err)
		}
	})
}

func TestSnapshot(t *testing.T) {
	video := &dbmysql.Video{VideoID: 42, OwnerID: 3}

	expectCounts := func(m serviceMocks) {
		m.views.EXPECT().CountForVideo(gomock.Any(), video.VideoID).Return(int64(100), nil)
		m.reactions.EXPECT().CountForVideo(gomock.Any(), video.VideoID, dbmysql.PolarityLike).Return(int64(10), nil)
		m.reactions.EXPECT().CountForVideo(gomock.Any(), video.VideoID, dbmysql.PolarityDislike).Return(int64(2), nil)
		m.subs.EXPECT().CountSubscribers(gomock.Any(), video.OwnerID).Return(int64(5), nil)
	}

	t.Run("anonymous viewer gets counts only", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		// no per-viewer lookups are expected for anonymous viewers
		expectCounts(m)

		eng, err := svc.Snapshot(context.Background(), video, common.Anonymous)
		require.NoError(t, err)
		require.Equal(t, int64(100), eng.ViewCount)
		require.Equal(t, int64(10), eng.LikeCount)
		require.Equal(t, int64(2), eng.DislikeCount)
		require.Equal(t, int64(5), eng.SubscriberCount)
		require.False(t, eng.LikedByViewer)
		require.False(t, eng.DislikedByViewer)
		require.False(t, eng.ViewedByViewer)
		require.False(t, eng.OwnedByViewer)
		require.False(t, eng.SubscribedByViewer)
	})

	t.Run("identified viewer with like and subscription", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		viewer := common.Viewer{UserID: 7}
		expectCounts(m)
		m.reactions.EXPECT().Get(gomock.Any(), viewer.UserID, video.VideoID).
			Return(&dbmysql.Reaction{Polarity: dbmysql.PolarityLike}, nil)
		m.views.EXPECT().Exists(gomock.Any(), video.VideoID, viewer.UserID).Return(true, nil)
		m.subs.EXPECT().Exists(gomock.Any(), viewer.UserID, video.OwnerID).Return(true, nil)

		eng, err := svc.Snapshot(context.Background(), video, viewer)
		require.NoError(t, err)
		require.True(t, eng.LikedByViewer)
		require.False(t, eng.DislikedByViewer)
		require.True(t, eng.ViewedByViewer)
		require.False(t, eng.OwnedByViewer)
		require.True(t, eng.SubscribedByViewer)
	})

	t.Run("owner viewing their own video", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		owner := common.Viewer{UserID: video.OwnerID}
		expectCounts(m)
		m.reactions.EXPECT().Get(gomock.Any(), owner.UserID, video.VideoID).Return(nil, nil)
		m.views.EXPECT().Exists(gomock.Any(), video.VideoID, owner.UserID).Return(false, nil)
		m.subs.EXPECT().Exists(gomock.Any(), owner.UserID, video.OwnerID).Return(false, nil)

		eng, err := svc.Snapshot(context.Background(), video, owner)
		require.NoError(t, err)
		require.True(t, eng.OwnedByViewer)
		require.False(t, eng.LikedByViewer)
	})
}

func TestViewCounts(t *testing.T) {
	svc, m, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	ids := []uint64{1, 2, 3}
	m.views.EXPECT().CountByVideo(gomock.Any(), ids).
		Return(map[uint64]int64{1: 5, 3: 2}, nil)

	counts, err := svc.ViewCounts(context.Background(), ids)
	require.NoError(t, err)
	require.Equal(t, int64(5), counts[1])
	require.Zero(t, counts[2])
	require.Equal(t, int64(2), counts[3])
}

func TestLikedAndViewedVideoIDs(t *testing.T) {
	t.Run("anonymous rejected", func(t *testing.T) {
		svc, _, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		_, err := svc.LikedVideoIDs(context.Background(), common.Anonymous)
		require.ErrorIs(t, err, common.ErrUnauthorized)

		_, err = svc.ViewedVideoIDs(context.Background(), common.Anonymous)
		require.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("identified viewer gets ids", func(t *testing.T) {
		svc, m, ctrl := newServiceWithMocks(t)
		defer ctrl.Finish()

		viewer := common.Viewer{UserID: 7}
		m.reactions.EXPECT().ListLikedVideoIDs(gomock.Any(), viewer.UserID).Return([]uint64{3, 1}, nil)
		m.views.EXPECT().ListViewedVideoIDs(gomock.Any(), viewer.UserID).Return([]uint64{2, 2, 1}, nil)

		liked, err := svc.LikedVideoIDs(context.Background(), viewer)
		require.NoError(t, err)
		require.Equal(t, []uint64{3, 1}, liked)

		viewed, err := svc.ViewedVideoIDs(context.Background(), viewer)
		require.NoError(t, err)
		require.Equal(t, []uint64{2, 2, 1}, viewed)
	})
}

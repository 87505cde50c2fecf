package video

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
	"vidtube/internal/engagement"
)

type videoServiceMocks struct {
	videos     *MockVideoRepository
	comments   *MockCommentRepository
	engagement *engagement.MockService
}

func newVideoServiceWithMocks(t *testing.T) (VideoService, videoServiceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	m := videoServiceMocks{
		videos:     NewMockVideoRepository(ctrl),
		comments:   NewMockCommentRepository(ctrl),
		engagement: engagement.NewMockService(ctrl),
	}
	svc := NewVideoService(m.videos, m.comments, m.engagement)
	return svc, m, ctrl
}

func TestPublish(t *testing.T) {
	viewer := common.Viewer{UserID: 7, Handle: "alice"}

	tests := []struct {
		name       string
		viewer     common.Viewer
		title      string
		url        string
		setupMocks func(m videoServiceMocks)
		wantErr    error
	}{
		{
			name:       "anonymous viewer rejected",
			viewer:     common.Anonymous,
			title:      "my video",
			url:        "https://cdn.example.com/v.mp4",
			setupMocks: func(m videoServiceMocks) {},
			wantErr:    common.ErrUnauthorized,
		},
		{
			name:       "empty title rejected",
			viewer:     viewer,
			title:      "   ",
			url:        "https://cdn.example.com/v.mp4",
			setupMocks: func(m videoServiceMocks) {},
			wantErr:    common.ErrInvalidOperation,
		},
		{
			name:       "empty url rejected",
			viewer:     viewer,
			title:      "my video",
			url:        "",
			setupMocks: func(m videoServiceMocks) {},
			wantErr:    common.ErrInvalidOperation,
		},
		{
			name:   "valid publish stores the owner",
			viewer: viewer,
			title:  "my video",
			url:    "https://cdn.example.com/v.mp4",
			setupMocks: func(m videoServiceMocks) {
				m.videos.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, v *dbmysql.Video) error {
						require.Equal(t, viewer.UserID, v.OwnerID)
						require.Equal(t, "my video", v.Title)
						v.VideoID = 1
						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, ctrl := newVideoServiceWithMocks(t)
			defer ctrl.Finish()
			tt.setupMocks(m)

			video, err := svc.Publish(context.Background(), tt.viewer, tt.title, "desc", tt.url, "")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotZero(t, video.VideoID)
		})
	}
}

func TestGet(t *testing.T) {
	svc, m, ctrl := newVideoServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := common.Viewer{UserID: 7}
	video := &dbmysql.Video{VideoID: 42, OwnerID: 3, Title: "clip"}
	eng := &engagement.VideoEngagement{ViewCount: 10, LikedByViewer: true}

	m.videos.EXPECT().GetByID(gomock.Any(), video.VideoID).Return(video, nil)
	m.engagement.EXPECT().Snapshot(gomock.Any(), video, viewer).Return(eng, nil)

	detail, err := svc.Get(context.Background(), video.VideoID, viewer)
	require.NoError(t, err)
	require.Equal(t, video, detail.Video)
	require.Equal(t, eng, detail.Engagement)
}

func TestDelete(t *testing.T) {
	video := &dbmysql.Video{VideoID: 42, OwnerID: 3}

	t.Run("missing video", func(t *testing.T) {
		svc, m, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		m.videos.EXPECT().GetByID(gomock.Any(), video.VideoID).Return(nil, common.ErrNotFound)

		err := svc.Delete(context.Background(), video.VideoID, common.Viewer{UserID: 3})
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("non-owner rejected without cascade", func(t *testing.T) {
		svc, m, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		m.videos.EXPECT().GetByID(gomock.Any(), video.VideoID).Return(video, nil)
		// no Delete expectation: the cascade must not run

		err := svc.Delete(context.Background(), video.VideoID, common.Viewer{UserID: 7})
		require.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		svc, m, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		m.videos.EXPECT().GetByID(gomock.Any(), video.VideoID).Return(video, nil)

		err := svc.Delete(context.Background(), video.VideoID, common.Anonymous)
		require.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("owner deletes with cascade", func(t *testing.T) {
		svc, m, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		m.videos.EXPECT().GetByID(gomock.Any(), video.VideoID).Return(video, nil)
		m.videos.EXPECT().Delete(gomock.Any(), video.VideoID).Return(nil)

		err := svc.Delete(context.Background(), video.VideoID, common.Viewer{UserID: video.OwnerID})
		require.NoError(t, err)
	})
}

func TestTrending(t *testing.T) {
	svc, m, ctrl := newVideoServiceWithMocks(t)
	defer ctrl.Finish()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	videos := []dbmysql.Video{
		{VideoID: 1, CreatedAt: base.Add(3 * time.Hour)},
		{VideoID: 2, CreatedAt: base.Add(2 * time.Hour)},
		{VideoID: 3, CreatedAt: base.Add(1 * time.Hour)},
		{VideoID: 4, CreatedAt: base.Add(2 * time.Hour)},
	}

	m.videos.EXPECT().List(gomock.Any()).Return(videos, nil)
	m.engagement.EXPECT().ViewCounts(gomock.Any(), []uint64{1, 2, 3, 4}).
		Return(map[uint64]int64{1: 1, 2: 5, 3: 5, 4: 5}, nil)

	listings, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 4)

	// view count descending; ties break newest first, then highest id
	require.Equal(t, uint64(2), listings[0].VideoID)
	require.Equal(t, uint64(4), listings[1].VideoID)
	require.Equal(t, uint64(3), listings[2].VideoID)
	require.Equal(t, uint64(1), listings[3].VideoID)
}

func TestSearch(t *testing.T) {
	t.Run("blank query rejected", func(t *testing.T) {
		svc, _, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		_, err := svc.Search(context.Background(), "   ")
		require.ErrorIs(t, err, common.ErrInvalidOperation)
	})

	t.Run("results carry view counts", func(t *testing.T) {
		svc, m, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		videos := []dbmysql.Video{{VideoID: 1, Title: "go tutorial"}}
		m.videos.EXPECT().Search(gomock.Any(), "go").Return(videos, nil)
		m.engagement.EXPECT().ViewCounts(gomock.Any(), []uint64{1}).
			Return(map[uint64]int64{1: 9}, nil)

		listings, err := svc.Search(context.Background(), "go")
		require.NoError(t, err)
		require.Len(t, listings, 1)
		require.Equal(t, int64(9), listings[0].ViewCount)
	})
}

func TestAddComment(t *testing.T) {
	viewer := common.Viewer{UserID: 7}
	const videoID = uint64(42)

	tests := []struct {
		name       string
		viewer     common.Viewer
		text       string
		setupMocks func(m videoServiceMocks)
		wantErr    error
	}{
		{
			name:       "anonymous viewer rejected",
			viewer:     common.Anonymous,
			text:       "nice",
			setupMocks: func(m videoServiceMocks) {},
			wantErr:    common.ErrUnauthorized,
		},
		{
			name:       "blank text rejected",
			viewer:     viewer,
			text:       "  ",
			setupMocks: func(m videoServiceMocks) {},
			wantErr:    common.ErrInvalidOperation,
		},
		{
			name:   "missing video",
			viewer: viewer,
			text:   "nice",
			setupMocks: func(m videoServiceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(false, nil)
			},
			wantErr: common.ErrNotFound,
		},
		{
			name:   "valid comment stores the author",
			viewer: viewer,
			text:   "nice",
			setupMocks: func(m videoServiceMocks) {
				m.videos.EXPECT().VideoExists(gomock.Any(), videoID).Return(true, nil)
				m.comments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, c *dbmysql.Comment) error {
						require.Equal(t, viewer.UserID, c.AuthorID)
						require.Equal(t, videoID, c.VideoID)
						c.CommentID = 1
						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, ctrl := newVideoServiceWithMocks(t)
			defer ctrl.Finish()
			tt.setupMocks(m)

			comment, err := svc.AddComment(context.Background(), tt.viewer, videoID, tt.text)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotZero(t, comment.CommentID)
		})
	}
}

func TestDeleteComment(t *testing.T) {
	comment := &dbmysql.Comment{CommentID: 9, VideoID: 42, AuthorID: 7}

	t.Run("non-author rejected", func(t *testing.T) {
		svc, m, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		m.comments.EXPECT().GetByID(gomock.Any(), comment.CommentID).Return(comment, nil)

		err := svc.DeleteComment(context.Background(), common.Viewer{UserID: 3}, comment.CommentID)
		require.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("author deletes", func(t *testing.T) {
		svc, m, ctrl := newVideoServiceWithMocks(t)
		defer ctrl.Finish()

		m.comments.EXPECT().GetByID(gomock.Any(), comment.CommentID).Return(comment, nil)
		m.comments.EXPECT().Delete(gomock.Any(), comment.CommentID).Return(nil)

		err := svc.DeleteComment(context.Background(), common.Viewer{UserID: comment.AuthorID}, comment.CommentID)
		require.NoError(t, err)
	})
}

func TestLikedVideosKeepsOrder(t *testing.T) {
	svc, m, ctrl := newVideoServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := common.Viewer{UserID: 7}
	ids := []uint64{3, 1, 2}

	m.engagement.EXPECT().LikedVideoIDs(gomock.Any(), viewer).Return(ids, nil)
	// the store returns rows in its own order; the listing must follow ids
	m.videos.EXPECT().ListByIDs(gomock.Any(), ids).Return([]dbmysql.Video{
		{VideoID: 1}, {VideoID: 2}, {VideoID: 3},
	}, nil)
	m.engagement.EXPECT().ViewCounts(gomock.Any(), []uint64{1, 2, 3}).
		Return(map[uint64]int64{1: 1, 2: 2, 3: 3}, nil)

	listings, err := svc.LikedVideos(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, listings, 3)
	require.Equal(t, uint64(3), listings[0].VideoID)
	require.Equal(t, uint64(1), listings[1].VideoID)
	require.Equal(t, uint64(2), listings[2].VideoID)
}

func TestHistoryDeduplicatesAndDropsDeleted(t *testing.T) {
	svc, m, ctrl := newVideoServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := common.Viewer{UserID: 7}
	// video 2 was watched twice, video 9 has since been deleted
	ids := []uint64{2, 9, 1, 2}

	m.engagement.EXPECT().ViewedVideoIDs(gomock.Any(), viewer).Return(ids, nil)
	m.videos.EXPECT().ListByIDs(gomock.Any(), ids).Return([]dbmysql.Video{
		{VideoID: 1}, {VideoID: 2},
	}, nil)
	m.engagement.EXPECT().ViewCounts(gomock.Any(), []uint64{1, 2}).
		Return(map[uint64]int64{1: 4, 2: 8}, nil)

	listings, err := svc.History(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	require.Equal(t, uint64(2), listings[0].VideoID)
	require.Equal(t, uint64(1), listings[1].VideoID)
}

package video

import (
	"context"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
	"vidtube/internal/engagement"
)

// VideoListing is a video plus its view count, used by every listing
// endpoint. Counts come from one grouped query per listing, not one query
// per video.
type VideoListing struct {
	dbmysql.Video
	ViewCount int64 `json:"view_count"`
}

// VideoDetail is a single video with its full engagement snapshot from the
// requesting viewer's perspective.
type VideoDetail struct {
	Video      *dbmysql.Video              `json:"video"`
	Engagement *engagement.VideoEngagement `json:"engagement"`
}

type VideoService interface {
	Publish(ctx context.Context, viewer common.Viewer, title, description, url, thumbnail string) (*dbmysql.Video, error)
	Get(ctx context.Context, videoID uint64, viewer common.Viewer) (*VideoDetail, error)
	// Delete removes the video and everything referencing it; only the owner
	// may do this.
	Delete(ctx context.Context, videoID uint64, viewer common.Viewer) error
	Recommended(ctx context.Context) ([]VideoListing, error)
	// Trending sorts by view count descending; ties order newest first.
	Trending(ctx context.Context) ([]VideoListing, error)
	Search(ctx context.Context, query string) ([]VideoListing, error)
	AddComment(ctx context.Context, viewer common.Viewer, videoID uint64, text string) (*dbmysql.Comment, error)
	ListComments(ctx context.Context, videoID uint64) ([]dbmysql.Comment, error)
	// DeleteComment removes a comment; only its author may do this.
	DeleteComment(ctx context.Context, viewer common.Viewer, commentID uint64) error
	LikedVideos(ctx context.Context, viewer common.Viewer) ([]VideoListing, error)
	History(ctx context.Context, viewer common.Viewer) ([]VideoListing, error)
}

type videoService struct {
	videos     VideoRepository
	comments   CommentRepository
	engagement engagement.Service
}

func NewVideoService(videos VideoRepository, comments CommentRepository, eng engagement.Service) VideoService {
	return &videoService{videos: videos, comments: comments, engagement: eng}
}

func (s *videoService) Publish(ctx context.Context, viewer common.Viewer, title, description, url, thumbnail string) (*dbmysql.Video, error) {
	if viewer.IsAnonymous() {
		return nil, pkgerrors.Wrap(common.ErrUnauthorized, "publishing requires an identified viewer")
	}
	if strings.TrimSpace(title) == "" {
		return nil, pkgerrors.Wrap(common.ErrInvalidOperation, "title is required")
	}
	if strings.TrimSpace(url) == "" {
		return nil, pkgerrors.Wrap(common.ErrInvalidOperation, "url is required")
	}

	video := &dbmysql.Video{
		OwnerID:     viewer.UserID,
		Title:       title,
		Description: description,
		URL:         url,
		Thumbnail:   thumbnail,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) Get(ctx context.Context, videoID uint64, viewer common.Viewer) (*VideoDetail, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	eng, err := s.engagement.Snapshot(ctx, video, viewer)
	if err != nil {
		return nil, err
	}

	return &VideoDetail{Video: video, Engagement: eng}, nil
}

func (s *videoService) Delete(ctx context.Context, videoID uint64, viewer common.Viewer) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return err
	}

	if err := common.AssertOwner(video.OwnerID, viewer); err != nil {
		return pkgerrors.Wrap(err, "only the owner can delete a video")
	}

	return s.videos.Delete(ctx, videoID)
}

func (s *videoService) Recommended(ctx context.Context) ([]VideoListing, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withViewCounts(ctx, videos)
}

func (s *videoService) Trending(ctx context.Context) ([]VideoListing, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}

	listings, err := s.withViewCounts(ctx, videos)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].ViewCount != listings[j].ViewCount {
			return listings[i].ViewCount > listings[j].ViewCount
		}
		if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		}
		return listings[i].VideoID > listings[j].VideoID
	})

	return listings, nil
}

func (s *videoService) Search(ctx context.Context, query string) ([]VideoListing, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.Wrap(common.ErrInvalidOperation, "please enter a search query")
	}

	videos, err := s.videos.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.withViewCounts(ctx, videos)
}

func (s *videoService) AddComment(ctx context.Context, viewer common.Viewer, videoID uint64, text string) (*dbmysql.Comment, error) {
	if viewer.IsAnonymous() {
		return nil, pkgerrors.Wrap(common.ErrUnauthorized, "commenting requires an identified viewer")
	}
	if strings.TrimSpace(text) == "" {
		return nil, pkgerrors.Wrap(common.ErrInvalidOperation, "comment text is required")
	}

	exists, err := s.videos.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.Wrapf(common.ErrNotFound, "no video with id %d", videoID)
	}

	comment := &dbmysql.Comment{
		VideoID:  videoID,
		AuthorID: viewer.UserID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *videoService) ListComments(ctx context.Context, videoID uint64) ([]dbmysql.Comment, error) {
	exists, err := s.videos.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.Wrapf(common.ErrNotFound, "no video with id %d", videoID)
	}

	return s.comments.ListForVideo(ctx, videoID)
}

func (s *videoService) DeleteComment(ctx context.Context, viewer common.Viewer, commentID uint64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if err := common.AssertOwner(comment.AuthorID, viewer); err != nil {
		return pkgerrors.Wrap(err, "only the author can delete a comment")
	}

	return s.comments.Delete(ctx, commentID)
}

func (s *videoService) LikedVideos(ctx context.Context, viewer common.Viewer) ([]VideoListing, error) {
	ids, err := s.engagement.LikedVideoIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return s.listingsInOrder(ctx, ids)
}

func (s *videoService) History(ctx context.Context, viewer common.Viewer) ([]VideoListing, error) {
	ids, err := s.engagement.ViewedVideoIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return s.listingsInOrder(ctx, ids)
}

// withViewCounts decorates videos with view counts from one grouped query.
func (s *videoService) withViewCounts(ctx context.Context, videos []dbmysql.Video) ([]VideoListing, error) {
	ids := make([]uint64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.VideoID)
	}

	counts, err := s.engagement.ViewCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	listings := make([]VideoListing, 0, len(videos))
	for _, v := range videos {
		listings = append(listings, VideoListing{Video: v, ViewCount: counts[v.VideoID]})
	}
	return listings, nil
}

// listingsInOrder loads the videos for ids and returns them in the order the
// ids arrived, dropping repeats (watch history can contain the same video
// many times) and ids whose video has since been deleted.
func (s *videoService) listingsInOrder(ctx context.Context, ids []uint64) ([]VideoListing, error) {
	videos, err := s.videos.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	listings, err := s.withViewCounts(ctx, videos)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]VideoListing, len(listings))
	for _, l := range listings {
		byID[l.VideoID] = l
	}

	ordered := make([]VideoListing, 0, len(ids))
	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}

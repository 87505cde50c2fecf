package engagement

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

// VideoFinder is the slice of the video store this package needs. Satisfied
// by video.VideoRepository.
type VideoFinder interface {
	VideoExists(ctx context.Context, videoID uint64) (bool, error)
}

// UserFinder is the slice of the user store this package needs. Satisfied by
// user.UserRepository.
type UserFinder interface {
	UserExists(ctx context.Context, userID uint64) (bool, error)
}

// ReactionState is the outcome of a toggle: either no reaction remains, or
// one with the given polarity.
type ReactionState struct {
	Active   bool `json:"active"`
	Polarity int8 `json:"polarity"`
}

// VideoEngagement is one video's aggregate counters plus the requesting
// viewer's personal relationship to it. Viewer flags are always false for
// anonymous viewers.
type VideoEngagement struct {
	ViewCount          int64 `json:"view_count"`
	LikeCount          int64 `json:"like_count"`
	DislikeCount       int64 `json:"dislike_count"`
	SubscriberCount    int64 `json:"subscriber_count"`
	LikedByViewer      bool  `json:"is_liked_by_viewer"`
	DislikedByViewer   bool  `json:"is_disliked_by_viewer"`
	ViewedByViewer     bool  `json:"is_viewed_by_viewer"`
	OwnedByViewer      bool  `json:"is_owned_by_viewer"`
	SubscribedByViewer bool  `json:"is_subscribed_by_viewer"`
}

type Service interface {
	// ToggleReaction applies the mutual-exclusion toggle for (viewer, video):
	// absent -> set to polarity, same polarity -> removed, opposite -> switched.
	ToggleReaction(ctx context.Context, viewer common.Viewer, videoID uint64, polarity int8) (*ReactionState, error)
	// ToggleSubscription creates the subscription when absent and removes it
	// when present. Self-subscription is rejected.
	ToggleSubscription(ctx context.Context, viewer common.Viewer, targetUserID uint64) (bool, error)
	// RecordView appends a view event; repeated calls each count.
	RecordView(ctx context.Context, videoID uint64, viewer common.Viewer) (*dbmysql.View, error)
	// Snapshot computes the engagement state of one video from the given
	// viewer's perspective. Counts are read fresh on every call.
	Snapshot(ctx context.Context, video *dbmysql.Video, viewer common.Viewer) (*VideoEngagement, error)
	// ViewCounts computes view counts for many videos in one grouped query.
	ViewCounts(ctx context.Context, videoIDs []uint64) (map[uint64]int64, error)
	LikedVideoIDs(ctx context.Context, viewer common.Viewer) ([]uint64, error)
	ViewedVideoIDs(ctx context.Context, viewer common.Viewer) ([]uint64, error)
}

type engagementService struct {
	reactions ReactionRepository
	views     ViewRepository
	subs      SubscriptionRepository
	videos    VideoFinder
	users     UserFinder
}

func NewService(reactions ReactionRepository, views ViewRepository, subs SubscriptionRepository, videos VideoFinder, users UserFinder) Service {
	return &engagementService{
		reactions: reactions,
		views:     views,
		subs:      subs,
		videos:    videos,
		users:     users,
	}
}

// toggleAttempts bounds the duplicate-key retry: the first attempt plus one
// re-read after losing an insert race.
const toggleAttempts = 2

func (s *engagementService) ToggleReaction(ctx context.Context, viewer common.Viewer, videoID uint64, polarity int8) (*ReactionState, error) {
	if viewer.IsAnonymous() {
		return nil, pkgerrors.Wrap(common.ErrUnauthorized, "reactions require an identified viewer")
	}
	if polarity != dbmysql.PolarityLike && polarity != dbmysql.PolarityDislike {
		return nil, pkgerrors.Wrapf(common.ErrInvalidOperation, "polarity must be +1 or -1, got %d", polarity)
	}

	exists, err := s.videos.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.Wrapf(common.ErrNotFound, "no video with id %d", videoID)
	}

	var state *ReactionState
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		state, err = s.toggleReactionOnce(ctx, viewer.UserID, videoID, polarity)
		if err == nil || !errors.Is(err, common.ErrConflict) {
			break
		}
		// lost an insert race; re-read and apply once more
	}
	return state, err
}

func (s *engagementService) toggleReactionOnce(ctx context.Context, userID, videoID uint64, polarity int8) (*ReactionState, error) {
	existing, err := s.reactions.Get(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		reaction := &dbmysql.Reaction{UserID: userID, VideoID: videoID, Polarity: polarity}
		if err := s.reactions.Create(ctx, reaction); err != nil {
			return nil, err
		}
		return &ReactionState{Active: true, Polarity: polarity}, nil

	case existing.Polarity == polarity:
		if err := s.reactions.Delete(ctx, existing.ReactionID); err != nil {
			return nil, err
		}
		return &ReactionState{}, nil

	default:
		if err := s.reactions.UpdatePolarity(ctx, existing.ReactionID, polarity); err != nil {
			return nil, err
		}
		return &ReactionState{Active: true, Polarity: polarity}, nil
	}
}

func (s *engagementService) ToggleSubscription(ctx context.Context, viewer common.Viewer, targetUserID uint64) (bool, error) {
	if viewer.IsAnonymous() {
		return false, pkgerrors.Wrap(common.ErrUnauthorized, "subscriptions require an identified viewer")
	}
	if viewer.UserID == targetUserID {
		return false, pkgerrors.Wrap(common.ErrInvalidOperation, "you cannot subscribe to your own channel")
	}

	exists, err := s.users.UserExists(ctx, targetUserID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, pkgerrors.Wrapf(common.ErrNotFound, "no user with id %d", targetUserID)
	}

	var subscribed bool
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		subscribed, err = s.toggleSubscriptionOnce(ctx, viewer.UserID, targetUserID)
		if err == nil || !errors.Is(err, common.ErrConflict) {
			break
		}
	}
	return subscribed, err
}

func (s *engagementService) toggleSubscriptionOnce(ctx context.Context, subscriberID, targetID uint64) (bool, error) {
	existing, err := s.subs.Get(ctx, subscriberID, targetID)
	if err != nil {
		return false, err
	}

	if existing == nil {
		sub := &dbmysql.Subscription{SubscriberID: subscriberID, SubscribedToID: targetID}
		if err := s.subs.Create(ctx, sub); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := s.subs.Delete(ctx, existing.SubscriptionID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *engagementService) RecordView(ctx context.Context, videoID uint64, viewer common.Viewer) (*dbmysql.View, error) {
	exists, err := s.videos.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.Wrapf(common.ErrNotFound, "no video with id %d", videoID)
	}

	view := &dbmysql.View{VideoID: videoID}
	if !viewer.IsAnonymous() {
		userID := viewer.UserID
		view.UserID = &userID
	}

	if err := s.views.Create(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *engagementService) Snapshot(ctx context.Context, video *dbmysql.Video, viewer common.Viewer) (*VideoEngagement, error) {
	viewCount, err := s.views.CountForVideo(ctx, video.VideoID)
	if err != nil {
		return nil, err
	}
	likeCount, err := s.reactions.CountForVideo(ctx, video.VideoID, dbmysql.PolarityLike)
	if err != nil {
		return nil, err
	}
	dislikeCount, err := s.reactions.CountForVideo(ctx, video.VideoID, dbmysql.PolarityDislike)
	if err != nil {
		return nil, err
	}
	subscriberCount, err := s.subs.CountSubscribers(ctx, video.OwnerID)
	if err != nil {
		return nil, err
	}

	eng := &VideoEngagement{
		ViewCount:       viewCount,
		LikeCount:       likeCount,
		DislikeCount:    dislikeCount,
		SubscriberCount: subscriberCount,
	}

	// Anonymous viewers have no per-viewer state; there is nothing to look up.
	if viewer.IsAnonymous() {
		return eng, nil
	}

	reaction, err := s.reactions.Get(ctx, viewer.UserID, video.VideoID)
	if err != nil {
		return nil, err
	}
	if reaction != nil {
		eng.LikedByViewer = reaction.Polarity == dbmysql.PolarityLike
		eng.DislikedByViewer = reaction.Polarity == dbmysql.PolarityDislike
	}

	viewed, err := s.views.Exists(ctx, video.VideoID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	eng.ViewedByViewer = viewed
	eng.OwnedByViewer = viewer.UserID == video.OwnerID

	subscribed, err := s.subs.Exists(ctx, viewer.UserID, video.OwnerID)
	if err != nil {
		return nil, err
	}
	eng.SubscribedByViewer = subscribed

	return eng, nil
}

func (s *engagementService) ViewCounts(ctx context.Context, videoIDs []uint64) (map[uint64]int64, error) {
	return s.views.CountByVideo(ctx, videoIDs)
}

func (s *engagementService) LikedVideoIDs(ctx context.Context, viewer common.Viewer) ([]uint64, error) {
	if viewer.IsAnonymous() {
		return nil, pkgerrors.Wrap(common.ErrUnauthorized, "liked videos require an identified viewer")
	}
	return s.reactions.ListLikedVideoIDs(ctx, viewer.UserID)
}

func (s *engagementService) ViewedVideoIDs(ctx context.Context, viewer common.Viewer) ([]uint64, error) {
	if viewer.IsAnonymous() {
		return nil, pkgerrors.Wrap(common.ErrUnauthorized, "watch history requires an identified viewer")
	}
	return s.views.ListViewedVideoIDs(ctx, viewer.UserID)
}

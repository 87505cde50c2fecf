package engagement

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

// ReactionRepository persists like/dislike rows. At most one row exists per
// (user, video) pair; the composite unique index backs that up, so Create
// reports a classified ErrConflict when a concurrent toggle won the insert.
type ReactionRepository interface {
	// Get returns the reaction for (userID, videoID), or nil when none exists.
	Get(ctx context.Context, userID, videoID uint64) (*dbmysql.Reaction, error)
	Create(ctx context.Context, reaction *dbmysql.Reaction) error
	UpdatePolarity(ctx context.Context, reactionID uint64, polarity int8) error
	Delete(ctx context.Context, reactionID uint64) error
	CountForVideo(ctx context.Context, videoID uint64, polarity int8) (int64, error)
	// ListLikedVideoIDs returns ids of videos the user has liked, most recent
	// reaction first.
	ListLikedVideoIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Get(ctx context.Context, userID, videoID uint64) (*dbmysql.Reaction, error) {
	var reaction dbmysql.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapStore(err, "get reaction")
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *dbmysql.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		if common.IsDuplicateKey(err) {
			return common.ErrConflict
		}
		return common.WrapStore(err, "create reaction")
	}
	return nil
}

func (r *reactionRepository) UpdatePolarity(ctx context.Context, reactionID uint64, polarity int8) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Reaction{}).
		Where("reaction_id = ?", reactionID).
		Updates(map[string]interface{}{
			"polarity":   polarity,
			"created_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
	return common.WrapStore(err, "update reaction polarity")
}

func (r *reactionRepository) Delete(ctx context.Context, reactionID uint64) error {
	err := r.db.WithContext(ctx).
		Where("reaction_id = ?", reactionID).
		Delete(&dbmysql.Reaction{}).Error
	return common.WrapStore(err, "delete reaction")
}

func (r *reactionRepository) CountForVideo(ctx context.Context, videoID uint64, polarity int8) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Reaction{}).
		Where("video_id = ? AND polarity = ?", videoID, polarity).
		Count(&count).Error
	if err != nil {
		return 0, common.WrapStore(err, "count reactions")
	}
	return count, nil
}

func (r *reactionRepository) ListLikedVideoIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Reaction{}).
		Where("user_id = ? AND polarity = ?", userID, dbmysql.PolarityLike).
		Order("created_at DESC").
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, common.WrapStore(err, "list liked video ids")
	}
	return ids, nil
}

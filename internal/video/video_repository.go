package video

import (
	"context"

	"gorm.io/gorm"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

type VideoRepository interface {
	Create(ctx context.Context, video *dbmysql.Video) error
	GetByID(ctx context.Context, videoID uint64) (*dbmysql.Video, error)
	VideoExists(ctx context.Context, videoID uint64) (bool, error)
	// List returns all videos, newest first.
	List(ctx context.Context) ([]dbmysql.Video, error)
	ListByIDs(ctx context.Context, videoIDs []uint64) ([]dbmysql.Video, error)
	Search(ctx context.Context, query string) ([]dbmysql.Video, error)
	// Delete removes the video and every row referencing it (views,
	// reactions, comments) in a single transaction. Dependents go first; if
	// any step fails the whole cascade rolls back.
	Delete(ctx context.Context, videoID uint64) error
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *dbmysql.Video) error {
	return common.WrapStore(r.db.WithContext(ctx).Create(video).Error, "create video")
}

func (r *videoRepository) GetByID(ctx context.Context, videoID uint64) (*dbmysql.Video, error) {
	var video dbmysql.Video
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&video).Error
	if err != nil {
		return nil, common.WrapStore(err, "get video")
	}
	return &video, nil
}

func (r *videoRepository) VideoExists(ctx context.Context, videoID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Video{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	if err != nil {
		return false, common.WrapStore(err, "check video exists")
	}
	return count > 0, nil
}

func (r *videoRepository) List(ctx context.Context) ([]dbmysql.Video, error) {
	var videos []dbmysql.Video
	err := r.db.WithContext(ctx).
		Order("created_at DESC, video_id DESC").
		Find(&videos).Error
	if err != nil {
		return nil, common.WrapStore(err, "list videos")
	}
	return videos, nil
}

func (r *videoRepository) ListByIDs(ctx context.Context, videoIDs []uint64) ([]dbmysql.Video, error) {
	videos := make([]dbmysql.Video, 0, len(videoIDs))
	if len(videoIDs) == 0 {
		return videos, nil
	}
	err := r.db.WithContext(ctx).
		Where("video_id IN ?", videoIDs).
		Find(&videos).Error
	if err != nil {
		return nil, common.WrapStore(err, "list videos by ids")
	}
	return videos, nil
}

func (r *videoRepository) Search(ctx context.Context, query string) ([]dbmysql.Video, error) {
	var videos []dbmysql.Video
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Order("created_at DESC, video_id DESC").
		Find(&videos).Error
	if err != nil {
		return nil, common.WrapStore(err, "search videos")
	}
	return videos, nil
}

func (r *videoRepository) Delete(ctx context.Context, videoID uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", videoID).Delete(&dbmysql.View{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", videoID).Delete(&dbmysql.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", videoID).Delete(&dbmysql.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("video_id = ?", videoID).Delete(&dbmysql.Video{}).Error
	})
	return common.WrapStore(err, "delete video cascade")
}

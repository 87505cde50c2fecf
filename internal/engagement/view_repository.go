package engagement

import (
	"context"

	"gorm.io/gorm"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

// ViewRepository persists append-only view events. Views are never updated
// or deduplicated; counts are aggregate queries so they reflect concurrent
// inserts from other requests.
type ViewRepository interface {
	Create(ctx context.Context, view *dbmysql.View) error
	CountForVideo(ctx context.Context, videoID uint64) (int64, error)
	// CountByVideo returns view counts for all given videos in one grouped
	// query. Videos with no views are absent from the map.
	CountByVideo(ctx context.Context, videoIDs []uint64) (map[uint64]int64, error)
	Exists(ctx context.Context, videoID, userID uint64) (bool, error)
	// ListViewedVideoIDs returns ids of videos the user has viewed, most
	// recent view first. Repeat views produce repeat ids.
	ListViewedVideoIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type viewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) ViewRepository {
	return &viewRepository{db: db}
}

func (r *viewRepository) Create(ctx context.Context, view *dbmysql.View) error {
	return common.WrapStore(r.db.WithContext(ctx).Create(view).Error, "create view")
}

func (r *viewRepository) CountForVideo(ctx context.Context, videoID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.View{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	if err != nil {
		return 0, common.WrapStore(err, "count views")
	}
	return count, nil
}

func (r *viewRepository) CountByVideo(ctx context.Context, videoIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		VideoID uint64
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&dbmysql.View{}).
		Select("video_id, COUNT(*) AS total").
		Where("video_id IN ?", videoIDs).
		Group("video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, common.WrapStore(err, "count views by video")
	}

	for _, row := range rows {
		counts[row.VideoID] = row.Total
	}
	return counts, nil
}

func (r *viewRepository) Exists(ctx context.Context, videoID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.View{}).
		Where("video_id = ? AND user_id = ?", videoID, userID).
		Count(&count).Error
	if err != nil {
		return false, common.WrapStore(err, "check view exists")
	}
	return count > 0, nil
}

func (r *viewRepository) ListViewedVideoIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := r.db.WithContext(ctx).
		Model(&dbmysql.View{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, common.WrapStore(err, "list viewed video ids")
	}
	return ids, nil
}

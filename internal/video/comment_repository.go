package video

import (
	"context"

	"gorm.io/gorm"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *dbmysql.Comment) error
	GetByID(ctx context.Context, commentID uint64) (*dbmysql.Comment, error)
	ListForVideo(ctx context.Context, videoID uint64) ([]dbmysql.Comment, error)
	Delete(ctx context.Context, commentID uint64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *dbmysql.Comment) error {
	return common.WrapStore(r.db.WithContext(ctx).Create(comment).Error, "create comment")
}

func (r *commentRepository) GetByID(ctx context.Context, commentID uint64) (*dbmysql.Comment, error) {
	var comment dbmysql.Comment
	err := r.db.WithContext(ctx).Where("comment_id = ?", commentID).First(&comment).Error
	if err != nil {
		return nil, common.WrapStore(err, "get comment")
	}
	return &comment, nil
}

func (r *commentRepository) ListForVideo(ctx context.Context, videoID uint64) ([]dbmysql.Comment, error) {
	var comments []dbmysql.Comment
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, common.WrapStore(err, "list comments")
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID uint64) error {
	err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Delete(&dbmysql.Comment{}).Error
	return common.WrapStore(err, "delete comment")
}

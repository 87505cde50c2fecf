package dbmysql

import (
	"time"
)

type Comment struct {
	CommentID uint64    `gorm:"primaryKey;column:comment_id;autoIncrement" json:"comment_id"`
	VideoID   uint64    `gorm:"column:video_id;index;not null" json:"video_id"`
	AuthorID  uint64    `gorm:"column:author_id;index;not null" json:"author_id"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

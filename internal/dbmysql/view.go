package dbmysql

import (
	"time"
)

// View is an append-only event. UserID is NULL for anonymous viewers, so an
// anonymous view can never match an identified user in lookups.
type View struct {
	ViewID    uint64    `gorm:"primaryKey;column:view_id;autoIncrement" json:"view_id"`
	VideoID   uint64    `gorm:"column:video_id;index;not null" json:"video_id"`
	UserID    *uint64   `gorm:"column:user_id;index" json:"user_id,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

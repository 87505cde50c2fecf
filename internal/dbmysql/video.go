package dbmysql

import (
	"time"
)

type Video struct {
	VideoID     uint64    `gorm:"primaryKey;column:video_id;autoIncrement" json:"video_id"`
	OwnerID     uint64    `gorm:"column:owner_id;index;not null" json:"owner_id"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	URL         string    `gorm:"column:url;size:512;not null" json:"url"`
	Thumbnail   string    `gorm:"column:thumbnail;size:512" json:"thumbnail"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

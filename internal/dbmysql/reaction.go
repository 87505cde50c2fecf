package dbmysql

import (
	"time"
)

const (
	PolarityLike    int8 = 1
	PolarityDislike int8 = -1
)

// Reaction links a user to a video with a polarity (like or dislike). The
// composite unique index is what serializes concurrent toggles on the same
// (user, video) pair: a double insert loses with a duplicate-key error
// instead of producing a second row.
type Reaction struct {
	ReactionID uint64    `gorm:"primaryKey;column:reaction_id;autoIncrement" json:"reaction_id"`
	UserID     uint64    `gorm:"column:user_id;uniqueIndex:idx_user_video;not null" json:"user_id"`
	VideoID    uint64    `gorm:"column:video_id;uniqueIndex:idx_user_video;index;not null" json:"video_id"`
	Polarity   int8      `gorm:"column:polarity;not null" json:"polarity"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

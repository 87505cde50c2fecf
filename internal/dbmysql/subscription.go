package dbmysql

import (
	"time"
)

// Subscription is existence-only: at most one row per
// (subscriber, subscribed-to) pair, enforced by the composite unique index.
type Subscription struct {
	SubscriptionID uint64    `gorm:"primaryKey;column:subscription_id;autoIncrement" json:"subscription_id"`
	SubscriberID   uint64    `gorm:"column:subscriber_id;uniqueIndex:idx_subscriber_target;not null" json:"subscriber_id"`
	SubscribedToID uint64    `gorm:"column:subscribed_to_id;uniqueIndex:idx_subscriber_target;index;not null" json:"subscribed_to_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

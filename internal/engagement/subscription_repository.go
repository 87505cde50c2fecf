package engagement

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

// SubscriptionRepository persists subscriber relations. At most one row per
// (subscriber, subscribed-to) pair, enforced by the composite unique index;
// Create reports ErrConflict when a concurrent toggle inserted first.
type SubscriptionRepository interface {
	// Get returns the subscription for (subscriberID, targetID), or nil when
	// none exists.
	Get(ctx context.Context, subscriberID, targetID uint64) (*dbmysql.Subscription, error)
	Create(ctx context.Context, sub *dbmysql.Subscription) error
	Delete(ctx context.Context, subscriptionID uint64) error
	CountSubscribers(ctx context.Context, targetID uint64) (int64, error)
	Exists(ctx context.Context, subscriberID, targetID uint64) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Get(ctx context.Context, subscriberID, targetID uint64) (*dbmysql.Subscription, error) {
	var sub dbmysql.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND subscribed_to_id = ?", subscriberID, targetID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapStore(err, "get subscription")
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *dbmysql.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if common.IsDuplicateKey(err) {
			return common.ErrConflict
		}
		return common.WrapStore(err, "create subscription")
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriptionID uint64) error {
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Delete(&dbmysql.Subscription{}).Error
	return common.WrapStore(err, "delete subscription")
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, targetID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Subscription{}).
		Where("subscribed_to_id = ?", targetID).
		Count(&count).Error
	if err != nil {
		return 0, common.WrapStore(err, "count subscribers")
	}
	return count, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Subscription{}).
		Where("subscriber_id = ? AND subscribed_to_id = ?", subscriberID, targetID).
		Count(&count).Error
	if err != nil {
		return false, common.WrapStore(err, "check subscription exists")
	}
	return count > 0, nil
}

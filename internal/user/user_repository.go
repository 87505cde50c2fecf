package user

import (
	"context"

	"gorm.io/gorm"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
	GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error)
	CheckHandleExists(ctx context.Context, handle string) (bool, error)
	UserExists(ctx context.Context, userID uint64) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if common.IsDuplicateKey(err) {
			return common.ErrConflict
		}
		return common.WrapStore(err, "create user")
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, common.WrapStore(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error
	if err != nil {
		return nil, common.WrapStore(err, "get user by handle")
	}
	return &user, nil
}

func (r *userRepository) CheckHandleExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("handle = ?", handle).
		Count(&count).Error
	if err != nil {
		return false, common.WrapStore(err, "check handle exists")
	}
	return count > 0, nil
}

func (r *userRepository) UserExists(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, common.WrapStore(err, "check user exists")
	}
	return count > 0, nil
}

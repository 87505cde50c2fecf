package user

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"vidtube/internal/common"
	"vidtube/internal/dbmysql"
)

type UserService interface {
	RegisterUser(ctx context.Context, handle, email, password string) (*dbmysql.User, string, error)
	LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error)
}

type userService struct {
	userRepo UserRepository
	tokens   *common.TokenManager
}

func NewUserService(userRepo UserRepository, tokens *common.TokenManager) UserService {
	return &userService{userRepo: userRepo, tokens: tokens}
}

func (s *userService) RegisterUser(ctx context.Context, handle, email, password string) (*dbmysql.User, string, error) {
	if err := common.ValidateHandle(handle); err != nil {
		return nil, "", pkgerrors.Wrap(common.ErrInvalidOperation, err.Error())
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, "", pkgerrors.Wrap(common.ErrInvalidOperation, err.Error())
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", pkgerrors.Wrap(common.ErrInvalidOperation, err.Error())
	}

	exists, err := s.userRepo.CheckHandleExists(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", pkgerrors.Wrap(common.ErrConflict, "handle already exists")
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &dbmysql.User{
		Handle:       handle,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.UserID, user.Handle)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userService) LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error) {
	if handle == "" || password == "" {
		return nil, "", pkgerrors.Wrap(common.ErrInvalidOperation, "handle and password required")
	}

	user, err := s.userRepo.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, "", pkgerrors.Wrap(common.ErrUnauthorized, "invalid handle or password")
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", pkgerrors.Wrap(common.ErrUnauthorized, "invalid handle or password")
	}

	token, err := s.tokens.Generate(user.UserID, user.Handle)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"vidtube/internal/common"
	"vidtube/internal/config"
	"vidtube/internal/dbmysql"
	"vidtube/internal/engagement"
	"vidtube/internal/user"
	"vidtube/internal/video"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		config.Load,
		dbmysql.NewMySQL,
		common.NewTokenManager,
		common.NewAuthMiddleware,
		user.NewUserRepository,
		user.NewUserService,
		user.NewHandler,
		video.NewVideoRepository,
		video.NewCommentRepository,
		video.NewVideoService,
		video.NewHandler,
		engagement.NewReactionRepository,
		engagement.NewViewRepository,
		engagement.NewSubscriptionRepository,
		engagement.NewService,
		wire.Bind(new(engagement.VideoFinder), new(video.VideoRepository)),
		wire.Bind(new(engagement.UserFinder), new(user.UserRepository)),
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}

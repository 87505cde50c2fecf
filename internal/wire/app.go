package wire

import (
	"gorm.io/gorm"

	"vidtube/internal/common"
	"vidtube/internal/config"
	"vidtube/internal/user"
	"vidtube/internal/video"
)

// Application is the fully wired service: configuration, the shared store
// handle, middleware and the HTTP handlers.
type Application struct {
	Config       *config.Config
	DB           *gorm.DB
	Auth         *common.AuthMiddleware
	UserHandler  *user.Handler
	VideoHandler *video.Handler
}

package setup

import (
	"github.com/netslap-dev/netslap/internal/handler"
	"github.com/netslap-dev/netslap/internal/service"
	"github.com/netslap-dev/netslap/internal/storage/pg"
	"github.com/netslap-dev/netslap/internal/text"
	"github.com/netslap-dev/netslap/internal/upload"
	"github.com/netslap-dev/netslap/shared/config"
	mw "github.com/netslap-dev/netslap/shared/middleware"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
}

// SetupDependencies wires storage, services and handlers from the config.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	uploads, err := upload.NewStore(cfg.Public)
	if err != nil {
		return nil, err
	}

	validator := service.NewPostValidator()
	notifications := service.NewNotification(storage, cfg.Public)
	auth := service.NewAuth(storage, cfg)
	boards := service.NewBoard(storage)
	threads := service.NewThread(storage, validator, cfg.Public)
	replies := service.NewReply(storage, threads, notifications, validator, cfg.Public)
	requests := service.NewRequest(storage, notifications)
	issues := service.NewIssue(storage)

	h := handler.New(auth, boards, threads, replies, notifications, requests, issues, uploads, text.New(), cfg)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: mw.NewAuth(cfg.JwtKey()),
	}, nil
}

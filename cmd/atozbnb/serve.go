package main

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/vbonduro/atozbnb/internal/auth"
	"github.com/vbonduro/atozbnb/internal/db"
	"github.com/vbonduro/atozbnb/internal/photostore/local"
	"github.com/vbonduro/atozbnb/internal/service"
	"github.com/vbonduro/atozbnb/internal/store"
	"github.com/vbonduro/atozbnb/internal/web"
)

type services struct {
	spots   *service.SpotService
	reviews *service.ReviewService
	users   *service.UserService
}

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}

			database, err := db.Open(e.cfg.DBPath)
			if err != nil {
				return err
			}
			defer closeDB(e, database)

			svc, err := newServices(e, database)
			if err != nil {
				return err
			}

			server, err := web.NewServer(
				svc.spots, svc.reviews, svc.users,
				auth.NewTokens(e.cfg.JWTSecret, e.cfg.JWTExpiresIn),
				web.Options{CookieSecure: e.cfg.CookieSecure, CORSOrigins: e.cfg.CORSOrigins},
				e.logger,
			)
			if err != nil {
				return err
			}
			return server.ListenAndServe(e.cfg.ListenAddr)
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo users, spots and reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := db.Open(e.cfg.DBPath)
			if err != nil {
				return err
			}
			defer closeDB(e, database)

			svc, err := newServices(e, database)
			if err != nil {
				return err
			}
			return service.Seed(cmd.Context(), svc.users, svc.spots, svc.reviews)
		},
	}
}

func newServices(e *env, database *sqlx.DB) (*services, error) {
	photoStg, err := local.NewLocalPhotoStore(e.cfg.ImagePath, e.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	userStore := store.NewUserStore(database)
	spotStore := store.NewSpotStore(database)
	return &services{
		spots:   service.NewSpotService(spotStore, store.NewSpotImageStore(database), userStore, photoStg, e.logger),
		reviews: service.NewReviewService(store.NewReviewStore(database), spotStore, e.logger),
		users:   service.NewUserService(userStore, e.logger),
	}, nil
}

func closeDB(e *env, database *sqlx.DB) {
	if err := database.Close(); err != nil {
		e.logger.Error("failed to close database", "error", err)
	}
}

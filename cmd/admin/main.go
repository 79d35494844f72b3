// Command admin performs maintenance tasks against the configured store.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/scholaris/resultportal/internal/app/services"
	"github.com/scholaris/resultportal/internal/bootstrap"
	"github.com/scholaris/resultportal/internal/pkg/auth"
	"github.com/scholaris/resultportal/internal/pkg/helpers"
	"github.com/scholaris/resultportal/internal/pkg/logger"
)

func main() {
	configPath := os.Getenv("RESULTPORTAL_CONFIG")
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		os.Exit(1)
	}

	storage, err := bootstrap.OpenStorage(cfg, lgr)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open storage")
		os.Exit(1)
	}

	repos := storage.Repos
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	cli := commandLine{
		repos:   repos,
		auth:    services.NewAuthService(repos, services.NewAuditor(repos.ActivityLogRepository, lgr), jwtService, lgr),
		hasher:  auth.NewBcryptVerifier(cfg.Auth.BcryptCost),
		migrate: storage.Migrate,
		out:     os.Stdout,
	}

	err = cli.run(context.Background(), os.Args)
	storage.Close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error().Err(err).Msg("Command failed")
		}
		os.Exit(1)
	}
}

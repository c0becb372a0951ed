// Command seed creates the initial admin account.
package main

import (
	"context"
	"errors"
	"time"

	"els_pos_backend/internal/config"
	"els_pos_backend/internal/database"
	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"
	"els_pos_backend/internal/services"
	"els_pos_backend/pkg/utils"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger(false, "info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.IsProduction(), cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.InitDB(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token manager")
	}
	authService := services.NewAuthService(repositories.NewAuthRepository(db), repositories.NewTransactor(db), tokens)

	username := utils.Getenv("SEED_ADMIN_USERNAME", "admin")
	password := utils.Getenv("SEED_ADMIN_PASSWORD", "admin123")
	if cfg.IsProduction() && password == "admin123" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD must be set in production")
	}

	user, err := authService.RegisterUser(ctx, services.RegisterUserRequest{
		Username: username,
		Password: password,
		Email:    utils.NewNullString(utils.Getenv("SEED_ADMIN_EMAIL", "")),
		FullName: utils.NewNullString(utils.Getenv("SEED_ADMIN_FULL_NAME", "Administrator")),
		Role:     models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, services.ErrUsernameExists) {
			utils.LogInfo("Admin user already exists, nothing to do", map[string]interface{}{"username": username})
			return
		}
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}
	utils.LogInfo("Admin user created", map[string]interface{}{"id": user.ID, "username": user.Username})
}

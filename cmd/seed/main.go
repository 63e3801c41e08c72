package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"servicemarket/internal/database"
	"servicemarket/internal/domain"
	applog "servicemarket/internal/pkg/log"
	"servicemarket/internal/repository"
)

// Seeds a local database with demo accounts and listings.
func main() {
	_ = godotenv.Load()
	applog.Init("servicemarket-seed", applog.WithConsole())

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "servicemarket.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migrate failed")
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	listings := repository.NewServiceRepository(db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	client := &domain.User{
		Email:        "client@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		Name:         "Demo Client",
		Balance:      decimal.NewFromInt(10000),
	}
	if err := users.Create(ctx, client); err != nil {
		log.Warn().Err(err).Msg("client seed skipped")
	}

	agent := &domain.User{
		Email:        "agent@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAgent,
		Name:         "Demo Agent",
		AgentStatus:  domain.AgentVerified,
	}
	if err := users.Create(ctx, agent); err != nil {
		log.Warn().Err(err).Msg("agent seed skipped")
	}

	seedListings := []domain.ServiceListing{
		{AgentID: agent.ID, Category: "cleaning", Title: "Deep home cleaning", BasePrice: decimal.NewFromInt(5000), Active: true},
		{AgentID: agent.ID, Category: "repairs", Title: "Plumbing call-out", BasePrice: decimal.NewFromInt(3500), Active: true},
		{AgentID: agent.ID, Category: "repairs", Title: "Electrical inspection", BasePrice: decimal.NewFromInt(4200), Active: true},
	}
	for i := range seedListings {
		if err := listings.Create(ctx, &seedListings[i]); err != nil {
			log.Warn().Err(err).Str("title", seedListings[i].Title).Msg("listing seed skipped")
		}
	}

	log.Info().Msg("seed complete")
}

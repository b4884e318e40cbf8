//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hugh/bugtracker/internal/auth"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/database"
	"github.com/hugh/bugtracker/internal/database/models"
	"github.com/hugh/bugtracker/internal/teams"
	"github.com/hugh/bugtracker/pkg/config"
	"github.com/hugh/bugtracker/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel, "seed")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ctx := context.Background()
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, logger)
	bugService := bugs.NewService(db, logger)
	teamService := teams.NewService(db, bugService, logger)

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" {
		email = "demo@example.com"
	}
	if password == "" {
		password = "demo1234"
	}

	user, err := authService.Register(ctx, auth.RegisterInput{
		Username: "demo",
		Email:    email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			fmt.Printf("Demo user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create demo user: %v", err)
	}

	team, err := teamService.CreateTeam(ctx, "Demo Team", user.ID)
	if err != nil {
		log.Fatalf("failed to create team: %v", err)
	}

	samples := []bugs.CreateInput{
		{Title: "Login button unresponsive on Safari", Priority: models.PriorityHigh, Status: models.StatusOpen, AssigneeID: &user.ID},
		{Title: "Typo on settings page", Priority: models.PriorityLow, Status: models.StatusResolved},
		{Title: "Slow dashboard load", Priority: models.PriorityMedium, Status: models.StatusInProgress, AssigneeID: &user.ID},
	}
	for _, in := range samples {
		in.TeamID = team.ID
		if _, err := bugService.Create(ctx, in); err != nil {
			log.Fatalf("failed to create bug %q: %v", in.Title, err)
		}
	}

	fmt.Printf("Demo data created successfully!\n")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Team: %s (join code %s)\n", team.Name, team.JoinCode)
	fmt.Printf("Bugs: %d\n", len(samples))
}

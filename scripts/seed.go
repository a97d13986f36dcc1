//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/auth"
	"github.com/hugh/workops/internal/database"
	"github.com/hugh/workops/internal/orgs"
	"github.com/hugh/workops/internal/resources"
	"github.com/hugh/workops/pkg/config"
	"github.com/hugh/workops/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env, "seed")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := envOr("ADMIN_EMAIL", "admin@example.com")
	password := envOr("ADMIN_PASSWORD", "admin1234")
	name := envOr("ADMIN_NAME", "Admin")

	ctx := context.Background()
	resp, err := authService.Register(ctx, auth.RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			fmt.Printf("Admin user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create admin user: %v", err)
	}

	recorder := activity.NewDBRecorder(db, logger)
	org, err := orgs.NewService(db, recorder, logger).Create(ctx, resp.User.ID, "Default Organization")
	if err != nil {
		log.Fatalf("failed to create organization: %v", err)
	}

	project, err := resources.NewProjectService(db, recorder, logger).Create(ctx, resp.User.ID, org.ID, resources.ProjectInput{
		Name: "Getting Started",
	})
	if err != nil {
		log.Fatalf("failed to create project: %v", err)
	}

	fmt.Printf("Admin user created successfully!\n")
	fmt.Printf("Email: %s\n", resp.User.Email)
	fmt.Printf("Organization: %s (%s)\n", org.Name, org.ID)
	fmt.Printf("Project: %s (%s)\n", project.Name, project.ID)
	fmt.Printf("Token: %s\n", resp.Token)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/oksasatya/job-tracker-api/config"
	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
	pginfra "github.com/oksasatya/job-tracker-api/internal/infrastructure/postgres"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
)

// seed creates a verified Admin and, when DEMO_USER_EMAIL is set, the shared demo account.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	adminEmail := flag.String("admin-email", "admin@jobtracker.local", "admin account email")
	adminUser := flag.String("admin-username", "admin", "admin account username")
	adminPass := flag.String("admin-password", "admin123", "admin account password")
	demoPass := flag.String("demo-password", "demo123", "demo account password")
	flag.Parse()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)

	admin, err := ensureUser(ctx, users, *adminUser, *adminEmail, *adminPass, entity.RoleAdmin)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("admin: id=%s email=%s\n", admin.ID, admin.Email)

	if cfg.DemoUserEmail == "" {
		fmt.Println("DEMO_USER_EMAIL not set; demo user skipped")
		return
	}
	demoName := strings.SplitN(cfg.DemoUserEmail, "@", 2)[0]
	demo, err := ensureUser(ctx, users, demoName, cfg.DemoUserEmail, *demoPass, entity.RoleUser)
	if err != nil {
		log.Fatalf("failed to seed demo user: %v", err)
	}
	fmt.Printf("demo user: id=%s email=%s\n", demo.ID, demo.Email)
}

func ensureUser(ctx context.Context, users *pginfra.UserRepository, username, email, password string, role entity.Role) (*entity.User, error) {
	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u = &entity.User{
		Username:   username,
		Email:      email,
		Password:   hash,
		Role:       role,
		Location:   entity.DefaultUserLocation,
		Slug:       strings.ToLower(username),
		IsVerified: true,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

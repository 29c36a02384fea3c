package main

import (
	"context"
	"errors"
	"log"
	"os"

	"tempo/internal/db"
	"tempo/internal/domain"
	"tempo/internal/repository"
	"tempo/internal/service"
)

// Seeds the demo account and prints a session token, handy for poking the
// API with curl before OAuth is configured.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	const email = "demo@tempo.app"

	u, err := repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		u = &domain.User{
			GoogleID: "demo-user-id",
			Email:    email,
			Name:     "Demo User",
		}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	} else if err != nil {
		log.Fatalf("get user failed: %v", err)
	} else {
		log.Printf("user already exists id=%d\n", u.ID)
	}

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}

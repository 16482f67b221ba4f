package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sbskhp/edu-portal-api/internal/models"
	"github.com/sbskhp/edu-portal-api/internal/repository"
	"github.com/sbskhp/edu-portal-api/pkg/config"
	"github.com/sbskhp/edu-portal-api/pkg/database"
)

// Seeds an admin account so the back-office endpoints are reachable on a
// fresh deployment. Run once per environment:
//
//	go run ./cmd/create-admin -email admin@sbs.co.kr -password secret
func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	fullName := flag.String("full-name", "관리자", "display name")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        strings.TrimSpace(*email),
		PasswordHash: string(hash),
		FullName:     *fullName,
		Role:         models.RoleAdmin,
		Active:       true,
	}

	repo := repository.NewUserRepository(db)
	if err := repo.Create(context.Background(), user); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	log.Printf("admin user %s created (id=%s)", user.Email, user.ID)
}

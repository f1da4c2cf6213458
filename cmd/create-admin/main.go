package main

import (
	"context"
	"flag"
	"os"

	"homeservices_backend/internal/auth/password"
	authrepo "homeservices_backend/internal/auth/repository"
	"homeservices_backend/platform/config"
	"homeservices_backend/platform/db"
	"homeservices_backend/platform/logger"
)

// create-admin seeds an admin account. Admins cannot register through the
// API, so deployments run this once against a fresh database.
func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email address")
	pass := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	if *email == "" || *pass == "" {
		log.Error("both -email and -password (or ADMIN_EMAIL/ADMIN_PASSWORD) are required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	hash, err := password.Hash(*pass)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	user, err := authrepo.New(pool).CreateAdmin(ctx, *email, hash)
	if err != nil {
		log.Error("failed to create admin", "error", err)
		os.Exit(1)
	}

	log.Info("admin account created", "userId", user.ID, "email", user.Email)
}

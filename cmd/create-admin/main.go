// Command create-admin provisions a moderator or admin account. Public
// registration only ever yields reporters.
//
//	create-admin --email ops@example.com --password '...' --name Ops --role admin
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/service"
	"github.com/yaswanth810/Women-Safety-Platform/internal/infrastructure/config"
	mongodb "github.com/yaswanth810/Women-Safety-Platform/internal/infrastructure/db/mongo"
	"github.com/yaswanth810/Women-Safety-Platform/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	var in ports.ProvisionInput
	var role string
	flag.StringVar(&in.Email, "email", "", "account email (required)")
	flag.StringVar(&in.Password, "password", "", "account password, at least 8 characters (required)")
	flag.StringVar(&in.Name, "name", "Administrator", "display name")
	flag.StringVar(&in.Phone, "phone", "", "contact phone")
	flag.StringVar(&role, "role", string(domain.RoleAdmin), "moderator or admin")
	flag.Parse()

	if in.Email == "" || in.Password == "" {
		fmt.Fprintln(os.Stderr, "create-admin: --email and --password are required")
		flag.Usage()
		os.Exit(2)
	}
	in.Role = domain.Role(role)
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleModerator {
		fmt.Fprintf(os.Stderr, "create-admin: --role must be moderator or admin, got %q\n", role)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "create-admin"})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	user, created, err := service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL).Provision(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Msg("provision account")
	}

	action := "updated"
	if created {
		action = "created"
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", string(user.Role)).Msg("account " + action)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"contactbook/internal/auth"
	"contactbook/internal/config"
	"contactbook/internal/db"
	apperrors "contactbook/internal/errors"
	"contactbook/internal/identity"
	"contactbook/internal/logging"
	"contactbook/internal/model"
	"contactbook/internal/service"
)

// sampleContacts are created for the demo user.
var sampleContacts = []model.ContactFields{
	{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+44 20 7946 0001", Company: "Analytical Engines", JobTitle: "Programmer"},
	{Name: "Grace Hopper", Email: "grace@example.com", Phone: "+1 202 555 0102", Company: "US Navy", JobTitle: "Rear Admiral"},
	{Name: "Alan Turing", Email: "alan@example.com", Phone: "+44 161 496 0003", Company: "University of Manchester", JobTitle: "Reader"},
	{Name: "Katherine Johnson", Email: "katherine@example.com", Phone: "+1 757 555 0104", Company: "NASA", JobTitle: "Mathematician"},
	{Name: "Edsger Dijkstra", Email: "edsger@example.com", Phone: "+31 40 555 0105", Company: "Eindhoven University", JobTitle: "Professor"},
	{Name: "Barbara Liskov", Email: "barbara@example.com", Phone: "+1 617 555 0106", Company: "MIT", JobTitle: "Institute Professor"},
	{Name: "Donald Knuth", Email: "don@example.com", Phone: "+1 650 555 0107", Company: "Stanford", JobTitle: "Professor Emeritus"},
	{Name: "Margaret Hamilton", Email: "margaret@example.com", Phone: "+1 617 555 0108", Company: "Hamilton Technologies", JobTitle: "CEO"},
	{Name: "Ken Thompson", Email: "ken@example.com", Phone: "+1 908 555 0109", Company: "Bell Labs", JobTitle: "Member of Technical Staff"},
	{Name: "Frances Allen", Email: "frances@example.com", Phone: "+1 914 555 0110", Company: "IBM", JobTitle: "Fellow"},
	{Name: "John McCarthy", Email: "john@example.com", Phone: "+1 650 555 0111", Company: "Stanford AI Lab", JobTitle: "Director"},
	{Name: "Radia Perlman", Email: "radia@example.com", Phone: "+1 425 555 0112", Company: "Dell EMC", JobTitle: "Fellow"},
}

func main() {
	email := flag.String("email", "demo@example.com", "demo user email")
	password := flag.String("password", "demo1234", "demo user password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	if err := seed(context.Background(), cfg, log, service.Credentials{Email: *email, Password: *password}); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.Config, log *slog.Logger, creds service.Credentials) error {
	log.Info("starting seed", "store", cfg.StoreDriver, "email", creds.Email)

	stores, err := db.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer stores.Close()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(stores.Users, jwtService, auth.NewPasswordHasher(cfg.BcryptCost), stores.Revoked)
	contactService := service.NewContactService(stores.Contacts)

	token, err := authService.Register(ctx, creds)
	if errors.Is(err, apperrors.ErrUserExists) {
		log.Info("demo user exists, logging in")
		token, err = authService.Login(ctx, creds)
	}
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}

	claims, err := jwtService.Verify(token)
	if err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	user, err := authService.Authenticate(ctx, claims)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	ctx = identity.WithUser(ctx, user)

	existing, err := contactService.List(ctx, 1, 1)
	if err != nil {
		return fmt.Errorf("count contacts: %w", err)
	}
	if existing.TotalContacts > 0 {
		log.Info("demo user already has contacts, skipping", "count", existing.TotalContacts)
		return nil
	}

	for _, fields := range sampleContacts {
		if _, err := contactService.Create(ctx, fields); err != nil {
			return fmt.Errorf("create contact %q: %w", fields.Name, err)
		}
	}

	log.Info("seed completed", "contacts", len(sampleContacts), "token", token)
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"crewdeck/internal/api"
	"crewdeck/internal/auth"
	"crewdeck/internal/boat"
	"crewdeck/internal/collection"
	"crewdeck/internal/config"
	"crewdeck/internal/event"
	"crewdeck/internal/logger"
	"crewdeck/internal/notify"
	"crewdeck/internal/profile"
	"crewdeck/internal/store"
)

// setupRedirect is the CLI's stand-in for a router: there is nowhere to
// navigate, so it tells the user what to do instead.
type setupRedirect struct {
	log *logger.Logger
}

func (r setupRedirect) RedirectToProfileSetup() {
	r.log.Warn("GATE", "No profile found - create one before using the app")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	appLogger := logger.NewLogger()
	defer appLogger.Close()

	var tokenCache auth.Cache = auth.NewMemoryTokenCache()
	if cfg.Redis.Enabled {
		redisClient, err := auth.InitializeTokenCache(cfg.Redis.Addr, appLogger)
		if err != nil {
			appLogger.Warn("MAIN", "Redis unavailable, falling back to in-memory token cache")
		} else {
			tokenCache = auth.NewRedisTokenCache(redisClient)
		}
	}

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	provider := auth.NewProvider(cfg.Auth.Domain, auth.Credentials{
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		Audience:     cfg.Auth.Audience,
		Scopes:       cfg.Auth.Scopes,
	}, httpClient, tokenCache, appLogger)

	client := api.NewClient(cfg.API.BaseURL, provider, httpClient, appLogger)

	var publisher boat.Publisher = notify.Noop{}
	if cfg.Kafka.Enabled && !cfg.Kafka.MockMode {
		if err := notify.EnsureTopicExists(cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
			appLogger.Warn("MAIN", fmt.Sprintf("Change feed topic setup failed: %v", err))
		}
		publisher = notify.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	profileCache, err := store.Open(cfg.LocalCache.Path)
	if err != nil {
		appLogger.Fatal("MAIN", fmt.Sprintf("Could not open local cache: %v", err))
	}
	defer profileCache.Close()

	profiles := profile.NewService(client, appLogger)
	boats := boat.NewService(client, appLogger, publisher)
	events := event.NewService(client, appLogger, publisher)

	gate := profile.NewGate(profiles, setupRedirect{log: appLogger}, profileCache, appLogger)

	ctx := context.Background()

	token, err := provider.Token(ctx)
	if err != nil {
		appLogger.Fatal("MAIN", fmt.Sprintf("Could not sign in: %v", err))
	}

	ident, err := auth.IdentityFromToken(token)
	if err != nil {
		appLogger.Fatal("MAIN", fmt.Sprintf("Could not resolve identity: %v", err))
	}
	if ident.Email == "" {
		// Machine credentials carry no email claim; take it from the env.
		ident.Email = os.Getenv("USER_EMAIL")
	}

	state := gate.Check(ctx, ident)
	appLogger.Info("MAIN", fmt.Sprintf("Profile gate resolved to %s", state))

	profileID, ok := gate.ProfileID()
	if !ok {
		return
	}

	myBoats, err := boats.ListByProfile(ctx, profileID)
	if err != nil {
		appLogger.Error("MAIN", fmt.Sprintf("Could not list boats: %v", err))
		return
	}
	appLogger.Info("MAIN", fmt.Sprintf("Profile %d owns %d boat(s)", profileID, len(myBoats)))

	// Hold the boats in an optimistic view so a delete here would show
	// immediately and roll back if the backend refused it.
	boatView := collection.NewList(myBoats, func(r boat.Result) int { return r.Boat.ID })

	boatIDs := make([]int, 0, boatView.Len())
	for _, b := range boatView.Items() {
		boatIDs = append(boatIDs, b.Boat.ID)
	}

	upcoming, err := events.ListUpcoming(ctx, boatIDs)
	if err != nil {
		appLogger.Error("MAIN", fmt.Sprintf("Could not list upcoming events: %v", err))
		return
	}
	appLogger.Info("MAIN", fmt.Sprintf("%d upcoming event(s)", len(upcoming)))

	if len(upcoming) > 0 {
		png, err := event.InviteQR(cfg.API.BaseURL, upcoming[0].Event.ID, 256)
		if err != nil {
			appLogger.Error("MAIN", fmt.Sprintf("Could not render invite QR: %v", err))
			return
		}
		if err := os.WriteFile("invite.png", png, 0644); err != nil {
			appLogger.Error("MAIN", fmt.Sprintf("Could not write invite.png: %v", err))
			return
		}
		appLogger.Info("MAIN", fmt.Sprintf("Wrote invite QR for event %d to invite.png", upcoming[0].Event.ID))
	}
}

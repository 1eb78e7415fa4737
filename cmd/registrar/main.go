package main

import (
	"context"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/campuskit/registrar/adapters/captcha"
	"github.com/campuskit/registrar/adapters/events"
	"github.com/campuskit/registrar/adapters/hasher"
	"github.com/campuskit/registrar/adapters/store"
	"github.com/campuskit/registrar/adapters/tokenizer"
	"github.com/campuskit/registrar/ports"
	"github.com/campuskit/registrar/service"
	"github.com/campuskit/registrar/transport/http"
)

func main() {
	ctx := context.Background()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	dbPath := os.Getenv("SQLITE_PATH")
	if dbPath == "" {
		dbPath = "registrar.db"
	}

	sqlStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer sqlStore.Close()

	// A Redis URL switches the challenge store and the audit stream from
	// their in-process defaults to Redis-backed adapters.
	var (
		challenges ports.ChallengeStore
		eventPub   ports.EventPublisher
	)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}

		challenges = captcha.NewRedisStore(redisClient, captcha.DefaultTTL)
		eventPub = events.NewWatermillPublisher(publisher)
	} else {
		memStore := captcha.NewMemoryStore(captcha.DefaultTTL)
		defer memStore.Close()
		challenges = memStore
		eventPub = events.NewNopPublisher()
	}

	passwords := hasher.NewBcrypt()
	tokens := tokenizer.NewJWTTokenizer(secret)

	authService := service.NewAuthService(challenges, sqlStore, passwords, tokens, eventPub)
	recordsService := service.NewRecordsService(sqlStore, sqlStore, passwords)

	adminPass := os.Getenv("ADMIN_INIT_PASS")
	if adminPass == "" {
		adminPass = "Admin@123"
	}
	created, err := recordsService.EnsureAdmin(ctx, "admin", "Administrator", adminPass)
	if err != nil {
		log.Fatalf("Failed to ensure admin account: %v", err)
	}
	if created {
		log.Println("Initial admin created with username 'admin'")
	}

	router := http.SetupRouter(authService, recordsService)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":5000"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

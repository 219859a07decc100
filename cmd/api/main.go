package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/callme-api/internal/bus"
	"github.com/callme-api/internal/config"
	"github.com/callme-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/callme-api/internal/infrastructure/jwt"
	"github.com/callme-api/internal/infrastructure/sns"
	"github.com/callme-api/internal/infrastructure/vapi"
	"github.com/callme-api/internal/scheduler"
	transporthttp "github.com/callme-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)
	reminderRepo := dynamo.NewReminderRepo(dynamoClient, cfg.DynamoTables.Reminders)

	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	dispatcher := newDispatcher(cfg)

	broker := bus.NewBroker(slog.Default())
	sched := scheduler.New(reminderRepo, dispatcher, broker, cfg.SchedulerInterval, cfg.DispatchTimeout, slog.Default())
	sched.Start()

	deps := &transporthttp.Deps{
		ReminderRepo: reminderRepo,
		Broker:       broker,
		JWTProvider:  jwtProvider,
	}
	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Stop the scheduler first so no dispatch is in flight when the HTTP
	// server (and its WebSocket subscribers) goes away.
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// newDispatcher selects the outbound provider: voice calls by default, SMS
// when DISPATCH_PROVIDER=sns.
func newDispatcher(cfg *config.Config) scheduler.Dispatcher {
	if cfg.DispatchProvider == "sns" {
		sender, err := sns.NewSender(cfg)
		if err != nil {
			log.Fatalf("sns sender: %v", err)
		}
		return sender
	}
	return vapi.NewClient(cfg)
}

// Command server runs the SafeSpace HTTP API.
//
// @title                       SafeSpace API
// @version                     1.0
// @description                 Incident reporting, SOS alerting and moderation backend.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/yaswanth810/Women-Safety-Platform/internal/api"
	"github.com/yaswanth810/Women-Safety-Platform/internal/api/handler"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/service"
	"github.com/yaswanth810/Women-Safety-Platform/internal/infrastructure/config"
	mongodb "github.com/yaswanth810/Women-Safety-Platform/internal/infrastructure/db/mongo"
	redisdb "github.com/yaswanth810/Women-Safety-Platform/internal/infrastructure/db/redis"
	"github.com/yaswanth810/Women-Safety-Platform/internal/infrastructure/notify"
	"github.com/yaswanth810/Women-Safety-Platform/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Service: "safespace-api"})
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "safespace-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	contacts := mongodb.NewContactRepository(db)
	incidents := mongodb.NewIncidentRepository(db)
	alerts := mongodb.NewAlertRepository(db)
	notifications := mongodb.NewNotificationRepository(db)

	if err := mongodb.EnsureIndexes(ctx, users, contacts, incidents, alerts, notifications); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo indexes ensured")

	// --- Notification fan-out ---
	channels, closeChannels, err := buildChannels(cfg.Notify, cfg.SOS.AttemptTimeout, log)
	if err != nil {
		return err
	}
	defer closeChannels()

	gate := redisdb.NewAlertGate(rdb)
	dispatcher := notify.NewDispatcher(notify.Config{
		Workers:        cfg.SOS.Workers,
		AckTimeout:     cfg.SOS.AckTimeout,
		AttemptTimeout: cfg.SOS.AttemptTimeout,
	}, channels, gate, notifications, log.With().Str("component", "notify").Logger())

	// --- Core services ---
	services := api.Services{
		Auth:      service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL),
		Contacts:  service.NewContactService(contacts, log),
		Incidents: service.NewIncidentService(incidents, log),
		SOS: service.NewSOSService(service.SOSDeps{
			Alerts:   alerts,
			Contacts: contacts,
			Lock:     redisdb.NewTriggerLock(rdb, cfg.SOS.LockTTL),
			Gate:     gate,
			Events:   redisdb.NewAlertStream(rdb, cfg.SOS.Stream),
			Notifier: dispatcher,
		}, log),
		Analytics: service.NewAnalyticsService(users, incidents, alerts, log),
	}

	checks := map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	e := api.NewRouter(services, checks, cfg.JWTSecret, log)

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// Let background notification attempts finish before storage closes.
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn().Msg("notification attempts still running at shutdown")
	}
	return nil
}

// buildChannels assembles the outbound channels in the configured order,
// skipping channels with no endpoint configured.
func buildChannels(cfg config.NotifyConfig, timeout time.Duration, log zerolog.Logger) ([]notify.Channel, func(), error) {
	channels := make([]notify.Channel, 0, len(cfg.Channels))
	closers := make([]func(), 0, 1)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, name := range cfg.Channels {
		switch name {
		case notify.ChannelSMS:
			if cfg.SMSGatewayURL == "" {
				log.Warn().Str("channel", name).Msg("SMS_GATEWAY_URL not set, channel disabled")
				continue
			}
			channels = append(channels, notify.NewSMSChannel(notify.SMSConfig{
				GatewayURL: cfg.SMSGatewayURL,
				APIKey:     cfg.SMSAPIKey,
				Sender:     cfg.SMSSender,
				Timeout:    timeout,
			}))
		case notify.ChannelEmail:
			if cfg.EmailAPIURL == "" {
				log.Warn().Str("channel", name).Msg("EMAIL_API_URL not set, channel disabled")
				continue
			}
			channels = append(channels, notify.NewEmailChannel(notify.EmailConfig{
				APIURL:  cfg.EmailAPIURL,
				APIKey:  cfg.EmailAPIKey,
				From:    cfg.EmailFrom,
				Timeout: timeout,
			}))
		case notify.ChannelPush:
			if cfg.MQTTBroker == "" {
				log.Warn().Str("channel", name).Msg("MQTT_BROKER not set, channel disabled")
				continue
			}
			client, err := notify.NewMQTTClient(notify.MQTTConfig{
				Broker:   cfg.MQTTBroker,
				ClientID: cfg.MQTTClientID,
				Username: cfg.MQTTUsername,
				Password: cfg.MQTTPassword,
			})
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, client.Close)
			channels = append(channels, notify.NewPushChannel(client, cfg.MQTTTopicPrefix))
		}
		log.Info().Str("channel", name).Msg("notification channel enabled")
	}

	if len(channels) == 0 {
		log.Warn().Msg("no notification channel configured, SOS contacts will not be reached")
	}
	return channels, closeAll, nil
}

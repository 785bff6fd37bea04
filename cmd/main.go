package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toonbridge/internal/config"
	"toonbridge/internal/handlers"
	"toonbridge/internal/logger"
	"toonbridge/internal/mqtt"
	"toonbridge/internal/repository"
	"toonbridge/internal/server"
	"toonbridge/internal/service"
	"toonbridge/internal/toon"
)

const probeTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer closeDB(db, log)

	device := toon.NewClient(cfg.Toon.Host, cfg.Toon.Port)
	probeDevice(device, cfg, log)

	var publisher service.StatePublisher
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(mqtt.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		}, log)
		if err != nil {
			log.Fatalw("mqtt connect failed", "err", err)
		}
		defer pub.Close()
		publisher = pub
	}

	repos := repository.NewRepository(db)
	services := service.NewService(service.Deps{
		Repos:     repos,
		Device:    device,
		Publisher: publisher,
		Settings: service.ClimateSettings{
			MinTempC: cfg.Toon.MinTemp,
			MaxTempC: cfg.Toon.MaxTemp,
			Presets:  cfg.Toon.Presets,
			Modes:    cfg.Toon.Modes,
		},
		SigningKey: cfg.SigningKey,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Poller.Run(ctx, cfg.Toon.ScanInterval)

	srv := &server.Server{}
	go func() {
		log.Infow("starting http server", "port", cfg.Port)
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(cancel, srv, log)
}

// probeDevice checks reachability once at startup. A failure is logged but
// not fatal; the poller keeps retrying.
func probeDevice(device *toon.Client, cfg *config.Config, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if _, err := device.Info(ctx); err != nil {
		log.Warnw("thermostat not reachable yet", "host", cfg.Toon.Host, "port", cfg.Toon.Port, "err", err)
		return
	}
	log.Infow("thermostat reachable", "host", cfg.Toon.Host, "name", cfg.Toon.Name)
}

func closeDB(db *sql.DB, log *logger.Logger) {
	if err := db.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}

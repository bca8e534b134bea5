// Command sunplantd is the long-running sunlight sensor. It evaluates the
// current sun position on an interval, records each evaluation, publishes
// state changes over MQTT and serves the HTTP API.
//
// "sunplantd migrate <action>" manages the history database schema.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/api"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/db"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/mqttpub"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/version"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Flags default to the environment and override it.
	flag.StringVar(&settings.ConfigPath, "config", settings.ConfigPath, "site configuration file (JSON or YAML)")
	flag.StringVar(&settings.Listen, "listen", settings.Listen, "HTTP listen address")
	flag.StringVar(&settings.DBPath, "db", settings.DBPath, "SQLite history database; empty disables history")
	flag.DurationVar(&settings.PollInterval, "interval", settings.PollInterval, "sun check interval")
	flag.DurationVar(&settings.Retention, "retention", settings.Retention, "observation history to keep; 0 keeps everything")
	flag.StringVar(&settings.MQTTBroker, "mqtt-broker", settings.MQTTBroker, "MQTT broker URL, e.g. tcp://homeassistant.local:1883; empty disables MQTT")
	flag.StringVar(&settings.MQTTTopic, "mqtt-topic", settings.MQTTTopic, "MQTT base topic")
	flag.BoolVar(&settings.MQTTDiscovery, "mqtt-discovery", settings.MQTTDiscovery, "publish Home Assistant discovery config")
	flag.StringVar(&settings.LogFile, "log-file", settings.LogFile, "also write logs to this rotating file")
	flag.BoolVar(&settings.Debug, "debug", settings.Debug, "log every evaluation")
	name := flag.String("name", "", "Home Assistant entity name")
	flag.Parse()

	switch flag.Arg(0) {
	case "":
	case "migrate":
		if settings.DBPath == "" {
			log.Fatal("migrate needs a database path")
		}
		if err := db.RunMigrateCommand(flag.Args()[1:], settings.DBPath, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	default:
		log.Fatalf("unknown command %q; the only subcommand is migrate", flag.Arg(0))
	}

	if settings.Listen == "" {
		log.Fatal("Listen address is required")
	}
	if settings.PollInterval <= 0 {
		log.Fatal("Interval must be positive")
	}

	logger := monitoring.NewZapLogger(settings.Debug, monitoring.DefaultFileOptions(settings.LogFile))
	restore := monitoring.Install(logger)
	defer restore()
	undoStdLog := zap.RedirectStdLog(logger)
	defer undoStdLog()

	monitoring.Logf("sunplantd %s starting", version.String())

	cache := config.NewCache(settings.ConfigPath)
	site, err := cache.Get()
	if err != nil {
		logger.Fatal("failed to load site configuration", zap.String("path", settings.ConfigPath), zap.Error(err))
	}
	for _, w := range site.Warnings {
		monitoring.Logf("config warning: %s", w)
	}
	if site.Location == nil {
		logger.Fatal("site configuration needs a location to compute the sun position", zap.String("path", settings.ConfigPath))
	}
	sensor := service.NewSensor(cache, nil)

	var store *db.DB
	if settings.DBPath != "" {
		store, err = db.NewDB(settings.DBPath)
		if err != nil {
			logger.Fatal("failed to open database", zap.String("path", settings.DBPath), zap.Error(err))
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := &poller{sensor: sensor, store: store, retention: settings.Retention}
	if settings.MQTTBroker != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		client, err := mqttpub.Connect(connectCtx, mqttpub.Options{
			Broker:    settings.MQTTBroker,
			ClientID:  settings.MQTTClientID,
			Username:  settings.MQTTUsername,
			Password:  settings.MQTTPassword,
			BaseTopic: settings.MQTTTopic,
		})
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to MQTT broker", zap.Error(err))
		}
		defer client.Disconnect(250)

		p.publisher = mqttpub.NewPublisher(client, settings.MQTTTopic)
		if settings.MQTTDiscovery {
			if err := p.publisher.PublishDiscovery(ctx, *name); err != nil {
				monitoring.Logf("failed to publish discovery config: %v", err)
			}
		}
		if err := p.publisher.PublishAvailability(ctx, true); err != nil {
			monitoring.Logf("failed to publish availability: %v", err)
		}
		defer func() {
			offCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := p.publisher.PublishAvailability(offCtx, false); err != nil {
				monitoring.Logf("failed to publish availability: %v", err)
			}
		}()
		monitoring.Logf("publishing to %s under %s", settings.MQTTBroker, settings.MQTTTopic)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.run(ctx, settings.PollInterval)
		monitoring.Logf("poll routine terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()
		mux.Handle("/", api.NewServer(sensor, store).ServeMux())
		if store != nil {
			// admin debugging routes, reachable from loopback or over Tailscale
			if err := store.AttachAdminRoutes(mux); err != nil {
				monitoring.Logf("admin routes disabled: %v", err)
			}
		}

		server := &http.Server{
			Addr:              settings.Listen,
			Handler:           api.LoggingMiddleware(mux),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			monitoring.Logf("listening on %s", settings.Listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("failed to start server", zap.Error(err))
			}
		}()

		<-ctx.Done()
		monitoring.Logf("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			monitoring.Logf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	monitoring.Logf("graceful shutdown complete")
}

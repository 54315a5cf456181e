package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/nats-io/nats.go"

	config "github.com/avvvet/card-catalog/configs"
	"github.com/avvvet/card-catalog/internal/catalogsvc/broker"
	"github.com/avvvet/card-catalog/internal/catalogsvc/catalog"
	svcconfig "github.com/avvvet/card-catalog/internal/catalogsvc/config"
	"github.com/avvvet/card-catalog/internal/catalogsvc/db"
	handlers "github.com/avvvet/card-catalog/internal/catalogsvc/handlers"
	"github.com/avvvet/card-catalog/internal/catalogsvc/service"
	"github.com/avvvet/card-catalog/internal/catalogsvc/store"
	natscli "github.com/avvvet/card-catalog/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "catalog"

func init() {
	config.LoadEnv(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service")
}

func main() {
	config.CreateUniqueInstance(SERVICE_NAME)
	cfg := svcconfig.Load()

	// sqlite connection
	conn, err := db.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()
	log.Printf("sqlite database %s opened", cfg.DBPath)

	// dedupe, stock backfill and the unique name index, before any traffic
	initCtx, cancelInit := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := service.Initialize(initCtx, conn); err != nil {
		cancelInit()
		log.Fatalf("Failed to initialize catalog: %v", err)
	}
	cancelInit()

	cardStore := store.NewCardStore(conn)
	stockStore := store.NewStockStore(conn)
	images := catalog.NewImageResolver(cfg.AssetsDir, cfg.AssetsPrefix)
	catalogService := service.NewCatalogService(cardStore, stockStore, images)

	// NATS is optional
	var sub *nats.Subscription
	n, err := natscli.Connect()
	switch {
	case errors.Is(err, natscli.ErrNotConfigured):
		log.Info("NATS_URL not set, catalog events disabled")
	case err != nil:
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(1)
	default:
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		b := broker.NewBroker(n.Conn, catalogService)
		catalogService.SetPublisher(b)

		sub, err = b.Subscribe(broker.ServiceTopic)
		if err != nil {
			log.Errorf("Error: unable to subscribe to %s %v", broker.ServiceTopic, err)
			os.Exit(1)
		}
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	h := handlers.NewHandler(catalogService)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if sub != nil {
		sub.Unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

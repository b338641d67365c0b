package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/sdp_shop/internal/httpserver"
	"github.com/Skotchmaster/sdp_shop/internal/mongostore"
	"github.com/Skotchmaster/sdp_shop/internal/repo"
	"github.com/Skotchmaster/sdp_shop/internal/search"
	"github.com/Skotchmaster/sdp_shop/internal/service"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/Skotchmaster/sdp_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/sdp_shop/pkg/db"
	"github.com/Skotchmaster/sdp_shop/pkg/events"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/sdp_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/sdp_shop/pkg/mongodb"
)

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.StoreBackend == config.BackendMongo {
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		if err := s.DetectTransactions(ctx); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		slog.Info("mongo_store_ready", "database", cfg.MongoDatabase, "transactions", s.Transactional())
		return s, nil
	}

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	r := &repo.GormRepo{DB: db}
	if err := r.Migrate(ctx); err != nil {
		_ = r.Close(context.Background())
		return nil, err
	}
	return r, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("store open (%s): %v", cfg.StoreBackend, err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
	}

	catalog := &service.CatalogService{Store: st, Events: publisher}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_unavailable", "error", err)
		} else {
			idx := search.New(es, cfg.ESIndex)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := idx.EnsureIndex(ctx); err != nil {
				logger.Warn("search_index_error", "op", "ensure", "error", err)
			}
			cancel()
			catalog.Index = idx
		}
	}

	tr := i18n.New(cfg.Locale)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(echoprometheus.NewMiddleware("sdp_shop"))
	e.GET("/metrics", echoprometheus.NewHandler())

	httpserver.Register(e, &httpserver.Deps{
		Store:          st,
		UserHandler:    &httpserver.UserHTTP{Svc: &service.AccountService{Store: st, Events: publisher}, T: tr},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog, T: tr},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Store: st, Events: publisher}, T: tr},
		LedgerHandler:  &httpserver.LedgerHTTP{Svc: &service.LedgerService{Store: st}, T: tr},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "backend", cfg.StoreBackend, "locale", tr.Locale())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("publisher_close_error", "error", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error("store_close_error", "error", err)
	}

	logger.Info("server_stopped")
}

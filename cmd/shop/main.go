package main

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"CampusStore/internal/auth"
	"CampusStore/internal/catalog"
	"CampusStore/internal/config"
	"CampusStore/internal/shop"
	"CampusStore/pkg/kit"
)

func main() {
	service := "shop"
	cfg := config.Load()

	log := kit.NewLogger(service, cfg.Env)
	defer func() { _ = log.Sync() }()

	hasher := auth.BcryptHasher{}

	users, products, purchases := buildStores(cfg, hasher, log)
	sessions := buildSessions(cfg)

	gw := &auth.Gateway{Users: users, Sessions: sessions}
	authSrv := &auth.Server{Log: log, Gateway: gw}
	shopSrv := &shop.Server{
		Proc:    &shop.Processor{Users: users, Catalog: products, Purchases: purchases, Log: log},
		Catalog: products,
		Log:     log,
	}

	reg := prometheus.NewRegistry()
	h := shop.NewHandler(authSrv, shopSrv, shop.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.Addr, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStores(cfg config.Config, hasher auth.Hasher, log *zap.Logger) (auth.UserStore, catalog.Store, shop.PurchaseLog) {
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		log.Info("using postgres stores")
		return auth.NewPostgresStore(db, hasher), catalog.NewPostgresStore(db), shop.NewPostgresLog(db)
	}

	users := auth.NewMemStore(hasher)
	if err := auth.SeedUsers(context.Background(), users); err != nil && !errors.Is(err, auth.ErrDuplicateUser) {
		log.Fatal("seed users", zap.Error(err))
	}
	log.Info("using in-memory stores")
	return users, catalog.NewMemStore(), shop.NewMemLog()
}

func buildSessions(cfg config.Config) auth.SessionStore {
	if cfg.RedisAddr != "" {
		return auth.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return auth.NewMemSessionStore()
}

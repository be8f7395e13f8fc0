// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"waymate/internal/config"
	httptransport "waymate/internal/http"
	"waymate/internal/infra"
	"waymate/internal/maps"
	"waymate/internal/modules/group"
	"waymate/internal/modules/matching"
	"waymate/internal/modules/trip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	rdb := infra.NewRedis(cfg.Redis.Addr)
	defer rdb.Close()

	mapsClient, err := infra.NewMapsClient(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal("init maps client", zap.Error(err))
	}

	geocoder := maps.NewCachedGeocoder(maps.NewGoogleGeocoder(mapsClient), rdb)
	routeService := maps.NewRouteService(mapsClient, geocoder, time.Duration(cfg.Maps.TimeoutSeconds)*time.Second)

	tripStore := trip.NewPGStore(db)
	groupService := group.NewService(group.NewPGStore(db))
	matchService := matching.NewService(matching.NewPGStore(db), tripStore, groupService, cfg.Matching, log)
	tripService := trip.NewService(tripStore, routeService, matchService, log)

	router := httptransport.NewRouter(tripService, matchService, groupService, cfg.Auth.JWTSecret, log)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

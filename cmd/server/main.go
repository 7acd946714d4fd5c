package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/handler"
	"github.com/iliyamo/hotel-management/internal/iot"
	"github.com/iliyamo/hotel-management/internal/lock"
	"github.com/iliyamo/hotel-management/internal/logger"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/router"
	"github.com/iliyamo/hotel-management/internal/service"
	"github.com/iliyamo/hotel-management/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "hotel-management")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	for _, w := range cfg.Warnings() {
		zl.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	users := repository.NewUserRepo(st)
	rooms := repository.NewRoomRepo(st)
	bookings := repository.NewBookingRepo(st)
	notifications := repository.NewNotificationRepo(st)

	auth := service.NewAuth(users, service.AuthConfig{
		Secret:     cfg.JWTSecret,
		TokenTTL:   cfg.AccessTTL(),
		BcryptCost: cfg.BcryptCost,
	}, time.Now, zl)
	if _, err := auth.UpgradeLegacyPasswords(ctx); err != nil {
		zl.Fatal("upgrade legacy passwords", zap.Error(err))
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		zl.Info("redis not available; cache and rate limit disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	var locker lock.Locker = lock.NewLocal()
	if strings.EqualFold(cfg.Lock.Driver, config.LockRedis) {
		if rdb != nil {
			locker = lock.NewRedis(rdb, lock.RedisOptions{Prefix: cfg.Lock.Prefix, TTL: cfg.Lock.TTL, Wait: cfg.Lock.Wait}, zl)
		} else {
			zl.Warn("LOCK_DRIVER=redis but redis is unreachable; using in-process locks")
		}
	}

	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.RabbitURL != "" {
		publisher = queue.NewAMQPPublisher(cfg.RabbitURL, zl)
		consumer := queue.NewConsumer(cfg.RabbitURL, notifications, zl)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}
	defer func() { _ = publisher.Close() }()

	var commander iot.Commander = iot.Nop{}
	if cfg.MQTT.Broker != "" {
		mc, err := iot.NewMQTTCommander(iot.MQTTConfig{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			QoS:         byte(cfg.MQTT.QoS),
		}, zl)
		if err != nil {
			zl.Warn("mqtt unavailable; device pushes disabled", zap.Error(err))
		} else {
			commander = mc
			defer mc.Close()
		}
	}

	e := router.New(router.Deps{
		Log:          zl,
		JWTSecret:    cfg.JWTSecret,
		AuthRequired: cfg.AuthRequired,
		Redis:        rdb,
		Cache:        cfg.Cache,
		RateLimit:    cfg.RateLimit,
		Auth:         handler.NewAuthHandler(auth, users),
		Rooms:        handler.NewRoomHandler(service.NewAvailability(rooms, bookings, zl)),
		Bookings:     handler.NewBookingHandler(service.NewBookings(rooms, bookings, locker, publisher, time.Now, zl)),
		Requests: handler.NewRequestHandler(service.NewRequests(repository.NewServiceRequestRepo(st),
			repository.NewStaffRequestRepo(st), notifications, locker, time.Now, zl)),
		Preferences: handler.NewPreferenceHandler(service.NewPreferences(users, repository.NewDeviceRepo(st), rooms,
			commander, locker, time.Now, zl)),
		Collections: handler.NewCollectionHandler(st, auth, zl),
	})

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Config, zl *zap.Logger) (store.Store, error) {
	if !strings.EqualFold(cfg.StoreDriver, config.StoreMySQL) {
		return store.OpenFile(cfg.DataFile, zl)
	}
	db, err := database.Open(ctx, cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	if err != nil {
		return nil, err
	}
	m := store.NewMySQL(db, zl)
	if err := m.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

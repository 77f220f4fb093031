package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"therapath-portal/internal/api"
	"therapath-portal/internal/chat"
	"therapath-portal/internal/config"
	gweb "therapath-portal/internal/grpcweb"
	"therapath-portal/internal/handler"
	"therapath-portal/internal/logger"
	"therapath-portal/internal/metrics"
	"therapath-portal/internal/middleware"
	"therapath-portal/internal/model"
	"therapath-portal/internal/security"
	"therapath-portal/internal/service"
	"therapath-portal/internal/session"
	"therapath-portal/internal/store"
	"therapath-portal/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// storage
	var (
		st      *store.Store
		storage session.Storage
		purger  worker.Purger
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to create database pool", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatal("Failed to ping database", zap.Error(err))
		}
		log.Info("Connected to postgres")

		if err := store.Migrate(pool); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		log.Info("Migrations applied")

		st = store.New(pool)
		records := store.NewSessionRecords(pool)
		storage, purger = records, records
	} else {
		log.Warn("DATABASE_URL not set, data lives in memory only")
		st = store.NewMemory()
		storage = session.NewMemoryStorage()
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		log.Info("Sessions stored in redis", zap.String("addr", cfg.RedisAddr))
		storage, purger = session.NewRedisStorage(rdb), nil
	}

	if err := store.Seed(ctx, st, store.AdminSeed{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		log.Fatal("Failed to seed data", zap.Error(err))
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewCollector(reg)

	// services; the hub needs the chat service, so pushes are bound late
	var hub *chat.Hub
	svc := service.New(service.Deps{
		Store:     st,
		Sanitizer: security.NewSanitizer(),
		Metrics:   rec,
		Log:       log,
		Pusher: service.PushFunc(func(userID string, msg model.ChatMessage) {
			if hub != nil {
				hub.Push(userID, msg)
			}
		}),
	})
	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rl.Close()
	sessions := session.NewManager(st.Users, storage, cfg.SessionTTL, log)
	authn := middleware.NewAuthenticator(sessions, cfg.JWTSecret)
	hub = chat.NewHub(authn, svc.Chat, cfg.CORSAllowedOrigin, rec, log, chat.WithLimiter(rl))
	h := handler.New(sessions, svc, cfg.JWTSecret, rec, log)

	// grpc server
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.Recovery(log),
			middleware.Logging(log, rec),
			middleware.RateLimit(rl),
			middleware.Auth(authn),
		),
	)
	api.RegisterPortalServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatal("Failed to listen", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	go func() {
		log.Info("gRPC server listening", zap.String("port", cfg.GRPCPort))
		if err := srv.Serve(lis); err != nil {
			log.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	// grpc-web bridge -> forwards browser requests to grpc on localhost
	bridge, err := gweb.New("localhost:"+cfg.GRPCPort, cfg.CORSAllowedOrigin, log)
	if err != nil {
		log.Fatal("Failed to create grpc-web bridge", zap.Error(err))
	}
	defer bridge.Close()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.RecoverHTTP(log))
	r.Use(httprate.LimitByIP(cfg.HTTPPerMinute, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler(reg))
	r.Handle("/ws/chat", hub)
	r.Handle("/*", bridge.Handler())

	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Web server listening", zap.String("port", cfg.WebPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Web server stopped", zap.Error(err))
		}
	}()

	// reminders
	reminder, err := worker.NewReminder(svc, st.Users, worker.Options{
		Schedule: cfg.ReminderSchedule,
		Lead:     cfg.ReminderLead,
		Mailer: worker.NewMailer(worker.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}),
		Purger:  purger,
		Metrics: rec,
	}, log)
	if err != nil {
		log.Fatal("Failed to create reminder worker", zap.Error(err))
	}
	reminder.Start()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Info("Shutting down", zap.String("signal", sig.String()))

	reminder.Stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("Web server shutdown failed", zap.Error(err))
	}
	srv.GracefulStop()
	log.Info("Server exited")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/oneconsig-crm/internal/config"
	"github.com/xavierca1/oneconsig-crm/internal/infra/auth"
	"github.com/xavierca1/oneconsig-crm/internal/infra/database"
	"github.com/xavierca1/oneconsig-crm/internal/infra/http/handlers"
	"github.com/xavierca1/oneconsig-crm/internal/infra/http/middleware"
	"github.com/xavierca1/oneconsig-crm/internal/infra/integration/kommo"
	"github.com/xavierca1/oneconsig-crm/internal/infra/logging"
	"github.com/xavierca1/oneconsig-crm/internal/infra/mail"
	"github.com/xavierca1/oneconsig-crm/internal/infra/phone"
	"github.com/xavierca1/oneconsig-crm/internal/infra/progress"
	"github.com/xavierca1/oneconsig-crm/internal/infra/queue"
	"github.com/xavierca1/oneconsig-crm/internal/infra/worker"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("❌ Configuração inválida", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("❌ Falha ao conectar no Postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("❌ Falha nas migrations", zap.Error(err))
		}
		logger.Info("✅ Migrations aplicadas")
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	historyRepo := database.NewHistoryRepository(db)
	userRepo := database.NewUserRepository(db)
	accessLogRepo := database.NewAccessLogRepository(db)

	// 2. Adapters
	metrics := middleware.Recorder{}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	var handoff usecase.ApprovedLeadHandoff
	if cfg.Kommo.Enabled() {
		handoff = kommo.NewClient(cfg.Kommo.APIToken, cfg.Kommo.BaseURL, cfg.Kommo.StatusID)
	}

	var jobs progress.Store = progress.NewMemoryStore()
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("❌ REDIS_URL inválida", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		jobs = progress.NewRedisStore(redisClient, progress.DefaultTTL)
	}

	// 3. UseCases
	bulkUpsertUC := usecase.NewBulkUpsertLeadsUseCase(leadRepo, metrics)
	importUC := usecase.NewImportLeadsUseCase(bulkUpsertUC)

	var rabbit *queue.RabbitMQ
	var enqueueUC *usecase.EnqueueImportUseCase
	workerDone := make(chan struct{})
	if cfg.RabbitMQURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal("❌ Falha ao conectar no RabbitMQ", zap.Error(err))
		}
		defer rabbit.Close()

		enqueueUC = usecase.NewEnqueueImportUseCase(queue.NewProducer(rabbit.Ch), jobs)

		consumerCh, err := rabbit.Conn.Channel()
		if err != nil {
			logger.Fatal("❌ Falha ao abrir canal do worker", zap.Error(err))
		}

		var reporter queue.ImportReporter
		if cfg.Mail.Enabled() {
			reporter = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
				cfg.Mail.From, cfg.Mail.ImportReportEmail)
		}

		importWorker := queue.NewWorker(consumerCh, bulkUpsertUC, jobs, reporter)
		go func() {
			defer close(workerDone)
			if err := importWorker.Start(ctx, queue.QueueName); err != nil {
				logger.Error("❌ Worker de importação parou", zap.Error(err))
			}
		}()
	} else {
		close(workerDone)
	}

	go worker.NewAccessExpirationWorker(userRepo).Start(ctx)

	// 4. Handlers
	loginLimiter, err := handlers.NewRateLimiter(handlers.NewRateLimitStore(redisClient), handlers.LoginRate)
	if err != nil {
		logger.Fatal("❌ Rate limit inválido", zap.Error(err))
	}

	rt := routes{
		Auth: handlers.NewAuthHandler(
			usecase.NewLoginUseCase(userRepo, accessLogRepo, phone.NewNormalizer(), cfg.AdminMasterCredential, metrics),
			tokens,
			loginLimiter,
		),
		Leads: handlers.NewLeadHandler(
			usecase.NewLeadQueryUseCase(leadRepo, historyRepo),
			usecase.NewCreateLeadUseCase(leadRepo),
			usecase.NewUpdateLeadStatusUseCase(leadRepo, historyRepo, handoff, metrics),
			usecase.NewUpdateLeadInfoUseCase(leadRepo),
			usecase.NewResetDatabaseUseCase(leadRepo),
			usecase.NewDashboardUseCase(leadRepo),
		),
		Imports: handlers.NewImportHandler(importUC, enqueueUC),
		Users:   handlers.NewUserHandler(usecase.NewManageUsersUseCase(userRepo)),
		Tokens:  tokens,
	}
	if rabbit != nil {
		rt.Health = handlers.NewHealthHandler(db, rabbit.Conn, redisClient)
	} else {
		rt.Health = handlers.NewHealthHandler(db, nil, redisClient)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(rt, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🔥 OneConsig CRM rodando", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ Servidor caiu", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("⚠️ Encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Erro no shutdown", zap.Error(err))
	}

	// A importação em andamento termina (e recebe ack) antes de fechar o RabbitMQ e o banco.
	logger.Info("⏳ Aguardando worker de importação")
	<-workerDone
}

package main

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/InviteShare/config"
	"github.com/Gopher0727/InviteShare/internal/consumer"
	"github.com/Gopher0727/InviteShare/internal/handlers"
	"github.com/Gopher0727/InviteShare/internal/repositories"
	"github.com/Gopher0727/InviteShare/internal/routers"
	"github.com/Gopher0727/InviteShare/internal/services"
	"github.com/Gopher0727/InviteShare/internal/storage"
	"github.com/Gopher0727/InviteShare/internal/utils"
	logger "github.com/Gopher0727/InviteShare/middleware/log"
	"github.com/Gopher0727/InviteShare/pkg/mq"
	jwtutils "github.com/Gopher0727/InviteShare/pkg/utils"
	"github.com/Gopher0727/InviteShare/pkg/ws"
	"github.com/Gopher0727/InviteShare/utils/ratelimit"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	// 初始化日志
	zlog, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer zlog.Close()

	// 管理后台会话密钥与有效期
	if cfg.JWT.Secret != "" {
		jwtutils.SetJWTSecret(cfg.JWT.Secret)
	}
	jwtutils.SetTokenExpire(time.Duration(cfg.JWT.ExpireHours) * time.Hour)

	// 初始化全局 Worker Pool，AI 提取路由经它排队
	utils.InitGlobalWorkerPool(cfg.WorkerPool.Workers, cfg.WorkerPool.QueueSize)

	// 初始化 PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("postgres 初始化失败: %v", err)
	}

	// 初始化 Redis（限流 + 跨实例广播）
	// 失败时降级：不限流、变更通知只在本实例内广播
	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		log.Printf("Redis 初始化失败: %v。限流与跨实例广播已降级。", err)
		redisClient = nil
	}

	// 初始化仓储层
	categoryRepo := repositories.NewCategoryRepository(postgres)
	inviteCodeRepo := repositories.NewInviteCodeRepository(postgres)
	usageRepo := repositories.NewUsageRepository(postgres)
	claimEventRepo := repositories.NewClaimEventRepository(postgres)

	// 初始化变更通知 Hub
	hub := ws.NewHub(redisClient)
	go hub.Run()

	// 初始化 Kafka Producer（领取事件审计流）
	var producer services.ClaimEventPublisher
	kafkaProducer, err := mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Printf("Kafka 生产者初始化失败: %v。系统将以降级模式运行（跳过审计流）。", err)
	} else {
		defer kafkaProducer.Close()
		producer = kafkaProducer

		// 消费领取事件：落库审计记录并广播变更
		claimConsumer := consumer.NewClaimEventConsumer(claimEventRepo, hub)
		consumer.StartConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, claimConsumer)
	}

	// 初始化服务层
	categoryService := services.NewCategoryService(categoryRepo, hub)
	inviteCodeService := services.NewInviteCodeService(inviteCodeRepo, categoryRepo, hub)
	claimService := services.NewClaimService(inviteCodeRepo, usageRepo, producer, hub, zlog)
	extractService := services.NewExtractService(cfg.AI, zlog)
	authService := services.NewAuthService(cfg.Admin.PasswordHash)

	// 初始化限流器（按客户端 IP，fail-open）
	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewTokenBucketLimiter(redisClient, zlog.Logger, true)
	}

	// 初始化处理器
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	inviteCodeHandler := handlers.NewInviteCodeHandler(inviteCodeService, claimService)
	usageHandler := handlers.NewUsageHandler(claimService)
	extractHandler := handlers.NewExtractHandler(extractService)
	authHandler := handlers.NewAuthHandler(authService)

	// 配置并创建 Gin 引擎
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// 设置路由
	routers.SetupRoutes(r,
		cfg,
		zlog,
		categoryHandler,
		inviteCodeHandler,
		usageHandler,
		extractHandler,
		authHandler,
		hub,
		limiter,
	)

	// 启动服务器
	log.Printf("正在启动服务器，监听端口 :%d\n", cfg.Server.Port)
	if err := r.Run(":" + strconv.FormatInt(int64(cfg.Server.Port), 10)); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}

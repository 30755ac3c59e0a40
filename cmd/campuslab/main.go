package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"

	catalogApp "github.com/davicafu/campuslab/internal/catalog/application"
	catalogDomain "github.com/davicafu/campuslab/internal/catalog/domain"
	catalogHttp "github.com/davicafu/campuslab/internal/catalog/infra/inbound/http"
	catalogRepo "github.com/davicafu/campuslab/internal/catalog/infra/outbound/db/sqlite"
	"github.com/davicafu/campuslab/internal/config"
	enrollApp "github.com/davicafu/campuslab/internal/enrollment/application"
	enrollDomain "github.com/davicafu/campuslab/internal/enrollment/domain"
	enrollEvents "github.com/davicafu/campuslab/internal/enrollment/infra/inbound/events"
	enrollAnalytics "github.com/davicafu/campuslab/internal/enrollment/infra/outbound/analytics/clickhouse"
	enrollCache "github.com/davicafu/campuslab/internal/enrollment/infra/outbound/cache"
	enrollRepo "github.com/davicafu/campuslab/internal/enrollment/infra/outbound/db/sqlite"
	infraMongo "github.com/davicafu/campuslab/internal/infra/db/mongodb"
	infraPostgres "github.com/davicafu/campuslab/internal/infra/db/postgres"
	infraSQLite "github.com/davicafu/campuslab/internal/infra/db/sqlite"
	infraEvents "github.com/davicafu/campuslab/internal/infra/events"
	infraRelayer "github.com/davicafu/campuslab/internal/infra/relayer"
	"github.com/davicafu/campuslab/pkg/logger"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
	sharedBus "github.com/davicafu/campuslab/shared/platform/bus"
	sharedCache "github.com/davicafu/campuslab/shared/platform/cache"
)

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	// ---------------- DB ----------------
	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		log.Fatal("failed to open SQLite", zap.Error(err))
	}
	defer db.Close()

	if err := catalogRepo.InitSQLite(db); err != nil {
		log.Fatal("failed to initialize catalog tables", zap.Error(err))
	}
	if err := enrollRepo.InitSQLite(db); err != nil {
		log.Fatal("failed to initialize enrollment tables", zap.Error(err))
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping SQLite", zap.Error(err))
	}

	// El outbox puede vivir en otro backend que las entidades: los repos de
	// entidad encolan a través del mismo store que luego releva el worker.
	// Solo el backend sqlite comparte la transacción de la entidad.
	var outboxStore interface {
		sharedDomain.OutboxRepository
		sharedDomain.OutboxEnqueuer
	}
	switch cfg.OutboxBackend {
	case "postgres":
		pgDB, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		defer pgDB.Close()
		if err := infraPostgres.InitOutbox(pgDB); err != nil {
			log.Fatal("failed to initialize Postgres outbox", zap.Error(err))
		}
		outboxStore = infraPostgres.NewOutboxRepoPostgres(pgDB)
	case "mongodb":
		mongoClient, err := mongo.Connect(ctx, mongoOptions.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)
		outboxStore = infraMongo.NewOutboxRepoMongoDB(mongoClient, cfg.MongoDatabase)
	default:
		outboxStore = infraSQLite.NewOutboxRepoSQLite(db)
	}

	courseRepo := catalogRepo.NewCourseRepoSQLite(db, outboxStore)
	enrollmentRepo := enrollRepo.NewEnrollmentRepoSQLite(db, outboxStore)

	// ---------------- Cache / Inbox ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, inbox en memoria:", zap.Error(err))
		cacheInstance = enrollCache.NewInMemoryCache(cfg.InboxTTL, 3*cfg.InboxTTL)
	} else {
		cacheInstance = enrollCache.NewRedisCache(rdb, cfg.InboxTTL)
		log.Info("✅ Redis conectado, inbox habilitado")
	}

	inbox := enrollCache.NewCacheInbox(cacheInstance, int(cfg.InboxTTL.Seconds()))
	courseViews := enrollCache.NewCourseViewCache(cacheInstance, 0)

	// ---------------- Analítica ----------------
	var audit enrollDomain.EventAuditLog
	if cfg.ClickHouseAddr != "" {
		repo, err := enrollAnalytics.NewEventLogRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, sin log de eventos consumidos", zap.Error(err))
		} else {
			audit = repo
			log.Info("✅ ClickHouse conectado, log de eventos consumidos habilitado")
		}
	}

	// --------------- Servicios --------------
	catalogService := catalogApp.NewCatalogService(courseRepo, cfg.DualPublishCourseCreated, log)
	enrollmentService := enrollApp.NewEnrollmentService(enrollmentRepo, courseViews, log)

	// ---------------- Events ---------------
	registry := sharedEvents.MergeRegistries(
		catalogDomain.NewEventRegistry(),
		enrollDomain.NewEventRegistry(),
	)

	enrollmentConsumer := enrollEvents.NewEnrollmentConsumer(enrollmentService, inbox, audit, log)

	publishers := make(map[string]sharedBus.EventPublisher)

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		catalogWriter := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopicCatalog,
		})
		enrollmentWriter := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopicEnrollment,
		})
		defer catalogWriter.Close()
		defer enrollmentWriter.Close()

		publishers[catalogDomain.CatalogTopic] = infraEvents.NewKafkaPublisher(catalogWriter, log)
		publishers[enrollDomain.EnrollmentTopic] = infraEvents.NewKafkaPublisher(enrollmentWriter, log)

		catalogReader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopicCatalog,
			GroupID:  cfg.ConsumerGroup,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		defer catalogReader.Close()

		consumerAdapter := infraEvents.NewConsumerAdapter(catalogReader, enrollmentConsumer, log)
		consumerAdapter.Start(ctx)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		catalogBus := infraEvents.NewInMemoryEventBus(catalogDomain.CatalogTopic)
		enrollmentBus := infraEvents.NewInMemoryEventBus(enrollDomain.EnrollmentTopic)

		publishers[catalogDomain.CatalogTopic] = catalogBus
		publishers[enrollDomain.EnrollmentTopic] = enrollmentBus

		catalogChannel := catalogBus.Subscribe(10)
		enrollEvents.BackgroundConsumerChan(ctx, catalogChannel, enrollmentConsumer)
	}

	// ---------------- Relayer ---------------
	worker := infraRelayer.NewOutboxWorker(outboxStore, publishers, registry, cfg.OutboxPeriod, cfg.OutboxLimit, log)
	go worker.Start(ctx)

	// ---------------- HTTP -----------------
	router := gin.Default()
	courseHandler := catalogHttp.NewCourseHandler(catalogService)
	catalogHttp.RegisterCourseRoutes(router, courseHandler)

	go func() {
		if err := router.Run(":" + cfg.HTTPPort); err != nil {
			log.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()

	log.Info("🎓 campuslab arrancado", zap.String("port", cfg.HTTPPort))

	<-ctx.Done()
	log.Info("🛑 Apagando campuslab...")
}

package bootstrap

import (
	"context"
	"log"

	"ecommerce-recs-be/internal/config"
	"ecommerce-recs-be/internal/controller"
	"ecommerce-recs-be/internal/pkg/logger"
	"ecommerce-recs-be/internal/repository/implementation"
	"ecommerce-recs-be/internal/service"
	"ecommerce-recs-be/pkg/cache"
	"ecommerce-recs-be/pkg/recommender"
	"ecommerce-recs-be/pkg/stream"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController           controller.IAuthController
	ProductController        controller.IProductController
	EventController          controller.IEventController
	RecommendationController controller.IRecommendationController

	// Background services (exposed for main.go to run)
	IngestService service.IIngestService

	// Live models (exposed for health reporting)
	Affinity   *recommender.AffinityModel
	Similarity *recommender.SimilarityModel

	Logger logger.ILogger

	publisher    stream.Publisher
	recPublisher stream.Publisher
	source       stream.Source
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Models
	store := recommender.NewModelStore(cfg.Recs.ModelDir, sysLogger)
	affinity := recommender.NewAffinityModel(store.LoadAffinity())
	similarity := recommender.NewSimilarityModel(store.LoadSimilarity())

	// 3. Infrastructure
	// Event stream: NATS JetStream, with an in-process channel as the
	// degraded mode when the broker is unreachable at boot.
	// Inbound interaction events and outbound served-recommendation events
	// ride separate topics, each behind its own publisher.
	var publisher stream.Publisher
	var recPublisher stream.Publisher
	var source stream.Source
	natsProbe := stream.NewNatsPublisher(cfg.App.NatsURL, cfg.Stream.TopicEvents, sysLogger)
	if err := natsProbe.Probe(context.Background()); err != nil {
		log.Printf("[WARN] NATS unreachable, falling back to in-process event bus: %v", err)
		_ = natsProbe.Close()
		bus := stream.NewGoChannelBus(cfg.Stream.TopicEvents)
		publisher = bus
		source = bus
		recPublisher = stream.NewGoChannelBus(cfg.Stream.TopicRecommendations)
	} else {
		publisher = natsProbe
		source = stream.NewNatsSource(cfg.App.NatsURL, cfg.Stream.TopicEvents, cfg.Stream.ConsumerGroup, sysLogger)
		recPublisher = stream.NewNatsPublisher(cfg.App.NatsURL, cfg.Stream.TopicRecommendations, sysLogger)
	}

	// Redis recommendation cache. Optional: a down Redis only disables caching.
	var recCache *cache.Cache
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, recommendation cache disabled: %v", err)
	} else {
		recCache = cache.New(rdb)
	}

	// 4. Repositories
	productRepo := implementation.NewProductRepository(db)
	userRepo := implementation.NewUserRepository(db)
	eventRepo := implementation.NewUserEventRepository(db)
	recommendationRepo := implementation.NewRecommendationRepository(db)
	embeddingRepo := implementation.NewProductEmbeddingRepository(db)

	// 5. Services
	authService := service.NewAuthService(userRepo, cfg)
	productService := service.NewProductService(productRepo, embeddingRepo, eventRepo)
	eventService := service.NewEventService(eventRepo, publisher, sysLogger)
	recommendationService := service.NewRecommendationService(
		affinity,
		similarity,
		productRepo,
		eventRepo,
		recommendationRepo,
		embeddingRepo,
		productService,
		recPublisher,
		recCache,
		sysLogger,
		cfg,
	)
	ingestService := service.NewIngestService(source, eventRepo, affinity, similarity, sysLogger)

	// 6. Controllers
	return &Container{
		AuthController:           controller.NewAuthController(authService),
		ProductController:        controller.NewProductController(productService),
		EventController:          controller.NewEventController(eventService),
		RecommendationController: controller.NewRecommendationController(recommendationService),
		IngestService:            ingestService,
		Affinity:                 affinity,
		Similarity:               similarity,
		Logger:                   sysLogger,
		publisher:                publisher,
		recPublisher:             recPublisher,
		source:                   source,
	}
}

// Shutdown releases broker connections and flushes the logger.
func (c *Container) Shutdown() {
	c.IngestService.Stop()
	if c.publisher != nil {
		_ = c.publisher.Close()
	}
	if c.recPublisher != nil {
		_ = c.recPublisher.Close()
	}
	if c.source != nil {
		_ = c.source.Close()
	}
	_ = c.Logger.Sync()
}

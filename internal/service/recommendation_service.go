package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"ecommerce-recs-be/internal/config"
	"ecommerce-recs-be/internal/dto"
	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/pkg/logger"
	"ecommerce-recs-be/internal/pkg/serverutils"
	"ecommerce-recs-be/internal/repository/contract"
	"ecommerce-recs-be/internal/repository/specification"
	"ecommerce-recs-be/pkg/cache"
	"ecommerce-recs-be/pkg/events"
	"ecommerce-recs-be/pkg/recommender"
	"ecommerce-recs-be/pkg/stream"
)

const (
	AlgorithmCollaborative = "collaborative"
	AlgorithmContent       = "content"
	AlgorithmHybrid        = "hybrid"

	defaultRecLimit = 10
	maxRecLimit     = 50

	// Content-based seeding looks at recent views and purchases only.
	contentEventWindow = 30 * 24 * time.Hour
	contentSeedLimit   = 5
	similarPerSeed     = 3
)

type IRecommendationService interface {
	// ForUser ranks products for a known user. Unknown algorithm names fail
	// with a 400; every other upstream failure degrades to a recent-products
	// fallback rather than an error.
	ForUser(ctx context.Context, userId uuid.UUID, req *dto.RecommendationsRequest) (*dto.RecommendationsResponse, error)
	// Anonymous serves trending products for sessions with no user.
	Anonymous(ctx context.Context, limit int) (*dto.RecommendationsResponse, error)
	// SimilarProducts ranks products similar to the given one. Fails with a
	// 404 when the anchor product does not exist.
	SimilarProducts(ctx context.Context, productId uuid.UUID, limit int) (*dto.RecommendationsResponse, error)
}

type recommendationService struct {
	affinity   *recommender.AffinityModel
	similarity *recommender.SimilarityModel

	productRepository        contract.ProductRepository
	eventRepository          contract.UserEventRepository
	recommendationRepository contract.RecommendationRepository
	embeddingRepository      contract.ProductEmbeddingRepository

	productService IProductService
	publisher      stream.Publisher
	cache          *cache.Cache
	log            logger.ILogger

	catalogScanLimit int
	cacheTTL         time.Duration
}

func NewRecommendationService(
	affinity *recommender.AffinityModel,
	similarity *recommender.SimilarityModel,
	productRepository contract.ProductRepository,
	eventRepository contract.UserEventRepository,
	recommendationRepository contract.RecommendationRepository,
	embeddingRepository contract.ProductEmbeddingRepository,
	productService IProductService,
	publisher stream.Publisher,
	recCache *cache.Cache,
	log logger.ILogger,
	cfg *config.Config,
) IRecommendationService {
	return &recommendationService{
		affinity:                 affinity,
		similarity:               similarity,
		productRepository:        productRepository,
		eventRepository:          eventRepository,
		recommendationRepository: recommendationRepository,
		embeddingRepository:      embeddingRepository,
		productService:           productService,
		publisher:                publisher,
		cache:                    recCache,
		log:                      log,
		catalogScanLimit:         cfg.Recs.CatalogScanLimit,
		cacheTTL:                 time.Duration(cfg.Recs.CacheTTLSeconds) * time.Second,
	}
}

func (c *recommendationService) ForUser(ctx context.Context, userId uuid.UUID, req *dto.RecommendationsRequest) (*dto.RecommendationsResponse, error) {
	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = AlgorithmCollaborative
	}
	switch algorithm {
	case AlgorithmCollaborative, AlgorithmContent, AlgorithmHybrid:
	default:
		return nil, serverutils.BadRequestError(fmt.Sprintf("Unknown algorithm: %s", req.Algorithm))
	}
	limit := clampRecLimit(req.Limit)

	cacheKey := fmt.Sprintf("rec:user:%s:alg:%s:k:%d", userId, algorithm, limit)
	if cached, ok := c.cacheLookup(ctx, cacheKey); ok {
		if resp, err := c.resolveProducts(ctx, cached, algorithm, limit); err == nil {
			return resp, nil
		}
	}

	var scored []recommender.ScoredItem
	var err error
	switch algorithm {
	case AlgorithmCollaborative:
		scored, err = c.collaborativeScores(ctx, userId, limit)
	case AlgorithmContent:
		scored, err = c.contentScores(ctx, userId, limit)
	case AlgorithmHybrid:
		scored, err = c.hybridScores(ctx, userId, limit)
	}
	if err != nil || len(scored) == 0 {
		if err != nil {
			c.log.Warn("recommendation_service", "Scoring failed, serving fallback", map[string]interface{}{
				"user_id":   userId.String(),
				"algorithm": algorithm,
				"error":     err.Error(),
			})
		}
		return c.fallback(ctx, algorithm, limit, uuid.Nil)
	}

	resp, err := c.resolveProducts(ctx, scored, algorithm, limit)
	if err != nil || len(resp.Products) == 0 {
		if err != nil {
			c.log.Warn("recommendation_service", "Product resolution failed, serving fallback", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
		return c.fallback(ctx, algorithm, limit, uuid.Nil)
	}

	c.cacheStore(ctx, cacheKey, scored[:min(len(scored), limit)])
	c.audit(ctx, userId, algorithm, resp.Products)
	return resp, nil
}

func (c *recommendationService) Anonymous(ctx context.Context, limit int) (*dto.RecommendationsResponse, error) {
	limit = clampRecLimit(limit)
	trending, err := c.productService.Trending(ctx, limit)
	if err != nil {
		c.log.Warn("recommendation_service", "Trending lookup failed, serving fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return c.fallback(ctx, "trending", limit, uuid.Nil)
	}

	products := make([]dto.RecommendedProduct, 0, len(trending))
	for _, p := range trending {
		products = append(products, dto.RecommendedProduct{
			Id:       p.Id,
			Name:     p.Name,
			Price:    p.Price,
			ImageUrl: p.ImageUrl,
			Score:    recommender.NeutralScore,
		})
	}
	return &dto.RecommendationsResponse{Products: products, Algorithm: "trending"}, nil
}

func (c *recommendationService) SimilarProducts(ctx context.Context, productId uuid.UUID, limit int) (*dto.RecommendationsResponse, error) {
	limit = clampRecLimit(limit)

	anchor, err := c.productRepository.FindOne(ctx, specification.ByID{ID: productId})
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, serverutils.NotFoundError("Product not found")
	}

	scored := c.similarity.FindSimilar(productId, limit)
	if len(scored) == 0 {
		scored = c.nearestByEmbedding(ctx, productId, limit)
	}
	if len(scored) > 0 {
		resp, err := c.resolveProducts(ctx, scored, "similar", limit)
		if err == nil && len(resp.Products) > 0 {
			return resp, nil
		}
	}
	return c.fallback(ctx, "similar", limit, productId)
}

func (c *recommendationService) collaborativeScores(ctx context.Context, userId uuid.UUID, limit int) ([]recommender.ScoredItem, error) {
	candidates, err := c.productRepository.ListIds(ctx, c.catalogScanLimit)
	if err != nil {
		return nil, err
	}
	scored := c.affinity.Predict(userId, candidates)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (c *recommendationService) contentScores(ctx context.Context, userId uuid.UUID, limit int) ([]recommender.ScoredItem, error) {
	seeds, err := c.recentSeeds(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	// Each seed contributes its own neighbors. Duplicates across seeds are
	// kept: an item similar to several recent interactions should rank as
	// strongly as its best occurrence.
	scored := make([]recommender.ScoredItem, 0, len(seeds)*similarPerSeed)
	for _, seed := range seeds {
		scored = append(scored, c.similarity.FindSimilar(seed, similarPerSeed)...)
	}
	sortScored(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (c *recommendationService) hybridScores(ctx context.Context, userId uuid.UUID, limit int) ([]recommender.ScoredItem, error) {
	collaborative, err := c.collaborativeScores(ctx, userId, limit)
	if err != nil {
		return nil, err
	}
	content, err := c.contentScores(ctx, userId, limit)
	if err != nil {
		return nil, err
	}
	scored := append(collaborative, content...)
	sortScored(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// recentSeeds returns the products behind the user's latest views and
// purchases inside the content window, newest first.
func (c *recommendationService) recentSeeds(ctx context.Context, userId uuid.UUID) ([]uuid.UUID, error) {
	recentEvents, err := c.eventRepository.FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByEventTypes{Types: []string{events.TypeView, events.TypePurchase}},
		specification.Since{After: time.Now().Add(-contentEventWindow)},
		specification.WithProduct{},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Pagination{Limit: contentSeedLimit},
	)
	if err != nil {
		return nil, err
	}
	seeds := make([]uuid.UUID, 0, len(recentEvents))
	for _, e := range recentEvents {
		if e.ProductId != nil {
			seeds = append(seeds, *e.ProductId)
		}
	}
	return seeds, nil
}

func (c *recommendationService) nearestByEmbedding(ctx context.Context, productId uuid.UUID, limit int) []recommender.ScoredItem {
	embedding, err := c.embeddingRepository.FindOne(ctx, specification.FilterBy{Field: "product_id", Value: productId})
	if err != nil || embedding == nil {
		return nil
	}
	ids, err := c.embeddingRepository.FindNearest(ctx, embedding.EmbeddingValue, productId, limit)
	if err != nil {
		return nil
	}
	scored := make([]recommender.ScoredItem, len(ids))
	for i, id := range ids {
		scored[i] = recommender.ScoredItem{ItemID: id, Score: recommender.NeutralScore}
	}
	return scored
}

// resolveProducts turns ranked item ids into product payloads, preserving
// rank order and dropping ids the catalog no longer has.
func (c *recommendationService) resolveProducts(ctx context.Context, scored []recommender.ScoredItem, algorithm string, limit int) (*dto.RecommendationsResponse, error) {
	ids := make([]uuid.UUID, 0, len(scored))
	seen := make(map[uuid.UUID]bool, len(scored))
	for _, s := range scored {
		if !seen[s.ItemID] {
			ids = append(ids, s.ItemID)
			seen[s.ItemID] = true
		}
	}
	if len(ids) == 0 {
		return &dto.RecommendationsResponse{Products: []dto.RecommendedProduct{}, Algorithm: algorithm}, nil
	}

	found, err := c.productRepository.FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Product, len(found))
	for _, p := range found {
		byId[p.Id] = p
	}

	products := make([]dto.RecommendedProduct, 0, limit)
	emitted := make(map[uuid.UUID]bool, limit)
	for _, s := range scored {
		if len(products) >= limit {
			break
		}
		p, ok := byId[s.ItemID]
		if !ok || emitted[s.ItemID] {
			continue
		}
		emitted[s.ItemID] = true
		products = append(products, dto.RecommendedProduct{
			Id:       p.Id,
			Name:     p.Name,
			Price:    p.Price,
			ImageUrl: p.ImageUrl,
			Score:    s.Score,
		})
	}
	return &dto.RecommendationsResponse{Products: products, Algorithm: algorithm}, nil
}

// fallback serves the newest catalog products. It is the terminal branch of
// every degradation chain and only errors when the catalog itself is down.
func (c *recommendationService) fallback(ctx context.Context, algorithm string, limit int, exclude uuid.UUID) (*dto.RecommendationsResponse, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Pagination{Limit: limit + 1},
	}
	if exclude != uuid.Nil {
		specs = append([]specification.Specification{specification.ExcludeID{ID: exclude}}, specs...)
	}
	recent, err := c.productRepository.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	products := make([]dto.RecommendedProduct, 0, limit)
	for _, p := range recent {
		if len(products) >= limit {
			break
		}
		products = append(products, dto.RecommendedProduct{
			Id:       p.Id,
			Name:     p.Name,
			Price:    p.Price,
			ImageUrl: p.ImageUrl,
			Score:    recommender.NeutralScore,
		})
	}
	return &dto.RecommendationsResponse{Products: products, Algorithm: algorithm}, nil
}

func (c *recommendationService) cacheLookup(ctx context.Context, key string) ([]recommender.ScoredItem, bool) {
	if c.cache == nil {
		return nil, false
	}
	var cached []recommender.ScoredItem
	hit, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil || !hit || len(cached) == 0 {
		return nil, false
	}
	return cached, true
}

func (c *recommendationService) cacheStore(ctx context.Context, key string, scored []recommender.ScoredItem) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.SetJSON(ctx, key, scored, c.cacheTTL); err != nil {
		c.log.Debug("recommendation_service", "Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// audit records served recommendations and announces them on the stream.
// Both writes are best effort.
func (c *recommendationService) audit(ctx context.Context, userId uuid.UUID, algorithm string, products []dto.RecommendedProduct) {
	now := time.Now()
	rows := make([]entity.Recommendation, 0, len(products))
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		rows = append(rows, entity.Recommendation{
			Id:        uuid.New(),
			UserId:    userId,
			ProductId: p.Id,
			Score:     p.Score,
			Algorithm: algorithm,
			CreatedAt: now,
		})
		ids = append(ids, p.Id)
	}
	if err := c.recommendationRepository.CreateBulk(ctx, rows); err != nil {
		c.log.Warn("recommendation_service", "Failed to persist recommendation audit rows", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
	if err := c.publisher.Publish(ctx, events.RecommendationServedEvent{
		UserID:     userId,
		Algorithm:  algorithm,
		ProductIDs: ids,
		OccurredAt: now,
	}); err != nil {
		c.log.Debug("recommendation_service", "Failed to publish served event", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

func clampRecLimit(limit int) int {
	if limit <= 0 {
		return defaultRecLimit
	}
	if limit > maxRecLimit {
		return maxRecLimit
	}
	return limit
}

func sortScored(scored []recommender.ScoredItem) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ItemID.String() < scored[j].ItemID.String()
	})
}

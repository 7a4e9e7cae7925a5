package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-recs-be/internal/config"
	"ecommerce-recs-be/internal/dto"
	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/pkg/logger"
	"ecommerce-recs-be/internal/pkg/serverutils"
	"ecommerce-recs-be/internal/repository/specification"
	"ecommerce-recs-be/pkg/events"
	"ecommerce-recs-be/pkg/recommender"
)

type recFixture struct {
	service     IRecommendationService
	affinity    *recommender.AffinityModel
	similarity  *recommender.SimilarityModel
	productRepo *fakeProductRepo
	eventRepo   *fakeEventRepo
	recRepo     *fakeRecommendationRepo
	embRepo     *fakeEmbeddingRepo
	publisher   *fakePublisher
}

func newRecFixture(products ...*entity.Product) *recFixture {
	f := &recFixture{
		affinity:    recommender.NewAffinityModel(nil),
		similarity:  recommender.NewSimilarityModel(nil),
		productRepo: newFakeProductRepo(products...),
		eventRepo:   &fakeEventRepo{},
		recRepo:     &fakeRecommendationRepo{},
		embRepo:     &fakeEmbeddingRepo{},
		publisher:   &fakePublisher{},
	}
	cfg := &config.Config{
		Recs: config.RecsConfig{CatalogScanLimit: 100, CacheTTLSeconds: 0},
	}
	productService := NewProductService(f.productRepo, f.embRepo, f.eventRepo)
	f.service = NewRecommendationService(
		f.affinity,
		f.similarity,
		f.productRepo,
		f.eventRepo,
		f.recRepo,
		f.embRepo,
		productService,
		f.publisher,
		nil,
		logger.NewNopLogger(),
		cfg,
	)
	return f
}

func demoProduct(name string) *entity.Product {
	return &entity.Product{Id: uuid.New(), Name: name, Price: 10, CreatedAt: time.Now()}
}

func TestForUserUnknownAlgorithm(t *testing.T) {
	f := newRecFixture(demoProduct("a"))

	_, err := f.service.ForUser(context.Background(), uuid.New(), &dto.RecommendationsRequest{Algorithm: "magic"})
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Code)

	// A rejected call leaves no trace.
	assert.Zero(t, f.recRepo.count())
	assert.Zero(t, f.publisher.count())
}

func TestForUserCollaborativeRanksByAffinity(t *testing.T) {
	p1 := demoProduct("top")
	p2 := demoProduct("mid")
	p3 := demoProduct("cold")
	f := newRecFixture(p1, p2, p3)

	user := uuid.New()
	f.affinity.ReplaceState(&recommender.AffinityState{
		UserFactors: map[uuid.UUID]recommender.Vector{user: {1}},
		ItemFactors: map[uuid.UUID]recommender.Vector{
			p1.Id: {0.9},
			p2.Id: {0.1},
		},
	})

	res, err := f.service.ForUser(context.Background(), user, &dto.RecommendationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, AlgorithmCollaborative, res.Algorithm)
	require.Len(t, res.Products, 3)

	assert.Equal(t, p1.Id, res.Products[0].Id)
	assert.InDelta(t, 0.9, res.Products[0].Score, 1e-9)
	assert.Equal(t, p2.Id, res.Products[1].Id)
	assert.Equal(t, p3.Id, res.Products[2].Id)

	// Served recommendations are audited and announced.
	assert.Equal(t, 3, f.recRepo.count())
	assert.Equal(t, 1, f.publisher.count())
}

func TestForUserColdStartScoresAtGlobalMean(t *testing.T) {
	p1 := demoProduct("a")
	p2 := demoProduct("b")
	f := newRecFixture(p1, p2)

	f.affinity.ReplaceState(&recommender.AffinityState{
		UserFactors: map[uuid.UUID]recommender.Vector{},
		ItemFactors: map[uuid.UUID]recommender.Vector{},
		GlobalMean:  0.7,
	})

	res, err := f.service.ForUser(context.Background(), uuid.New(), &dto.RecommendationsRequest{})
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	for _, p := range res.Products {
		assert.InDelta(t, 0.7, p.Score, 1e-9)
	}
}

func TestForUserScoringFailureFallsBack(t *testing.T) {
	p1 := demoProduct("a")
	p2 := demoProduct("b")
	f := newRecFixture(p1, p2)
	f.productRepo.listErr = errors.New("catalog scan down")

	res, err := f.service.ForUser(context.Background(), uuid.New(), &dto.RecommendationsRequest{})
	require.NoError(t, err, "a scoring failure must degrade, not error")
	assert.NotEmpty(t, res.Products)
	for _, p := range res.Products {
		assert.Equal(t, recommender.NeutralScore, p.Score)
	}
}

func TestFallbackOrdersByRecencyThenId(t *testing.T) {
	f := newRecFixture(demoProduct("a"), demoProduct("b"))
	f.productRepo.listErr = errors.New("catalog scan down")

	_, err := f.service.ForUser(context.Background(), uuid.New(), &dto.RecommendationsRequest{})
	require.NoError(t, err)

	// Equal timestamps must not make the last-line fallback nondeterministic.
	var fields []string
	for _, s := range f.productRepo.lastFindAllSpecs {
		if o, ok := s.(specification.OrderBy); ok {
			require.True(t, o.Desc)
			fields = append(fields, o.Field)
		}
	}
	assert.Equal(t, []string{"created_at", "id"}, fields)
}

func TestForUserContentWithoutHistoryFallsBack(t *testing.T) {
	p1 := demoProduct("a")
	f := newRecFixture(p1)

	res, err := f.service.ForUser(context.Background(), uuid.New(), &dto.RecommendationsRequest{Algorithm: AlgorithmContent})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Products)
}

func TestForUserContentUsesRecentSeeds(t *testing.T) {
	seed := demoProduct("seed")
	similar := demoProduct("similar")
	weak := demoProduct("weak")
	f := newRecFixture(seed, similar, weak)

	user := uuid.New()
	seedId := seed.Id
	userId := user
	f.eventRepo.events = []*entity.UserEvent{{
		Id:        uuid.New(),
		UserId:    &userId,
		SessionId: "s",
		EventType: events.TypeView,
		ProductId: &seedId,
		Timestamp: time.Now().Add(-time.Hour),
	}}
	f.similarity.ReplaceState(&recommender.SimilarityState{
		ItemVectors: map[uuid.UUID]recommender.Vector{seed.Id: {1}, similar.Id: {1}, weak.Id: {1}},
		Similarity: map[uuid.UUID]map[uuid.UUID]float64{
			seed.Id: {similar.Id: 0.9, weak.Id: 0.2},
		},
	})

	res, err := f.service.ForUser(context.Background(), user, &dto.RecommendationsRequest{Algorithm: AlgorithmContent})
	require.NoError(t, err)
	assert.Equal(t, AlgorithmContent, res.Algorithm)
	require.Len(t, res.Products, 2)
	assert.Equal(t, similar.Id, res.Products[0].Id)
	assert.Equal(t, weak.Id, res.Products[1].Id)
}

func TestForUserHybridMergesBothPaths(t *testing.T) {
	p1 := demoProduct("a")
	p2 := demoProduct("b")
	f := newRecFixture(p1, p2)

	user := uuid.New()
	f.affinity.ReplaceState(&recommender.AffinityState{
		UserFactors: map[uuid.UUID]recommender.Vector{user: {1}},
		ItemFactors: map[uuid.UUID]recommender.Vector{p1.Id: {0.8}, p2.Id: {0.3}},
	})

	res, err := f.service.ForUser(context.Background(), user, &dto.RecommendationsRequest{Algorithm: AlgorithmHybrid})
	require.NoError(t, err)
	assert.Equal(t, AlgorithmHybrid, res.Algorithm)
	require.Len(t, res.Products, 2)
	assert.Equal(t, p1.Id, res.Products[0].Id)
}

func TestForUserRepeatCallsAreDeterministic(t *testing.T) {
	var products []*entity.Product
	for i := 0; i < 6; i++ {
		products = append(products, demoProduct("p"))
	}
	f := newRecFixture(products...)

	user := uuid.New()
	first, err := f.service.ForUser(context.Background(), user, &dto.RecommendationsRequest{})
	require.NoError(t, err)
	second, err := f.service.ForUser(context.Background(), user, &dto.RecommendationsRequest{})
	require.NoError(t, err)

	require.Equal(t, len(first.Products), len(second.Products))
	for i := range first.Products {
		assert.Equal(t, first.Products[i].Id, second.Products[i].Id)
	}
}

func TestClampRecLimit(t *testing.T) {
	assert.Equal(t, defaultRecLimit, clampRecLimit(0))
	assert.Equal(t, defaultRecLimit, clampRecLimit(-3))
	assert.Equal(t, 5, clampRecLimit(5))
	assert.Equal(t, maxRecLimit, clampRecLimit(500))
}

func TestSimilarProductsUnknownAnchor(t *testing.T) {
	f := newRecFixture(demoProduct("a"))

	_, err := f.service.SimilarProducts(context.Background(), uuid.New(), 5)
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}

func TestSimilarProductsFromMatrix(t *testing.T) {
	anchor := demoProduct("anchor")
	near := demoProduct("near")
	far := demoProduct("far")
	f := newRecFixture(anchor, near, far)

	f.similarity.ReplaceState(&recommender.SimilarityState{
		ItemVectors: map[uuid.UUID]recommender.Vector{anchor.Id: {1}, near.Id: {1}, far.Id: {1}},
		Similarity: map[uuid.UUID]map[uuid.UUID]float64{
			anchor.Id: {near.Id: 0.95, far.Id: 0.1},
		},
	})

	res, err := f.service.SimilarProducts(context.Background(), anchor.Id, 5)
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, near.Id, res.Products[0].Id)
	assert.Equal(t, far.Id, res.Products[1].Id)
}

func TestSimilarProductsEmbeddingFallback(t *testing.T) {
	anchor := demoProduct("anchor")
	neighbor := demoProduct("neighbor")
	f := newRecFixture(anchor, neighbor)

	f.embRepo.embedding = &entity.ProductEmbedding{
		Id:             uuid.New(),
		ProductId:      anchor.Id,
		EmbeddingValue: []float32{1, 0},
	}
	f.embRepo.nearest = []uuid.UUID{neighbor.Id}

	res, err := f.service.SimilarProducts(context.Background(), anchor.Id, 5)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, neighbor.Id, res.Products[0].Id)
}

func TestSimilarProductsRecentFallbackExcludesAnchor(t *testing.T) {
	anchor := demoProduct("anchor")
	other := demoProduct("other")
	f := newRecFixture(anchor, other)

	res, err := f.service.SimilarProducts(context.Background(), anchor.Id, 5)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, other.Id, res.Products[0].Id)
}

func TestAnonymousServesTrending(t *testing.T) {
	hot := demoProduct("hot")
	cold := demoProduct("cold")
	f := newRecFixture(cold, hot)

	hotId := hot.Id
	for i := 0; i < 3; i++ {
		f.eventRepo.events = append(f.eventRepo.events, &entity.UserEvent{
			Id:        uuid.New(),
			SessionId: "s",
			EventType: events.TypeView,
			ProductId: &hotId,
			Timestamp: time.Now().Add(-time.Hour),
		})
	}

	res, err := f.service.Anonymous(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "trending", res.Algorithm)
	require.Len(t, res.Products, 2)
	assert.Equal(t, hot.Id, res.Products[0].Id)
}

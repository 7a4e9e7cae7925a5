package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"ecommerce-recs-be/internal/dto"
	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/pkg/serverutils"
	"ecommerce-recs-be/internal/repository/contract"
	"ecommerce-recs-be/internal/repository/specification"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type IProductService interface {
	List(ctx context.Context, req *dto.ListProductsRequest) (*dto.ProductListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Trending(ctx context.Context, limit int) ([]dto.ProductResponse, error)
}

type productService struct {
	productRepository   contract.ProductRepository
	embeddingRepository contract.ProductEmbeddingRepository
	eventRepository     contract.UserEventRepository
}

func NewProductService(
	productRepository contract.ProductRepository,
	embeddingRepository contract.ProductEmbeddingRepository,
	eventRepository contract.UserEventRepository,
) IProductService {
	return &productService{
		productRepository:   productRepository,
		embeddingRepository: embeddingRepository,
		eventRepository:     eventRepository,
	}
}

func (c *productService) List(ctx context.Context, req *dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	skip := req.Skip
	if skip < 0 {
		skip = 0
	}

	specs := []specification.Specification{}
	if req.Category != "" {
		specs = append(specs, specification.ByCategory{Name: req.Category})
	}

	total, err := c.productRepository.Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "products.created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: skip},
	)
	products, err := c.productRepository.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Products: responses, Total: int(total)}, nil
}

func (c *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := c.productRepository.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, serverutils.NotFoundError("Product not found")
	}
	return toProductResponse(product), nil
}

func (c *productService) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categories, err := c.productRepository.ResolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	product := entity.Product{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageUrl:    req.ImageUrl,
		Stock:       req.Stock,
		Categories:  categories,
		CreatedAt:   time.Now(),
	}
	if err := c.productRepository.Create(ctx, &product); err != nil {
		return nil, err
	}
	return toProductResponse(&product), nil
}

func (c *productService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := c.productRepository.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, serverutils.NotFoundError("Product not found")
	}

	categories, err := c.productRepository.ResolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageUrl = req.ImageUrl
	product.Stock = req.Stock
	product.Categories = categories
	if err := c.productRepository.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (c *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := c.productRepository.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if product == nil {
		return serverutils.NotFoundError("Product not found")
	}
	if err := c.embeddingRepository.DeleteByProductId(ctx, id); err != nil {
		return err
	}
	return c.productRepository.Delete(ctx, id)
}

// Trending ranks products by interaction volume over the last 7 days and
// tops up with the newest products when interactions are sparse.
func (c *productService) Trending(ctx context.Context, limit int) ([]dto.ProductResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	since := time.Now().AddDate(0, 0, -7)
	events, err := c.eventRepository.FindAll(ctx,
		specification.Since{After: since},
		specification.WithProduct{},
		specification.ByEventTypes{Types: []string{"view", "cart_add", "purchase"}},
	)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0)
	for _, e := range events {
		if e.ProductId == nil {
			continue
		}
		if _, seen := counts[*e.ProductId]; !seen {
			order = append(order, *e.ProductId)
		}
		counts[*e.ProductId]++
	}

	ranked := make([]uuid.UUID, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if len(ranked) < limit {
		recent, err := c.productRepository.ListIds(ctx, limit)
		if err != nil {
			return nil, err
		}
		seen := make(map[uuid.UUID]bool, len(ranked))
		for _, id := range ranked {
			seen[id] = true
		}
		for _, id := range recent {
			if len(ranked) >= limit {
				break
			}
			if !seen[id] {
				ranked = append(ranked, id)
				seen[id] = true
			}
		}
	}

	if len(ranked) == 0 {
		return []dto.ProductResponse{}, nil
	}

	products, err := c.productRepository.FindAll(ctx, specification.ByIDs{IDs: ranked})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Product, len(products))
	for _, p := range products {
		byId[p.Id] = p
	}

	responses := make([]dto.ProductResponse, 0, len(ranked))
	for _, id := range ranked {
		if p, ok := byId[id]; ok {
			responses = append(responses, *toProductResponse(p))
		}
	}
	return responses, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	categories := make([]dto.CategoryResponse, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, dto.CategoryResponse{
			Id:          c.Id,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	return &dto.ProductResponse{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageUrl:    p.ImageUrl,
		Stock:       p.Stock,
		Categories:  categories,
		CreatedAt:   p.CreatedAt,
	}
}

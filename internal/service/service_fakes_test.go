package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/repository/specification"
	"ecommerce-recs-be/pkg/events"
	"ecommerce-recs-be/pkg/stream"
)

// The fakes interpret the handful of specifications the services actually
// use, by type assertion, so tests stay free of a database.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
	order    []uuid.UUID // newest first

	listErr    error
	findAllErr error
	findOneErr error

	lastFindAllSpecs []specification.Specification
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{}}
	for _, p := range products {
		r.products[p.Id] = p
		r.order = append(r.order, p.Id)
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.Id] = product
	r.order = append([]uuid.UUID{product.Id}, r.order...)
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.Id] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	if r.findOneErr != nil {
		return nil, r.findOneErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return r.products[byID.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	r.mu.Lock()
	r.lastFindAllSpecs = specs
	r.mu.Unlock()
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var wanted map[uuid.UUID]bool
	exclude := uuid.Nil
	limit := -1
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByIDs:
			wanted = make(map[uuid.UUID]bool, len(spec.IDs))
			for _, id := range spec.IDs {
				wanted[id] = true
			}
		case specification.ExcludeID:
			exclude = spec.ID
		case specification.Pagination:
			limit = spec.Limit
		}
	}

	var result []*entity.Product
	for _, id := range r.order {
		if wanted != nil && !wanted[id] {
			continue
		}
		if id == exclude {
			continue
		}
		if p, ok := r.products[id]; ok {
			result = append(result, p)
		}
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *fakeProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) ResolveCategories(ctx context.Context, names []string) ([]entity.Category, error) {
	categories := make([]entity.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, entity.Category{Id: uuid.New(), Name: name})
	}
	return categories, nil
}

func (r *fakeProductRepo) ListIds(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, len(r.order))
	copy(ids, r.order)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byEmail, ok := s.(specification.ByEmail); ok {
			return r.users[byEmail.Email], nil
		}
	}
	return nil, nil
}

type fakeEventRepo struct {
	mu      sync.Mutex
	events  []*entity.UserEvent
	findErr error
	saveErr error
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.UserEvent) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserEvent, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.UserEvent, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *fakeEventRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.events)), nil
}

func (r *fakeEventRepo) stored() []*entity.UserEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.UserEvent, len(r.events))
	copy(out, r.events)
	return out
}

type fakeRecommendationRepo struct {
	mu   sync.Mutex
	rows []entity.Recommendation
}

func (r *fakeRecommendationRepo) CreateBulk(ctx context.Context, recs []entity.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, recs...)
	return nil
}

func (r *fakeRecommendationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Recommendation, len(r.rows))
	for i := range r.rows {
		out[i] = &r.rows[i]
	}
	return out, nil
}

func (r *fakeRecommendationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeEmbeddingRepo struct {
	embedding *entity.ProductEmbedding
	nearest   []uuid.UUID
}

func (r *fakeEmbeddingRepo) Create(ctx context.Context, embedding *entity.ProductEmbedding) error {
	return nil
}

func (r *fakeEmbeddingRepo) CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error {
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByProductId(ctx context.Context, productId uuid.UUID) error {
	return nil
}

func (r *fakeEmbeddingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProductEmbedding, error) {
	return r.embedding, nil
}

func (r *fakeEmbeddingRepo) FindNearest(ctx context.Context, embedding []float32, excludeProductId uuid.UUID, limit int) ([]uuid.UUID, error) {
	ids := r.nearest
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []events.Event
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// fakeSource serves pre-loaded batches, then empty fetches.
type fakeSource struct {
	mu      sync.Mutex
	batches [][]*stream.Message
	err     error
}

func (s *fakeSource) Fetch(ctx context.Context, max int, wait time.Duration) ([]*stream.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}
	if len(s.batches) == 0 {
		// Imitate the broker's bounded wait so the worker loop does not spin.
		time.Sleep(time.Millisecond)
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *fakeSource) Close() error { return nil }

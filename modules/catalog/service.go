package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	shopmongo "github.com/dmitrymomot/shopkit/pkg/mongo"
	shopsearch "github.com/dmitrymomot/shopkit/pkg/opensearch"
	shopredis "github.com/dmitrymomot/shopkit/pkg/redis"
)

// defaultCacheTTL bounds product cache staleness between invalidations.
const defaultCacheTTL = 10 * time.Minute

// Repository is the tenant-scoped persistence surface the service needs.
// Satisfied by *mongo.Repository[Product].
type Repository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	Find(ctx context.Context, match bson.D, limit, offset int64) ([]Product, error)
	Count(ctx context.Context, match bson.D) (int64, error)
	Save(ctx context.Context, id string, p *Product) error
	Delete(ctx context.Context, id string) error
}

// Cache is the tenant-namespaced cache surface. Satisfied by
// *redis.ScopedCache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Index is the tenant-scoped search surface. Satisfied by
// *opensearch.ScopedIndex.
type Index interface {
	Index(ctx context.Context, id string, doc map[string]any) error
	Search(ctx context.Context, query map[string]any, size, from int) (*shopsearch.SearchResult, error)
	Delete(ctx context.Context, id string) error
}

// Service composes the scoped store adapters into the product catalog.
// Every store interaction inherits tenant scoping from the adapters, so
// the service itself never handles tenant keys.
type Service struct {
	repo     Repository
	cache    Cache
	index    Index
	cacheTTL time.Duration
	log      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCacheTTL overrides the product cache TTL.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates the catalog service. The cache and index are
// optional: a nil cache disables read-through caching and a nil index
// disables search.
func NewService(repo Repository, cache Cache, index Index, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		cache:    cache,
		index:    index,
		cacheTTL: defaultCacheTTL,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches a product, serving from cache when possible. Cache
// failures degrade to the repository rather than failing the read.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, id); err == nil {
			var p Product
			if err := json.Unmarshal(raw, &p); err == nil {
				return &p, nil
			}
			// Corrupt entry: drop it and fall through to the repository.
			_ = s.cache.Delete(ctx, id)
		} else if !errors.Is(err, shopredis.ErrCacheMiss) {
			s.log.WarnContext(ctx, "product cache read failed", slog.Any("error", err))
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shopmongo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(ctx, id, raw, s.cacheTTL); err != nil {
				s.log.WarnContext(ctx, "product cache write failed", slog.Any("error", err))
			}
		}
	}
	return p, nil
}

// List returns products with limit/offset pagination.
func (s *Service) List(ctx context.Context, limit, offset int64) ([]Product, error) {
	return s.repo.Find(ctx, nil, limit, offset)
}

// Count returns the number of products the ambient tenant owns.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, nil)
}

// Save validates and persists the product, refreshes the search index
// and invalidates the cached copy. A save targeting an id owned by
// another tenant reports ErrProductNotFound.
func (s *Service) Save(ctx context.Context, p *Product) error {
	if err := validate(p); err != nil {
		return err
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.repo.Save(ctx, p.ID, p); err != nil {
		if errors.Is(err, shopmongo.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, p.ID); err != nil {
			s.log.WarnContext(ctx, "product cache invalidation failed",
				slog.String("id", p.ID), slog.Any("error", err))
		}
	}

	if s.index != nil {
		if err := s.index.Index(ctx, p.ID, p.searchDocument()); err != nil {
			// The store write already succeeded; search lags until the
			// next save rather than failing the request.
			s.log.ErrorContext(ctx, "product index update failed",
				slog.String("id", p.ID), slog.Any("error", err))
		}
	}
	return nil
}

// Delete removes the product from store, cache and index.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shopmongo.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.WarnContext(ctx, "product cache invalidation failed",
				slog.String("id", id), slog.Any("error", err))
		}
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil && !errors.Is(err, shopsearch.ErrDocumentNotFound) {
			s.log.ErrorContext(ctx, "product index delete failed",
				slog.String("id", id), slog.Any("error", err))
		}
	}
	return nil
}

// Search runs a full-text match over name and description within the
// ambient tenant.
func (s *Service) Search(ctx context.Context, term string, size, from int) (*shopsearch.SearchResult, error) {
	if s.index == nil {
		return nil, ErrSearchUnavailable
	}

	var query map[string]any
	if term != "" {
		query = map[string]any{
			"multi_match": map[string]any{
				"query":  term,
				"fields": []string{"name^2", "description", "sku"},
			},
		}
	}
	return s.index.Search(ctx, query, size, from)
}

// LowStock returns products at or below the given stock threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	return s.repo.Find(ctx, bson.D{
		{Key: "stock", Value: bson.D{{Key: "$lte", Value: threshold}}},
	}, 0, 0)
}

func validate(p *Product) error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.SKU) == "" {
		return ErrInvalidProduct
	}
	if p.PriceCents < 0 || p.Stock < 0 {
		return ErrInvalidProduct
	}
	return nil
}

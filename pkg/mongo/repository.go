package mongo

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

// TenantKeyField is the document field every scoped entity persists its
// tenant key under. Compound indexes lead with it so tenant-scoped
// queries stay index-covered (see EnsureTenantIndexes).
const TenantKeyField = "tenant_key"

// ScopedEntity constrains repository type parameters to pointer types
// that carry the mandatory tenant key field.
type ScopedEntity[T any] interface {
	*T
	tenant.Entity
}

// Repository is a tenant-scoped generic repository over a MongoDB
// collection. Every query predicate it generates includes the ambient
// tenant key as a conjunct and every write stamps the key before
// persisting, so an unscoped query cannot be expressed through this type.
// Operations fail closed with tenant.ErrNoTenantInContext before any
// driver call when the context carries no tenant.
//
// An id that exists under a different tenant is reported as ErrNotFound,
// identically to an id that does not exist at all, so existence never
// leaks across tenants.
type Repository[T any, PT ScopedEntity[T]] struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*repositoryConfig)

type repositoryConfig struct {
	log *slog.Logger
}

// WithRepositoryLogger sets the logger used for integrity violation events.
func WithRepositoryLogger(log *slog.Logger) RepositoryOption {
	return func(c *repositoryConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// NewRepository creates a scoped repository over the collection.
func NewRepository[T any, PT ScopedEntity[T]](coll *mongo.Collection, opts ...RepositoryOption) *Repository[T, PT] {
	cfg := &repositoryConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Repository[T, PT]{coll: coll, log: cfg.log}
}

// scopedFilter conjoins the ambient tenant key with the caller's
// predicate. This is the single place query scoping happens; every read
// and write below goes through it.
func scopedFilter(ctx context.Context, extra bson.D) (bson.D, error) {
	key, ok := tenant.KeyFromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantInContext
	}
	filter := bson.D{{Key: TenantKeyField, Value: key}}
	return append(filter, extra...), nil
}

// FindByID fetches a single entity by id within the ambient tenant.
func (r *Repository[T, PT]) FindByID(ctx context.Context, id string) (PT, error) {
	filter, err := scopedFilter(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, err
	}

	var doc T
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Find returns entities matching the caller's predicate within the
// ambient tenant, with limit/offset pagination.
func (r *Repository[T, PT]) Find(ctx context.Context, match bson.D, limit, offset int64) ([]T, error) {
	filter, err := scopedFilter(ctx, match)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if limit > 0 {
		findOpts.SetLimit(limit)
	}
	if offset > 0 {
		findOpts.SetSkip(offset)
	}

	cursor, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of matching entities within the ambient tenant.
func (r *Repository[T, PT]) Count(ctx context.Context, match bson.D) (int64, error) {
	filter, err := scopedFilter(ctx, match)
	if err != nil {
		return 0, err
	}
	return r.coll.CountDocuments(ctx, filter)
}

// Save upserts the entity under the given id. New entities are stamped
// with the ambient tenant key; entities already stamped for a different
// tenant abort the write with tenant.ErrTenantMismatch before the driver
// is touched, and the violation is logged at error level because it
// indicates a bug upstream, not user error.
func (r *Repository[T, PT]) Save(ctx context.Context, id string, entity PT) error {
	if err := tenant.VerifyIntegrity(ctx, entity); err != nil {
		if errors.Is(err, tenant.ErrTenantMismatch) {
			r.log.ErrorContext(ctx, "tenant integrity violation on save",
				slog.String("collection", r.coll.Name()),
				slog.String("entity_tenant", entity.TenantKey()),
				slog.String("id", id))
		}
		return err
	}
	if err := tenant.Stamp(ctx, entity); err != nil {
		return err
	}

	filter, err := scopedFilter(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}

	_, err = r.coll.ReplaceOne(ctx, filter, entity, options.Replace().SetUpsert(true))
	if err != nil {
		// The scoped upsert missed and the insert collided on _id: the id
		// exists under another tenant. Report not-found, same as any
		// other id this tenant does not own.
		if mongo.IsDuplicateKeyError(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the entity by id within the ambient tenant. Deleting an
// id owned by another tenant reports ErrNotFound.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	filter, err := scopedFilter(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

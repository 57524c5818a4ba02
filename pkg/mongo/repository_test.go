package mongo

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

type testDoc struct {
	tenant.Scoped `bson:",inline"`
	ID            string `bson:"_id"`
	Name          string `bson:"name"`
}

func scopedCtx(key string) context.Context {
	return tenant.WithTenant(context.Background(), &tenant.Tenant{Key: key, Subdomain: key, Active: true})
}

// testCollection returns a collection handle without any network I/O;
// the driver connects lazily on first operation.
func testCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("shopkit_test").Collection("docs")
}

func TestScopedFilter(t *testing.T) {
	t.Parallel()

	t.Run("conjoins tenant key with caller predicate", func(t *testing.T) {
		t.Parallel()

		filter, err := scopedFilter(scopedCtx("T1"), bson.D{{Key: "_id", Value: "p1"}})
		require.NoError(t, err)

		assert.Equal(t, bson.D{
			{Key: TenantKeyField, Value: "T1"},
			{Key: "_id", Value: "p1"},
		}, filter)
	})

	t.Run("tenant key leads even with empty predicate", func(t *testing.T) {
		t.Parallel()

		filter, err := scopedFilter(scopedCtx("T1"), nil)
		require.NoError(t, err)
		assert.Equal(t, bson.D{{Key: TenantKeyField, Value: "T1"}}, filter)
	})

	t.Run("fails closed without tenant", func(t *testing.T) {
		t.Parallel()

		_, err := scopedFilter(context.Background(), bson.D{{Key: "_id", Value: "p1"}})
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})
}

func TestRepository_FailClosed(t *testing.T) {
	t.Parallel()

	// A nil collection proves no driver call is made: any store
	// interaction would panic.
	repo := NewRepository[testDoc]((*mongo.Collection)(nil))
	ctx := context.Background()

	t.Run("find by id", func(t *testing.T) {
		t.Parallel()

		_, err := repo.FindByID(ctx, "p1")
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})

	t.Run("find", func(t *testing.T) {
		t.Parallel()

		_, err := repo.Find(ctx, nil, 10, 0)
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})

	t.Run("count", func(t *testing.T) {
		t.Parallel()

		_, err := repo.Count(ctx, nil)
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})

	t.Run("save", func(t *testing.T) {
		t.Parallel()

		err := repo.Save(ctx, "p1", &testDoc{ID: "p1"})
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		err := repo.Delete(ctx, "p1")
		assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	})
}

func TestRepository_IntegrityGuard(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewRepository[testDoc](testCollection(t), WithRepositoryLogger(log))

	t.Run("save aborts on cross-tenant entity", func(t *testing.T) {
		t.Parallel()

		doc := &testDoc{ID: "p1", Name: "widget"}
		doc.StampTenant("T1")

		err := repo.Save(scopedCtx("T2"), "p1", doc)
		assert.ErrorIs(t, err, tenant.ErrTenantMismatch)
		assert.Equal(t, "T1", doc.TenantKey(), "guard must not restamp the entity")
	})
}

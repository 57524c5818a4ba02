package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// EnsureTenantIndexes creates the collection's tenant-scoped indexes: a
// base index on the tenant key plus one compound index per given field,
// each with the tenant key as the leading component. Queries issued by
// Repository always filter on the tenant key first, so leading with it
// keeps every scoped query index-covered.
func EnsureTenantIndexes(ctx context.Context, coll *mongo.Collection, fields ...string) error {
	models := make([]mongo.IndexModel, 0, len(fields)+1)
	models = append(models, mongo.IndexModel{
		Keys: bson.D{{Key: TenantKeyField, Value: 1}},
	})
	for _, field := range fields {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{
				{Key: TenantKeyField, Value: 1},
				{Key: field, Value: 1},
			},
		})
	}

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure tenant indexes on %s: %w", coll.Name(), err)
	}
	return nil
}

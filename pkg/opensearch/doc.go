// Package opensearch provides OpenSearch connection management and the
// tenant-scoped search index adapter.
//
// ScopedIndex is the only search surface business code sees. Indexed
// documents are stamped with the ambient tenant key, every query is
// wrapped in a filter clause on that key, and the key doubles as the
// routing value so queries touch only the owning tenant's shard. A
// request without a resolved tenant cannot reach the cluster at all.
//
// # Usage
//
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	products := opensearch.NewScopedIndex(client, "products")
//
//	res, err := products.Search(ctx, map[string]any{
//		"match": map[string]any{"name": "espresso"},
//	}, 20, 0)
package opensearch

package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

// TenantKeyField is the document field carrying the tenant key in every
// indexed document. It doubles as the routing value so one tenant's
// shard segments are not scanned to answer another tenant's query.
const TenantKeyField = "tenant_key"

// ScopedIndex is a tenant-scoped adapter over one OpenSearch index.
// Every indexed document is stamped with the ambient tenant key, every
// search is wrapped in a filter clause on that key, and the key is used
// as the routing hint on reads and writes. Operations fail closed with
// tenant.ErrNoTenantInContext before any network call when the context
// carries no tenant.
type ScopedIndex struct {
	client *opensearch.Client
	index  string
	log    *slog.Logger
}

// ScopedIndexOption configures a ScopedIndex.
type ScopedIndexOption func(*ScopedIndex)

// WithIndexLogger sets the logger used for integrity violation events.
func WithIndexLogger(log *slog.Logger) ScopedIndexOption {
	return func(i *ScopedIndex) {
		if log != nil {
			i.log = log
		}
	}
}

// NewScopedIndex creates a scoped adapter over the named index.
func NewScopedIndex(client *opensearch.Client, index string, opts ...ScopedIndexOption) *ScopedIndex {
	i := &ScopedIndex{client: client, index: index, log: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Hit is a single search result.
type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// SearchResult holds the tenant-scoped portion of a search response.
type SearchResult struct {
	Total int64
	Hits  []Hit
}

// Index stores the document under the given id, stamped with the
// ambient tenant key. A document that already carries a different tenant
// key aborts with tenant.ErrTenantMismatch before the request is sent.
func (i *ScopedIndex) Index(ctx context.Context, id string, doc map[string]any) error {
	key, ok := tenant.KeyFromContext(ctx)
	if !ok {
		return tenant.ErrNoTenantInContext
	}

	if embedded, exists := doc[TenantKeyField]; exists && embedded != key {
		i.log.ErrorContext(ctx, "tenant integrity violation on index",
			slog.String("index", i.index),
			slog.String("id", id))
		return tenant.ErrTenantMismatch
	}

	stamped := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		stamped[k] = v
	}
	stamped[TenantKeyField] = key

	body, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := i.client.Index(i.index, bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(id),
		i.client.Index.WithRouting(key),
	)
	if err != nil {
		return errors.Join(ErrIndexRequestFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexRequestFailed, res.Status())
	}
	return nil
}

// Search runs the caller's query wrapped in a mandatory filter on the
// ambient tenant key. Callers cannot widen the scope: whatever query
// they pass becomes the must-clause of a bool query whose filter clause
// is the tenant term.
func (i *ScopedIndex) Search(ctx context.Context, query map[string]any, size, from int) (*SearchResult, error) {
	key, ok := tenant.KeyFromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantInContext
	}

	body, err := json.Marshal(scopedQuery(key, query, size, from))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
		i.client.Search.WithRouting(key),
	)
	if err != nil {
		return nil, errors.Join(ErrSearchRequestFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchRequestFailed, res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []Hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &SearchResult{
		Total: parsed.Hits.Total.Value,
		Hits:  parsed.Hits.Hits,
	}, nil
}

// Delete removes the document by id within the ambient tenant. Routing
// narrows the shard but does not constrain ownership, so the document's
// tenant stamp is verified before the delete is issued; an id owned by
// another tenant reports ErrDocumentNotFound, same as an absent one.
func (i *ScopedIndex) Delete(ctx context.Context, id string) error {
	key, ok := tenant.KeyFromContext(ctx)
	if !ok {
		return tenant.ErrNoTenantInContext
	}

	owner, err := i.documentOwner(ctx, id, key)
	if err != nil {
		return err
	}
	if owner != key {
		return ErrDocumentNotFound
	}

	res, err := i.client.Delete(i.index, id,
		i.client.Delete.WithContext(ctx),
		i.client.Delete.WithRouting(key),
	)
	if err != nil {
		return errors.Join(ErrDeleteRequestFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrDocumentNotFound
	}
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrDeleteRequestFailed, res.Status())
	}
	return nil
}

// documentOwner fetches the tenant stamp of the stored document.
func (i *ScopedIndex) documentOwner(ctx context.Context, id, routing string) (string, error) {
	res, err := i.client.Get(i.index, id,
		i.client.Get.WithContext(ctx),
		i.client.Get.WithRouting(routing),
		i.client.Get.WithSourceIncludes(TenantKeyField),
	)
	if err != nil {
		return "", errors.Join(ErrDeleteRequestFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return "", ErrDocumentNotFound
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: %s", ErrDeleteRequestFailed, res.Status())
	}

	var parsed struct {
		Source map[string]any `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode get response: %w", err)
	}
	owner, _ := parsed.Source[TenantKeyField].(string)
	return owner, nil
}

// scopedQuery wraps the caller's query in a bool query whose filter
// clause pins the tenant key. A nil query matches everything within the
// tenant.
func scopedQuery(tenantKey string, query map[string]any, size, from int) map[string]any {
	boolQuery := map[string]any{
		"filter": []any{
			map[string]any{
				"term": map[string]any{TenantKeyField: tenantKey},
			},
		},
	}
	if query != nil {
		boolQuery["must"] = []any{query}
	}

	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
	}
	if size > 0 {
		body["size"] = size
	}
	if from > 0 {
		body["from"] = from
	}
	return body
}

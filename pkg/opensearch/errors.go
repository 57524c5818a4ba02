package opensearch

import "errors"

var (
	// ErrConnectionFailed indicates the OpenSearch client could not be created
	// due to configuration or network issues. Use errors.Is() to check.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	// Returned by both New() during initialization and Healthcheck() during monitoring.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")

	ErrIndexRequestFailed  = errors.New("opensearch index request failed")
	ErrSearchRequestFailed = errors.New("opensearch search request failed")
	ErrDeleteRequestFailed = errors.New("opensearch delete request failed")

	// ErrDocumentNotFound is returned when a delete targets an id absent
	// from the ambient tenant's routing.
	ErrDocumentNotFound = errors.New("document not found")
)

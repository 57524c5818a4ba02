package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")

	// ErrNotFound is returned when no document matches the id within the
	// ambient tenant. Ids owned by other tenants produce the same error.
	ErrNotFound = errors.New("document not found")
)

// Package requestid issues and propagates request correlation ids.
//
// Middleware reuses a valid client-supplied X-Request-ID or mints a
// UUID, stores it in the request context, and echoes it on the
// response. WithContext and FromContext move the id through the call
// tree, and LoggerExtractor feeds it to the logger so every log line
// of a request carries the same id.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
package requestid

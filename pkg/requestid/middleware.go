package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	// Header is the canonical request id header.
	Header = "X-Request-ID"

	maxIDLength = 128
)

// Middleware attaches a correlation id to every request. A valid
// client-supplied id is reused so traces span service hops; anything
// else is replaced with a fresh UUID. The chosen id lands in the
// request context and is echoed on the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !validID(id) {
			id = uuid.New().String()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

// validID accepts 1 to 128 bytes of [A-Za-z0-9_-]. Ids carrying any
// other byte never reach the logs.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

package tenant

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const (
	// MaxIdentifierLength caps identifier size for DNS compatibility and to
	// reject abusive inputs before they reach the directory.
	MaxIdentifierLength = 63
	MinIdentifierLength = 1
)

// identifierPattern ensures DNS-safe identifiers: alphanumeric start, hyphens allowed.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// DefaultReservedLabels are subdomain labels that never resolve to a
// tenant: the shared infrastructure endpoints of the platform itself.
var DefaultReservedLabels = []string{"www", "api", "admin"}

// Resolver extracts a candidate tenant identifier from an HTTP request.
// Returns empty string if the request carries no identifier; resolvers
// never guess a default tenant. Returns an error only when an identifier
// is present but malformed.
type Resolver func(r *http.Request) (string, error)

func isValidIdentifier(id string) bool {
	if len(id) < MinIdentifierLength || len(id) > MaxIdentifierLength {
		return false
	}
	return identifierPattern.MatchString(id)
}

// NewSubdomainResolver extracts the tenant identifier from the leading
// host label, optionally stripping a configured suffix first (e.g.
// ".retail.example.com"). Hosts with fewer than three labels carry no
// subdomain and resolve to nothing, as do hosts whose leading label is
// reserved. Pass reserved labels to override DefaultReservedLabels.
func NewSubdomainResolver(suffix string, reserved ...string) Resolver {
	if len(reserved) == 0 {
		reserved = DefaultReservedLabels
	}
	reservedSet := make(map[string]struct{}, len(reserved))
	for _, label := range reserved {
		reservedSet[strings.ToLower(label)] = struct{}{}
	}

	return func(req *http.Request) (string, error) {
		host := req.Host

		// Remove port if present
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}

		// A bare domain.tld or single-label host has no subdomain.
		if len(strings.Split(host, ".")) < 3 {
			return "", nil
		}

		if suffix != "" && strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			host = host[:len(host)-len(suffix)]
		}

		parts := strings.Split(host, ".")
		if len(parts) == 0 || parts[0] == "" {
			return "", nil
		}

		candidate := NormalizeAlias(parts[0])
		if _, ok := reservedSet[candidate]; ok {
			return "", nil
		}

		if !isValidIdentifier(candidate) {
			return "", fmt.Errorf("%w: subdomain %q", ErrInvalidIdentifier, candidate)
		}
		return candidate, nil
	}
}

// domainPattern validates a full host used as a custom domain alias.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9.-]*[a-z0-9])?$`)

// NewCustomDomainResolver yields the full normalized request host as the
// candidate identifier when the host is outside the platform's own
// domain. Hosts ending in the platform suffix belong to the subdomain
// strategy and yield nothing here; compose both with
// NewCompositeResolver so vanity domains and platform subdomains resolve
// side by side.
func NewCustomDomainResolver(platformSuffix string) Resolver {
	platformSuffix = NormalizeAlias(platformSuffix)

	return func(req *http.Request) (string, error) {
		host := req.Host
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}

		host = NormalizeAlias(host)
		if host == "" {
			return "", nil
		}
		if platformSuffix != "" && (host == platformSuffix || strings.HasSuffix(host, "."+platformSuffix)) {
			return "", nil
		}

		if len(host) > 253 || !domainPattern.MatchString(host) {
			return "", fmt.Errorf("%w: host %q", ErrInvalidIdentifier, host)
		}
		return host, nil
	}
}

// NewPathResolver extracts the tenant identifier from the URL path
// segment at the 1-based position. Position 1 extracts from
// /{tenant}/products, position 2 from /stores/{tenant}/products.
func NewPathResolver(position int) Resolver {
	return func(req *http.Request) (string, error) {
		if position < 1 {
			return "", fmt.Errorf("invalid path position: %d", position)
		}

		path := strings.TrimPrefix(req.URL.Path, "/")
		path = strings.TrimSuffix(path, "/")
		if path == "" {
			return "", nil
		}

		parts := strings.Split(path, "/")
		if position > len(parts) || parts[position-1] == "" {
			return "", nil
		}

		candidate := NormalizeAlias(parts[position-1])
		if !isValidIdentifier(candidate) {
			return "", fmt.Errorf("%w: path segment %q", ErrInvalidIdentifier, candidate)
		}
		return candidate, nil
	}
}

// NewHeaderResolver extracts the tenant identifier from an explicit
// override header, intended for administrative tooling and tests. The
// override is honored only when authorize approves the request; for
// unauthorized callers the resolver yields nothing so the configured
// primary strategy still applies. A nil authorize disables the override
// entirely rather than opening it to every caller. Defaults to
// "X-Tenant-ID" if headerName is empty.
func NewHeaderResolver(headerName string, authorize func(r *http.Request) bool) Resolver {
	if headerName == "" {
		headerName = "X-Tenant-ID"
	}

	return func(req *http.Request) (string, error) {
		value := req.Header.Get(headerName)
		if value == "" {
			return "", nil
		}
		if authorize == nil || !authorize(req) {
			return "", nil
		}

		candidate := NormalizeAlias(value)
		if !isValidIdentifier(candidate) {
			return "", fmt.Errorf("%w: header value %q", ErrInvalidIdentifier, candidate)
		}
		return candidate, nil
	}
}

// NewCompositeResolver tries resolvers in order, returning the first
// non-empty result. Use it to place an authorized override header in
// front of the deployment's primary strategy; exactly one primary
// strategy (subdomain or path) should be configured per deployment.
func NewCompositeResolver(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (string, error) {
		var errs []error

		for _, resolve := range resolvers {
			id, err := resolve(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if id != "" {
				return id, nil
			}
		}

		if len(errs) > 0 {
			return "", fmt.Errorf("composite resolver: %w", errors.Join(errs...))
		}
		return "", nil
	}
}

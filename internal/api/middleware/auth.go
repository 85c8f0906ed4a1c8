package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/simsearch/internal/api"
	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/getsentry/sentry-go"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// PrincipalIDHeader carries the resolved principal id to outer middleware.
const PrincipalIDHeader = "X-Principal-ID"

// PrincipalResolver turns the trusted upstream identity into a Principal.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, raw string) (domain.Principal, error)
}

// PrincipalAuth requires an authenticated principal in the given header.
// The header is set by a trusted upstream proxy; this service does not
// authenticate credentials itself.
func PrincipalAuth(resolver PrincipalResolver, header string) func(http.Handler) http.Handler {
	if header == "" {
		header = "X-User-ID"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(header)
			if raw == "" {
				api.Error(w, http.StatusUnauthorized, "missing authenticated principal")
				return
			}

			p, err := resolver.ResolvePrincipal(r.Context(), raw)
			if err != nil {
				if api.DomainErrorToHTTP(err) == http.StatusUnauthorized {
					api.Error(w, http.StatusUnauthorized, "unknown or inactive principal")
					return
				}
				var domainErr *domain.DomainError
				if !errors.As(err, &domainErr) {
					sentry.CaptureException(err)
				}
				api.HandleError(w, err)
				return
			}

			id := strconv.FormatInt(p.ID, 10)
			r.Header.Set(PrincipalIDHeader, id)
			if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
				hub.Scope().SetTag("principal_id", id)
				hub.Scope().SetUser(sentry.User{ID: id, Username: p.Username})
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal returns the authenticated principal from context.
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(domain.Principal)
	return p, ok
}

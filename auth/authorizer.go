package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// Role is the coarse permission level attached to a principal. Identity and
// role management live outside this service; only the levels relevant to
// tournament operations are modeled here.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RolePlayer    Role = "player"
)

var (
	ErrUnauthenticated = errors.New("request carries no valid credentials")
	ErrUnknownRole     = errors.New("unknown role")
)

// Principal is the authenticated caller as resolved by the external
// identity provider.
type Principal struct {
	UserID int
	Role   Role
}

// Authorizer resolves the caller of an HTTP request. Implementations wrap
// whatever the deployment uses (a JWT verifier, a session store, a reverse
// proxy header); the engine only consumes the resolved principal.
type Authorizer interface {
	Authenticate(r *http.Request) (*Principal, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal stores the resolved principal on the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the principal stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// HeaderAuthorizer trusts identity headers set by an authenticating reverse
// proxy. Suitable when the service runs behind a gateway that terminates
// auth; anything else should implement Authorizer against its own verifier.
type HeaderAuthorizer struct {
	UserIDHeader string
	RoleHeader   string
}

func NewHeaderAuthorizer() *HeaderAuthorizer {
	return &HeaderAuthorizer{
		UserIDHeader: "X-User-ID",
		RoleHeader:   "X-User-Role",
	}
}

func (a *HeaderAuthorizer) Authenticate(r *http.Request) (*Principal, error) {
	userID := r.Header.Get(a.UserIDHeader)
	roleValue := r.Header.Get(a.RoleHeader)
	if userID == "" || roleValue == "" {
		return nil, ErrUnauthenticated
	}

	id, err := strconv.Atoi(userID)
	if err != nil || id <= 0 {
		return nil, ErrUnauthenticated
	}

	role := Role(roleValue)
	switch role {
	case RoleAdmin, RoleOrganizer, RolePlayer:
	default:
		return nil, ErrUnknownRole
	}
	return &Principal{UserID: id, Role: role}, nil
}

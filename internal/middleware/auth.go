package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/auth"
	"therapath-portal/internal/model"
	"therapath-portal/internal/session"
)

var ErrBadToken = errors.New("bad token")

// Authenticator turns a bearer token into the live session behind it. The
// token only names the session; the stored record decides whether it is
// still valid, so logging out kills every copy of the token.
type Authenticator struct {
	sessions *session.Manager
	secret   string
}

func NewAuthenticator(sessions *session.Manager, secret string) *Authenticator {
	return &Authenticator{sessions: sessions, secret: secret}
}

func (a *Authenticator) Authenticate(ctx context.Context, raw string) (model.Session, error) {
	claims, err := auth.ParseToken(raw, a.secret)
	if err != nil {
		return model.Session{}, ErrBadToken
	}
	s, err := a.sessions.Restore(ctx, claims.SessionID)
	if err != nil {
		return model.Session{}, err
	}
	if s.User.ID != claims.UserID {
		return model.Session{}, ErrBadToken
	}
	return s, nil
}

// skip auth for these; a valid token is still honoured
var open = map[string]bool{
	api.FullMethod("Register"):          true,
	api.FullMethod("Login"):             true,
	api.FullMethod("ResolveRoute"):      true,
	api.FullMethod("ListAnnouncements"): true,
	api.FullMethod("ListCounselors"):    true,
}

func bearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	// token from Authorization: Bearer <jwt>
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(vals[0], "Bearer "))
}

func Auth(a *Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		raw := bearer(ctx)
		if open[info.FullMethod] {
			if raw != "" {
				if s, err := a.Authenticate(ctx, raw); err == nil {
					ctx = session.WithSession(ctx, s)
				}
			}
			return next(ctx, req)
		}

		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}
		s, err := a.Authenticate(ctx, raw)
		switch {
		case errors.Is(err, model.ErrNoSession):
			return nil, status.Error(codes.Unauthenticated, "session expired")
		case errors.Is(err, ErrBadToken):
			return nil, status.Error(codes.Unauthenticated, "bad token")
		case err != nil:
			return nil, status.Error(codes.Internal, "internal error")
		}
		return next(session.WithSession(ctx, s), req)
	}
}

package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/auth"
	"therapath-portal/internal/model"
	"therapath-portal/internal/route"
	"therapath-portal/internal/session"
)

func (h *Handler) issue(ctx context.Context, s model.Session) (*api.SessionResponse, error) {
	tok, err := auth.MakeToken(s.ID, s.User.ID, string(s.User.Role), h.secret, h.sessions.TTL())
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.SessionResponse{Token: tok, User: s.User}, nil
}

func (h *Handler) Register(ctx context.Context, req *model.RegisterForm) (*api.SessionResponse, error) {
	s, err := h.sessions.Register(ctx, *req)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	h.metrics.RecordRegistration()
	return h.issue(ctx, s)
}

func (h *Handler) Login(ctx context.Context, req *model.LoginForm) (*api.SessionResponse, error) {
	s, err := h.sessions.Login(ctx, req.Email, req.Password)
	h.metrics.RecordLogin(err == nil)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return h.issue(ctx, s)
}

func (h *Handler) Logout(ctx context.Context, _ *api.Empty) (*api.Empty, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.sessions.Logout(ctx, s.ID); err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.Empty{}, nil
}

func (h *Handler) Me(ctx context.Context, _ *api.Empty) (*model.Profile, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return &s.User, nil
}

// ResolveRoute is open to everyone; a caller without a session resolves as
// a guest.
func (h *Handler) ResolveRoute(ctx context.Context, req *api.RouteRequest) (*route.Decision, error) {
	if req.Path == "" {
		return nil, status.Error(codes.InvalidArgument, "path required")
	}
	var sp *model.Session
	if s, ok := session.FromContext(ctx); ok {
		sp = &s
	}
	d := route.Resolve(req.Path, sp)
	return &d, nil
}

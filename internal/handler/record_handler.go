package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/model"
	"therapath-portal/internal/service"
)

func (h *Handler) ListClientRecords(ctx context.Context, req *api.RecordQuery) (*api.RecordList, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.svc.Records.List(ctx, s, service.RecordFilter{Search: req.Search, Status: req.Status})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.RecordList{Records: list}, nil
}

func (h *Handler) CreateClientRecord(ctx context.Context, req *model.ClientRecordForm) (*api.RecordCreated, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	rec, fu, err := h.svc.Records.Create(ctx, s, *req)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.RecordCreated{Record: rec, FollowUp: fu}, nil
}

func (h *Handler) ListFollowUps(ctx context.Context, req *api.FollowUpQuery) (*api.FollowUpList, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.svc.FollowUps.List(ctx, s, req.Priority)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.FollowUpList{FollowUps: list}, nil
}

func (h *Handler) CompleteFollowUp(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.svc.FollowUps.Complete(ctx, s, req.ID); err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.Empty{}, nil
}

func (h *Handler) ListCounselors(ctx context.Context, _ *api.Empty) (*api.CounselorList, error) {
	list, err := h.svc.Counselors.List(ctx)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.CounselorList{Counselors: list}, nil
}

func (h *Handler) GetUserDashboard(ctx context.Context, _ *api.Empty) (*service.UserStats, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	st, err := h.svc.Dashboard.User(ctx, s)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &st, nil
}

func (h *Handler) GetAdminDashboard(ctx context.Context, _ *api.Empty) (*service.AdminStats, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	st, err := h.svc.Dashboard.Admin(ctx, s)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &st, nil
}

package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/model"
)

func (h *Handler) ListAnnouncements(ctx context.Context, req *api.AnnouncementQuery) (*api.AnnouncementList, error) {
	list, err := h.svc.Announcements.Active(ctx, req.Category)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	cats, err := h.svc.Announcements.Categories(ctx)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AnnouncementList{Announcements: list, Categories: cats}, nil
}

func (h *Handler) ListAllAnnouncements(ctx context.Context, _ *api.Empty) (*api.AdminAnnouncementList, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	active, expired, err := h.svc.Announcements.All(ctx, s)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AdminAnnouncementList{Active: active, Expired: expired}, nil
}

func (h *Handler) CreateAnnouncement(ctx context.Context, req *model.AnnouncementForm) (*api.AnnouncementResponse, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	ann, err := h.svc.Announcements.Create(ctx, s, *req)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AnnouncementResponse{Announcement: ann}, nil
}

func (h *Handler) UpdateAnnouncement(ctx context.Context, req *api.AnnouncementUpdate) (*api.AnnouncementResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	ann, err := h.svc.Announcements.Update(ctx, s, req.ID, req.AnnouncementForm)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AnnouncementResponse{Announcement: ann}, nil
}

func (h *Handler) DeleteAnnouncement(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Announcements.Delete(ctx, s, req.ID); err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.Empty{}, nil
}

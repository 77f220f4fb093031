package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
)

func (h *Handler) ListNotifications(ctx context.Context, req *api.NotificationQuery) (*api.NotificationList, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, unread, err := h.svc.Notifications.List(ctx, s, req.Filter)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.NotificationList{Notifications: list, Unread: unread}, nil
}

func (h *Handler) MarkNotificationRead(ctx context.Context, req *api.IDRequest) (*api.NotificationResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Notifications.MarkRead(ctx, s, req.ID)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.NotificationResponse{Notification: n}, nil
}

func (h *Handler) MarkAllNotificationsRead(ctx context.Context, _ *api.Empty) (*api.CountResponse, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Notifications.MarkAllRead(ctx, s)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.CountResponse{Count: n}, nil
}

func (h *Handler) DeleteNotification(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Notifications.Delete(ctx, s, req.ID); err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.Empty{}, nil
}

package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/service"
)

func (h *Handler) SubmitInquiry(ctx context.Context, req *service.InquiryInput) (*api.InquiryResponse, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	inq, err := h.svc.Inquiries.Submit(ctx, s, *req)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.InquiryResponse{Inquiry: inq}, nil
}

func (h *Handler) ListInquiries(ctx context.Context, req *api.InquiryQuery) (*api.InquiryList, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.svc.Inquiries.All(ctx, s, req.Status)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.InquiryList{Inquiries: list}, nil
}

func (h *Handler) RespondInquiry(ctx context.Context, req *api.RespondRequest) (*api.InquiryResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	inq, err := h.svc.Inquiries.Respond(ctx, s, req.ID, req.Response)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.InquiryResponse{Inquiry: inq}, nil
}

func (h *Handler) GetChatHistory(ctx context.Context, _ *api.Empty) (*api.ChatHistory, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := h.svc.Chat.History(ctx, s)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.ChatHistory{Messages: msgs}, nil
}

func (h *Handler) SendChatMessage(ctx context.Context, req *api.ChatSendRequest) (*api.ChatSendResponse, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	sent, reply, err := h.svc.Chat.Send(ctx, s, req.Subject, req.Text)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.ChatSendResponse{Sent: sent, Reply: reply}, nil
}

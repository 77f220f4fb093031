package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/model"
	"therapath-portal/internal/service"
)

func (h *Handler) BookAppointment(ctx context.Context, req *model.AppointmentForm) (*api.AppointmentResponse, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := h.svc.Appointments.Book(ctx, s, *req)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AppointmentResponse{Appointment: apt}, nil
}

func (h *Handler) ListMyAppointments(ctx context.Context, req *api.AppointmentQuery) (*api.AppointmentList, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.svc.Appointments.Mine(ctx, s, service.AppointmentFilter{Search: req.Search, Status: req.Status})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AppointmentList{Appointments: list}, nil
}

func (h *Handler) ListAppointments(ctx context.Context, req *api.AppointmentQuery) (*api.AppointmentList, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.svc.Appointments.All(ctx, s, service.AppointmentFilter{Search: req.Search, Status: req.Status})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AppointmentList{Appointments: list}, nil
}

func (h *Handler) UpdateAppointmentStatus(ctx context.Context, req *api.StatusRequest) (*api.AppointmentResponse, error) {
	if req.ID == "" || req.Status == "" {
		return nil, status.Error(codes.InvalidArgument, "id and status required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := h.svc.Appointments.SetStatus(ctx, s, req.ID, req.Status)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AppointmentResponse{Appointment: apt}, nil
}

func (h *Handler) CancelAppointment(ctx context.Context, req *api.IDRequest) (*api.AppointmentResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := h.svc.Appointments.Cancel(ctx, s, req.ID)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.AppointmentResponse{Appointment: apt}, nil
}

func (h *Handler) GetCalendar(ctx context.Context, req *api.CalendarRequest) (*api.CalendarResponse, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	days, err := h.svc.Appointments.Calendar(ctx, s, req.Year, req.Month)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &api.CalendarResponse{Days: days}, nil
}

func (h *Handler) GetAvailableSlots(ctx context.Context, req *api.SlotsRequest) (*api.SlotsResponse, error) {
	s, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	open, err := h.svc.Appointments.Slots(ctx, s, req.Date)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	out := &api.SlotsResponse{Types: model.AppointmentTypes}
	for _, slot := range model.TimeSlots {
		out.Slots = append(out.Slots, api.Slot{Time: slot, Available: open[slot]})
	}
	return out, nil
}

package handler

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/metrics"
	"therapath-portal/internal/model"
	"therapath-portal/internal/service"
	"therapath-portal/internal/session"
)

type Handler struct {
	sessions *session.Manager
	svc      *service.Services
	metrics  metrics.Recorder
	secret   string
	log      *zap.Logger
}

var _ api.PortalServer = (*Handler)(nil)

func New(sessions *session.Manager, svc *service.Services, secret string, rec metrics.Recorder, log *zap.Logger) *Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: sessions, svc: svc, metrics: rec, secret: secret, log: log}
}

// caller returns the session the auth interceptor attached.
func caller(ctx context.Context) (model.Session, error) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return model.Session{}, status.Error(codes.Unauthenticated, "not signed in")
	}
	return s, nil
}

// fail turns a domain error into a gRPC status. Anything unrecognised is
// logged and reported as internal.
func (h *Handler) fail(ctx context.Context, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return invalid(verr)
	case errors.Is(err, model.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, model.ErrInvalidCredentials.Error())
	case errors.Is(err, model.ErrNoSession):
		return status.Error(codes.Unauthenticated, "session expired")
	case errors.Is(err, model.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, model.ErrEmailTaken.Error())
	case errors.Is(err, model.ErrSlotTaken):
		return status.Error(codes.AlreadyExists, model.ErrSlotTaken.Error())
	case errors.Is(err, model.ErrNotFound):
		// not owned looks the same as missing
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrForbidden):
		return status.Error(codes.PermissionDenied, "admin access required")
	case errors.Is(err, model.ErrBadTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	h.log.Error("request failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

// invalid reports every failing field as a BadRequest violation, sorted by
// field so the detail is stable.
func invalid(verr *model.ValidationError) error {
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	br := &errdetails.BadRequest{}
	for _, f := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       f,
			Description: verr.Fields[f],
		})
	}
	st, err := status.New(codes.InvalidArgument, "validation failed").WithDetails(br)
	if err != nil {
		return status.Error(codes.InvalidArgument, verr.Error())
	}
	return st.Err()
}

// FieldErrors extracts the field messages from an InvalidArgument status.
func FieldErrors(err error) map[string]string {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	out := map[string]string{}
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			for _, v := range br.GetFieldViolations() {
				out[v.GetField()] = v.GetDescription()
			}
		}
	}
	return out
}

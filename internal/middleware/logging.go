package middleware

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/metrics"
)

// Logging records every unary call: method, resulting code and duration.
func Logging(log *zap.Logger, rec metrics.Recorder) grpc.UnaryServerInterceptor {
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		d := time.Since(start)

		code := status.Code(err)
		method := path.Base(info.FullMethod)
		rec.RecordRPC(method, code.String(), d)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("code", code.String()),
			zap.Duration("duration", d),
			zap.String("ip", clientIP(ctx)),
		}
		if err != nil {
			log.Warn("rpc failed", append(fields, zap.String("error", status.Convert(err).Message()))...)
		} else {
			log.Info("rpc", fields...)
		}
		return resp, err
	}
}

// Recovery turns a panicking handler into an Internal error.
func Recovery(log *zap.Logger) grpc.UnaryServerInterceptor {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", zap.String("method", info.FullMethod), zap.Any("error", r))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return next(ctx, req)
	}
}

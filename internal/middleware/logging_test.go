package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"therapath-portal/internal/api"
	"therapath-portal/internal/metrics"
)

type rpcCall struct{ method, code string }

type recorder struct {
	metrics.Nop
	mu    sync.Mutex
	calls []rpcCall
}

func (r *recorder) RecordRPC(method, code string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, rpcCall{method, code})
}

func TestLoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := &recorder{}
	i := Logging(zap.New(core), rec)

	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Me")}
	_, err := i(context.Background(), nil, info, func(context.Context, any) (any, error) { return "ok", nil })
	require.NoError(t, err)
	_, err = i(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "not found")
	})
	require.Error(t, err)

	assert.Equal(t, []rpcCall{{"Me", "OK"}, {"Me", "NotFound"}}, rec.calls)
	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "not found", entries[1].ContextMap()["error"])
}

func TestRecoveryInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	i := Recovery(zap.New(core))

	_, err := i(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x"}, func(context.Context, any) (any, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

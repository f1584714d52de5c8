package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payshare/backend/internal/auth"
	"github.com/payshare/backend/internal/metrics"
	"github.com/payshare/backend/internal/models"
)

type ping struct{}

const testSecret = "0123456789abcdef0123456789abcdef"

func captureIdentity(gotUserID, gotEmail *string) connect.UnaryFunc {
	return func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		*gotUserID = GetUserID(ctx)
		*gotEmail = GetEmail(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func signedRequest(t *testing.T, jwtManager *auth.JWTManager, header string) *connect.Request[ping] {
	t.Helper()

	req := connect.NewRequest(&ping{})
	switch header {
	case "valid":
		token, _, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "you@example.com"})
		require.NoError(t, err)
		req.Header().Set("Authorization", "Bearer "+token)
	case "":
	default:
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)

	tests := []struct {
		name       string
		header     string
		wantUserID string
	}{
		{name: "valid token attaches identity", header: "valid", wantUserID: "user-1"},
		{name: "no header stays anonymous", header: ""},
		{name: "bad token stays anonymous", header: "Bearer nope"},
		{name: "wrong scheme stays anonymous", header: "Basic abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var userID, email string
			handler := OptionalAuth(jwtManager)(captureIdentity(&userID, &email))

			_, err := handler(context.Background(), signedRequest(t, jwtManager, tt.header))
			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, userID)
			if tt.wantUserID != "" {
				assert.Equal(t, "you@example.com", email)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)

	var userID, email string
	handler := RequireAuth(jwtManager)(captureIdentity(&userID, &email))

	_, err := handler(context.Background(), signedRequest(t, jwtManager, "valid"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	for _, header := range []string{"", "Bearer nope", "Token abc"} {
		_, err := handler(context.Background(), signedRequest(t, jwtManager, header))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err), "header %q", header)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ok := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&ping{}), nil
	}
	notFound := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("group missing"))
	}
	broken := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, errors.New("disk on fire")
	}

	ctx := WithIdentity(context.Background(), "user-1", "you@example.com")
	_, _ = LoggingInterceptor(logger)(ok)(ctx, connect.NewRequest(&ping{}))
	_, _ = LoggingInterceptor(logger)(notFound)(ctx, connect.NewRequest(&ping{}))
	_, _ = LoggingInterceptor(logger)(broken)(ctx, connect.NewRequest(&ping{}))

	out := buf.String()
	assert.Contains(t, out, `"level":"INFO","msg":"RPC ok"`)
	assert.Contains(t, out, `"level":"WARN","msg":"RPC error"`)
	assert.Contains(t, out, `"code":"not_found"`)
	assert.Contains(t, out, `"level":"ERROR","msg":"RPC error"`)
	assert.Contains(t, out, `"user_id":"user-1"`)
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New()

	ok := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&ping{}), nil
	}
	invalid := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
	}

	_, _ = MetricsInterceptor(m)(ok)(context.Background(), connect.NewRequest(&ping{}))
	_, _ = MetricsInterceptor(m)(ok)(context.Background(), connect.NewRequest(&ping{}))
	_, _ = MetricsInterceptor(m)(invalid)(context.Background(), connect.NewRequest(&ping{}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "invalid_argument")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCDuration))
}

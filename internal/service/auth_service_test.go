package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payshare/backend/internal/rpc"
)

func TestRegisterLoginAndCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	reg, err := ts.auth.Register(ctx, connect.NewRequest(&rpc.RegisterRequest{
		Email:       "Alex@Example.com",
		DisplayName: "Alex",
		Password:    "correct horse",
	}))
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", reg.Msg.User.Email)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.NotZero(t, reg.Msg.ExpiresAt)

	login, err := ts.auth.Login(ctx, connect.NewRequest(&rpc.LoginRequest{
		Email:    "alex@example.com",
		Password: "correct horse",
	}))
	require.NoError(t, err)
	assert.Equal(t, reg.Msg.User.ID, login.Msg.User.ID)

	req := connect.NewRequest(&rpc.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	me, err := ts.auth.GetCurrentUser(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Alex", me.Msg.User.DisplayName)
}

func TestRegister_Errors(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	_, err := ts.auth.Register(ctx, connect.NewRequest(&rpc.RegisterRequest{
		Email: "you@example.com", DisplayName: "You", Password: "long enough",
	}))
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      *rpc.RegisterRequest
		wantCode connect.Code
	}{
		{
			name:     "duplicate email",
			req:      &rpc.RegisterRequest{Email: "YOU@example.com", DisplayName: "Again", Password: "long enough"},
			wantCode: connect.CodeAlreadyExists,
		},
		{
			name:     "weak password",
			req:      &rpc.RegisterRequest{Email: "sam@example.com", DisplayName: "Sam", Password: "short"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "invalid email",
			req:      &rpc.RegisterRequest{Email: "", DisplayName: "Nobody", Password: "long enough"},
			wantCode: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.auth.Register(ctx, connect.NewRequest(tt.req))
			assert.Equal(t, tt.wantCode, connect.CodeOf(err))
		})
	}
}

func TestLogin_Errors(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	_, err := ts.auth.Register(ctx, connect.NewRequest(&rpc.RegisterRequest{
		Email: "you@example.com", DisplayName: "You", Password: "long enough",
	}))
	require.NoError(t, err)

	_, err = ts.auth.Login(ctx, connect.NewRequest(&rpc.LoginRequest{Email: "you@example.com", Password: "wrong password"}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = ts.auth.Login(ctx, connect.NewRequest(&rpc.LoginRequest{Email: "ghost@example.com", Password: "long enough"}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = ts.auth.Login(ctx, connect.NewRequest(&rpc.LoginRequest{Email: "you@example.com"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestGetCurrentUser_RequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	_, err := ts.auth.GetCurrentUser(context.Background(), connect.NewRequest(&rpc.GetCurrentUserRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	req := connect.NewRequest(&rpc.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer garbage")
	_, err = ts.auth.GetCurrentUser(context.Background(), req)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

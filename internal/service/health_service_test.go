package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.health.Check(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)

	fields := resp.Msg.GetFields()
	assert.Equal(t, "ok", fields["status"].GetStringValue())
	assert.Equal(t, "payshare", fields["service"].GetStringValue())
	assert.NotEmpty(t, fields["message"].GetStringValue())
}

func TestHealthCheck_DatabaseClosed(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.store.Close())

	resp, err := ts.health.Check(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, "degraded", resp.Msg.GetFields()["status"].GetStringValue())
}

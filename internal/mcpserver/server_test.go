package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, ctx context.Context, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() }) //nolint:errcheck // best-effort close in test
	return session
}

func toolNames(t *testing.T, ctx context.Context, session *mcp.ClientSession) map[string]bool {
	t.Helper()
	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	return names
}

func TestServer_ListsTools(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	names := toolNames(t, ctx, connect(t, ctx, New("v1.0.0-test")))
	assert.Len(t, names, 5)
	for _, n := range []string{"rank_buckets", "classify_trend", "bucket_priority", "resolve_range", "export_csv"} {
		assert.True(t, names[n], "should have %s tool", n)
	}
	assert.False(t, names["dashboard_snapshot"], "snapshot needs a source")
}

func TestServer_SnapshotToolWithSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	names := toolNames(t, ctx, connect(t, ctx, New("v1.0.0-test", WithSource(&fakeSource{}))))
	assert.Len(t, names, 6)
	assert.True(t, names["dashboard_snapshot"])
}

func TestServer_CallTool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := connect(t, ctx, New("v1.0.0-test"))

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "bucket_priority",
		Arguments: map[string]any{"score": 18},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), `"critical"`)
}

func TestRun_WithInMemoryTransport(t *testing.T) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, "v1.0.0-test", serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, result.Tools, 5)
}

package functional_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/mediastudio/internal/testserver"
	"github.com/stretchr/testify/require"
)

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

func connectHTTP(t *testing.T, ts *testserver.TestServer, token string) (*sdkmcp.ClientSession, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err == nil {
		t.Cleanup(func() { _ = session.Close() })
	}
	return session, err
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (json.RawMessage, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if args == nil {
		args = map[string]any{}
	}
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "tools/call %s failed", name)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content")
	return json.RawMessage(text.Text), res.IsError
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "token")

	_, err := connectHTTP(t, ts, "wrong")
	require.Error(t, err)

	session, err := connectHTTP(t, ts, "token")
	require.NoError(t, err)
	require.Equal(t, "mediastudio", session.InitializeResult().ServerInfo.Name)
}

func TestFunctional_ProjectAndGenerationWorkflow(t *testing.T) {
	ts := testserver.New(t, "token")
	session, err := connectHTTP(t, ts, "token")
	require.NoError(t, err)

	raw, isErr := callTool(t, session, "create_project", map[string]any{"name": "Storyboard", "description": "scenes"})
	require.False(t, isErr, string(raw))
	var proj struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(raw, &proj))
	require.Equal(t, "Storyboard", proj.Name)

	raw, isErr = callTool(t, session, "generate_image", map[string]any{"project_id": proj.ID, "prompt": "a lighthouse"})
	require.False(t, isErr, string(raw))

	raw, isErr = callTool(t, session, "generate_audio", map[string]any{"project_id": proj.ID, "text": "welcome"})
	require.False(t, isErr, string(raw))

	raw, isErr = callTool(t, session, "list_generations", map[string]any{"project_id": proj.ID})
	require.False(t, isErr, string(raw))
	var gens []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(raw, &gens))
	require.Len(t, gens, 2)
	require.Equal(t, "image", gens[0].Type)
	require.Equal(t, "audio", gens[1].Type)

	raw, isErr = callTool(t, session, "get_statistics", map[string]any{"scope": "all-time"})
	require.False(t, isErr, string(raw))
	var stats struct {
		Today   *json.RawMessage `json:"today"`
		History struct {
			ImagesCount int64   `json:"images_count"`
			VideosCount int64   `json:"videos_count"`
			AudioCount  int64   `json:"audio_count"`
			TotalTime   float64 `json:"total_time"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(raw, &stats))
	require.Nil(t, stats.Today)
	require.Equal(t, int64(1), stats.History.ImagesCount)
	require.Zero(t, stats.History.VideosCount)
	require.Equal(t, int64(1), stats.History.AudioCount)
	require.GreaterOrEqual(t, stats.History.TotalTime, 0.0)

	raw, isErr = callTool(t, session, "delete_project", map[string]any{"id": proj.ID})
	require.False(t, isErr, string(raw))

	raw, isErr = callTool(t, session, "get_project", map[string]any{"id": proj.ID})
	require.True(t, isErr)
	require.Contains(t, string(raw), "PROJECT_NOT_FOUND")
}

func TestFunctional_ProviderFailureIsToolError(t *testing.T) {
	ts := testserver.New(t, "")
	session, err := connectHTTP(t, ts, "")
	require.NoError(t, err)

	raw, isErr := callTool(t, session, "create_project", map[string]any{"name": "Fails"})
	require.False(t, isErr, string(raw))

	ts.Providers.FailWith(http.StatusUnauthorized)
	raw, isErr = callTool(t, session, "generate_image", map[string]any{"project_id": 1, "prompt": "x"})
	require.True(t, isErr)
	require.Contains(t, string(raw), "PROVIDER_UNAUTHORIZED")
}

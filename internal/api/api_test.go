package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rpggio/mediastudio/internal/testserver"
	"github.com/stretchr/testify/require"
)

type response struct {
	Code int
	Body map[string]any
}

func do(t *testing.T, ts *testserver.TestServer, method, path string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{Code: resp.StatusCode}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out.Body))
	return out
}

func createProject(t *testing.T, ts *testserver.TestServer, name, description string) int64 {
	t.Helper()
	resp := do(t, ts, http.MethodPost, "/api/projects", map[string]any{"name": name, "description": description})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body)
	require.Equal(t, "success", resp.Body["status"])
	return int64(resp.Body["project_id"].(float64))
}

func TestAPI_ProjectLifecycle(t *testing.T) {
	ts := testserver.New(t, "")

	id := createProject(t, ts, "Test", "Desc")
	require.Equal(t, int64(1), id)

	resp := do(t, ts, http.MethodPut, "/api/projects/1", map[string]any{"name": "New Name"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, ts, http.MethodGet, "/api/projects/1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]any)
	require.Equal(t, "New Name", data["name"])
	require.Equal(t, "Desc", data["description"])

	resp = do(t, ts, http.MethodGet, "/api/projects", nil)
	require.Len(t, resp.Body["data"], 1)

	resp = do(t, ts, http.MethodDelete, "/api/projects/1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = do(t, ts, http.MethodDelete, "/api/projects/1", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, ts, http.MethodGet, "/api/projects/1", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, "error", resp.Body["status"])

	resp = do(t, ts, http.MethodGet, "/api/projects/1/generations", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, resp.Body["data"])
}

func TestAPI_ProjectValidation(t *testing.T) {
	ts := testserver.New(t, "")

	resp := do(t, ts, http.MethodPost, "/api/projects", map[string]any{"name": "   "})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "INVALID_INPUT", resp.Body["code"])

	resp = do(t, ts, http.MethodPut, "/api/projects/99", map[string]any{"name": "x"})
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = do(t, ts, http.MethodGet, "/api/projects/abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAPI_GenerateImage(t *testing.T) {
	ts := testserver.New(t, "")
	id := createProject(t, ts, "Art", "")

	resp := do(t, ts, http.MethodPost, "/api/generate/image", map[string]any{
		"project_id":      id,
		"prompt":          "a cat",
		"negative_prompt": "blurry",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body)
	require.Equal(t, "success", resp.Body["status"])
	require.Contains(t, resp.Body["image_url"], "/files/image.png")

	path := resp.Body["file_path"].(string)
	require.Equal(t, ts.OutputDir, filepath.Dir(path))
	require.Regexp(t, `^image_\d{8}_\d{6}_[0-9a-f]{8}\.png$`, filepath.Base(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	resp = do(t, ts, http.MethodGet, "/api/projects/1/generations", nil)
	gens := resp.Body["data"].([]any)
	require.Len(t, gens, 1)
	gen := gens[0].(map[string]any)
	require.Equal(t, "image", gen["type"])
	require.Equal(t, "a cat", gen["prompt"])
	require.Equal(t, 1, ts.Providers.Calls("replicate"))
}

func TestAPI_GenerateImageUnknownProject(t *testing.T) {
	ts := testserver.New(t, "")

	resp := do(t, ts, http.MethodPost, "/api/generate/image", map[string]any{"project_id": 42, "prompt": "a cat"})
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Zero(t, ts.Providers.Calls("replicate"))
}

func TestAPI_ProviderFailureWritesNothing(t *testing.T) {
	ts := testserver.New(t, "")
	id := createProject(t, ts, "Art", "")
	ts.Providers.FailWith(http.StatusTooManyRequests)

	resp := do(t, ts, http.MethodPost, "/api/generate/image", map[string]any{"project_id": id, "prompt": "a cat"})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Equal(t, "error", resp.Body["status"])
	require.Equal(t, "PROVIDER_RATE_LIMITED", resp.Body["code"])
	require.Equal(t, 1, ts.Providers.Calls("replicate"))

	resp = do(t, ts, http.MethodGet, "/api/projects/1/generations", nil)
	require.Empty(t, resp.Body["data"])

	entries, err := os.ReadDir(ts.OutputDir)
	require.NoError(t, err)
	require.Empty(t, entries)

	resp = do(t, ts, http.MethodGet, "/api/projects/1/activity?type=generation_failed", nil)
	require.Len(t, resp.Body["data"], 1)
}

func TestAPI_UnconfiguredProvider(t *testing.T) {
	ts := testserver.New(t, "", testserver.WithoutProviderKeys())
	id := createProject(t, ts, "Voice", "")

	resp := do(t, ts, http.MethodPost, "/api/generate/audio", map[string]any{"project_id": id, "text": "hello"})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Equal(t, "PROVIDER_UNCONFIGURED", resp.Body["code"])
	require.Zero(t, ts.Providers.Calls("elevenlabs"))

	resp = do(t, ts, http.MethodPost, "/api/suggestions/improve", map[string]any{"prompt": "a fox", "content_type": "audio"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "a fox, clear, professional quality, well-paced", resp.Body["improved_prompt"])
}

func TestAPI_GenerateAudio(t *testing.T) {
	ts := testserver.New(t, "")
	id := createProject(t, ts, "Voice", "")

	resp := do(t, ts, http.MethodPost, "/api/generate/audio", map[string]any{"project_id": id, "text": "hello", "voice": "Rachel"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body)

	data, err := os.ReadFile(resp.Body["file_path"].(string))
	require.NoError(t, err)
	require.Equal(t, testserver.FakeAudio, data)
}

func TestAPI_GenerateVideo(t *testing.T) {
	ts := testserver.New(t, "")
	id := createProject(t, ts, "Film", "")

	resp := do(t, ts, http.MethodPost, "/api/generate/video", map[string]any{"project_id": id, "prompt": "waves", "duration": 2})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body)
	require.Contains(t, resp.Body["video_url"], "/files/video.mp4")
	require.Equal(t, resp.Body["video_url"], resp.Body["file_path"])
}

func TestAPI_VideoCompositionValidation(t *testing.T) {
	ts := testserver.New(t, "")
	id := createProject(t, ts, "Film", "")
	inside := func(name string) string { return filepath.Join(ts.OutputDir, name) }

	resp := do(t, ts, http.MethodPost, "/api/generate/video/audio", map[string]any{"project_id": id, "video_path": inside("v.mp4")})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body)

	resp = do(t, ts, http.MethodPost, "/api/generate/video/audio", map[string]any{"project_id": id, "video_path": "/etc/passwd", "audio_path": inside("a.mp3")})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body)

	resp = do(t, ts, http.MethodPost, "/api/generate/video/mix", map[string]any{
		"project_id": id, "video_path": inside("v.mp4"), "voice_path": inside("a\nb.mp3"), "background_path": inside("bg.mp3"),
	})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body)

	resp = do(t, ts, http.MethodPost, "/api/generate/video/mix", map[string]any{
		"project_id": id + 100, "video_path": inside("v.mp4"), "voice_path": inside("a.mp3"), "background_path": inside("bg.mp3"),
	})
	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body)

	gens := do(t, ts, http.MethodGet, fmt.Sprintf("/api/projects/%d/generations", id), nil)
	require.Equal(t, http.StatusOK, gens.Code)
	require.Empty(t, gens.Body["data"])
}

func TestAPI_Statistics(t *testing.T) {
	ts := testserver.New(t, "")
	id := createProject(t, ts, "Stats", "")

	for i := 0; i < 2; i++ {
		resp := do(t, ts, http.MethodPost, "/api/generate/image", map[string]any{"project_id": id, "prompt": "a cat"})
		require.Equal(t, http.StatusOK, resp.Code)
	}
	resp := do(t, ts, http.MethodPost, "/api/generate/audio", map[string]any{"project_id": id, "text": "hi"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, ts, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "success", resp.Body["status"])
	for _, key := range []string{"today", "history"} {
		stats := resp.Body[key].(map[string]any)
		require.Equal(t, 2.0, stats["images_count"], key)
		require.Equal(t, 0.0, stats["videos_count"], key)
		require.Equal(t, 1.0, stats["audio_count"], key)
	}
}

func TestAPI_Suggestions(t *testing.T) {
	ts := testserver.New(t, "")
	ts.Providers.SetCompletion("Mood: Tense\nTempo: fast\nGenre: orchestral")

	resp := do(t, ts, http.MethodPost, "/api/suggestions/music-mood", map[string]any{"scene": "a chase"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, map[string]any{"mood": "tense", "tempo": "fast", "genre": "orchestral"}, resp.Body["music"])

	ts.Providers.SetCompletion("1. a red fox\n2. a blue fox\n3. a green fox")
	resp = do(t, ts, http.MethodPost, "/api/suggestions/variations", map[string]any{"prompt": "a fox", "count": 2})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, resp.Body["variations"], 2)

	resp = do(t, ts, http.MethodPost, "/api/suggestions/styles", map[string]any{"prompt": "a fox"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, resp.Body["styles"], 6)

	resp = do(t, ts, http.MethodPost, "/api/suggestions/script", map[string]any{"idea": ""})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAPI_SuggestionFallback(t *testing.T) {
	ts := testserver.New(t, "")
	ts.Providers.FailWith(http.StatusInternalServerError)

	resp := do(t, ts, http.MethodPost, "/api/suggestions/script", map[string]any{"idea": "a robot"})
	require.Equal(t, http.StatusOK, resp.Code)
	script := resp.Body["script"].([]any)
	require.Len(t, script, 5)
	require.Equal(t, "Opening scene: a robot", script[0].(map[string]any)["visual"])

	resp = do(t, ts, http.MethodPost, "/api/suggestions/next-scene", map[string]any{"scene": "a dock"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "Continue from: a dock", resp.Body["suggestions"].([]any)[0])
}

func TestAPI_HealthAndRoot(t *testing.T) {
	ts := testserver.New(t, "secret")

	resp, err := http.Get(ts.Server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "healthy", health["status"])
	require.NotEmpty(t, health["timestamp"])

	root := do(t, ts, http.MethodGet, "/", nil)
	require.Equal(t, "SA Platform API", root.Body["name"])
	require.Equal(t, "1.0.0", root.Body["version"])
	require.Equal(t, "/docs", root.Body["docs"])

	docs := do(t, ts, http.MethodGet, root.Body["docs"].(string), nil)
	require.Equal(t, http.StatusOK, docs.Code)
	require.Contains(t, docs.Body["endpoints"], "POST /api/generate/video/mix")
	require.Contains(t, docs.Body["endpoints"], "GET /api/projects/{id}")
}

func TestAPI_RequiresToken(t *testing.T) {
	ts := testserver.New(t, "secret")

	resp, err := http.Get(ts.Server.URL + "/api/projects")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	authed := do(t, ts, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, authed.Code)
}

func TestAPI_ConcurrentDeleteAndGenerate(t *testing.T) {
	ts := testserver.New(t, "")
	id := createProject(t, ts, "Race", "")

	send := func(method, path, body string) {
		req, err := http.NewRequest(method, ts.Server.URL+path, bytes.NewBufferString(body))
		if err != nil {
			return
		}
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		send(http.MethodPost, "/api/generate/audio", fmt.Sprintf(`{"project_id":%d,"text":"hi"}`, id))
	}()
	go func() {
		defer wg.Done()
		send(http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), "")
	}()
	wg.Wait()

	var dangling int
	require.NoError(t, ts.DB.QueryRow(
		`SELECT COUNT(*) FROM generations g LEFT JOIN projects p ON p.id = g.project_id WHERE p.id IS NULL`,
	).Scan(&dangling))
	require.Zero(t, dangling)
}

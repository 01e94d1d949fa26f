package testserver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Providers fakes Replicate, ElevenLabs and OpenAI behind one server.
type Providers struct {
	Server *httptest.Server

	mu       sync.Mutex
	failWith int
	calls    map[string]int
	reply    string
}

// FakeAudio is the body returned for speech synthesis.
var FakeAudio = []byte("ID3fake-mp3")

func newProviders(t *testing.T) *Providers {
	t.Helper()
	p := &Providers{calls: make(map[string]int)}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

// FailWith makes every provider call answer with status. Zero restores
// normal behaviour.
func (p *Providers) FailWith(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith = status
}

// SetCompletion sets the text returned by the chat completions endpoint.
func (p *Providers) SetCompletion(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reply = text
}

// Calls returns how often a provider was called: "replicate",
// "elevenlabs", "openai" or "files".
func (p *Providers) Calls(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

func (p *Providers) serve(w http.ResponseWriter, r *http.Request) {
	name := "files"
	switch {
	case strings.HasPrefix(r.URL.Path, "/v1/models/"), r.URL.Path == "/v1/predictions":
		name = "replicate"
	case strings.HasPrefix(r.URL.Path, "/v1/text-to-speech/"):
		name = "elevenlabs"
	case r.URL.Path == "/v1/chat/completions":
		name = "openai"
	}

	p.mu.Lock()
	p.calls[name]++
	failWith, reply := p.failWith, p.reply
	p.mu.Unlock()

	if failWith != 0 && name != "files" {
		http.Error(w, `{"detail":"fake failure"}`, failWith)
		return
	}

	switch name {
	case "replicate":
		output := p.Server.URL + "/files/image.png"
		if strings.Contains(r.URL.Path, "zeroscope") {
			output = p.Server.URL + "/files/video.mp4"
		}
		writeJSON(w, map[string]any{"id": "p1", "status": "succeeded", "output": []string{output}})
	case "elevenlabs":
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(FakeAudio)
	case "openai":
		if reply == "" {
			reply = "a vivid, detailed prompt"
		}
		writeJSON(w, map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": reply}}},
		})
	default:
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// Package suggest produces prompt and storytelling suggestions. Every
// operation asks a text-completion model once and falls back to a fixed
// local heuristic when the call fails or the reply cannot be used.
package suggest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/mediastudio/internal/provider"
)

// Completer produces a text completion for a system and user message.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Mood describes background music for a scene.
type Mood struct {
	Mood  string `json:"mood"`
	Tempo string `json:"tempo"`
	Genre string `json:"genre"`
}

// DefaultMood is used when no suggestion is available.
func DefaultMood() Mood {
	return Mood{Mood: "calm", Tempo: "medium", Genre: "ambient"}
}

// Scene is one entry of a video script.
type Scene struct {
	Visual    string `json:"visual"`
	Narration string `json:"narration"`
}

var improvements = map[string]string{
	"image": "detailed, high quality, professional, 8k resolution",
	"video": "cinematic, smooth motion, high quality, 4k",
	"audio": "clear, professional quality, well-paced",
}

var variationStyles = []string{
	"realistic style",
	"artistic style",
	"modern style",
	"classic style",
	"minimalist style",
	"detailed style",
}

// Engine generates suggestions.
type Engine struct {
	llm    Completer
	logger *slog.Logger
}

// NewEngine creates an engine. A nil llm serves fallbacks only.
func NewEngine(llm Completer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{llm: llm, logger: logger}
}

// ImprovePrompt rewrites prompt to be more effective for contentType.
func (e *Engine) ImprovePrompt(ctx context.Context, prompt, contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		contentType = "image"
	}
	system := fmt.Sprintf("You are an expert in creating detailed prompts for %s generation. Improve the user's prompt to be more detailed and effective.", contentType)
	if text, ok := e.complete(ctx, "improve_prompt", system, "Improve this prompt: "+prompt, 200); ok {
		return text
	}
	return FallbackImprove(prompt, contentType)
}

// FallbackImprove appends fixed modifiers for contentType.
func FallbackImprove(prompt, contentType string) string {
	enh, ok := improvements[contentType]
	if !ok {
		enh = "high quality"
	}
	return prompt + ", " + enh
}

// Variations returns at most count rewrites of prompt.
func (e *Engine) Variations(ctx context.Context, prompt string, count int) []string {
	if count <= 0 {
		return []string{}
	}
	system := "Generate creative variations of the given prompt. Each variation should be on a new line."
	user := fmt.Sprintf("Generate %d variations of this prompt: %s", count, prompt)
	if text, ok := e.complete(ctx, "variations", system, user, 300); ok {
		if items := ParseList(text); len(items) > 0 {
			return truncate(items, count)
		}
		e.logger.Debug("variations reply had no usable lines")
	}
	return FallbackVariations(prompt, count)
}

// FallbackVariations renders prompt in up to count fixed styles.
func FallbackVariations(prompt string, count int) []string {
	out := make([]string, 0, len(variationStyles))
	for _, style := range variationStyles {
		out = append(out, prompt+" in "+style)
	}
	return truncate(out, count)
}

// NextScenes suggests scenes that could follow scene.
func (e *Engine) NextScenes(ctx context.Context, scene string) []string {
	system := "You are a creative storyteller. Suggest logical next scenes."
	user := fmt.Sprintf("Current scene: %s\nSuggest 3 possible next scenes:", scene)
	if text, ok := e.complete(ctx, "next_scene", system, user, 200); ok {
		if items := ParseList(text); len(items) > 0 {
			return items
		}
	}
	return FallbackNextScenes(scene)
}

// FallbackNextScenes returns generic continuations of scene.
func FallbackNextScenes(scene string) []string {
	return []string{
		"Continue from: " + scene,
		"Transition to a different location",
		"Close-up detail from the scene",
	}
}

// MusicMood suggests background music characteristics for scene.
func (e *Engine) MusicMood(ctx context.Context, scene string) Mood {
	system := "Suggest appropriate background music characteristics."
	user := fmt.Sprintf("Scene: %s\nSuggest: mood, tempo, genre", scene)
	if text, ok := e.complete(ctx, "music_mood", system, user, 100); ok {
		if mood, parsed := ParseMusicMood(text); parsed {
			return mood
		}
	}
	return DefaultMood()
}

// Script drafts a five scene video script for idea.
func (e *Engine) Script(ctx context.Context, idea string) []Scene {
	system := "Create a video script with scene descriptions and narration."
	user := fmt.Sprintf("Create a 5-scene video script for: %s\nFormat each scene as: Scene X: [visual description] | Narration: [text]", idea)
	if text, ok := e.complete(ctx, "script", system, user, 500); ok {
		if scenes, parsed := ParseScript(text); parsed {
			return scenes
		}
	}
	return FallbackScript(idea)
}

// FallbackScript returns a generic five scene outline for idea.
func FallbackScript(idea string) []Scene {
	return []Scene{
		{Visual: "Opening scene: " + idea, Narration: "Introduction to " + idea},
		{Visual: "Main content about " + idea, Narration: "Main story unfolds"},
		{Visual: "Climax or key moment", Narration: "The most important part"},
		{Visual: "Resolution", Narration: "How things conclude"},
		{Visual: "Closing scene", Narration: "Final thoughts"},
	}
}

func (e *Engine) complete(ctx context.Context, op, system, user string, maxTokens int) (string, bool) {
	if e.llm == nil {
		return "", false
	}
	text, err := e.llm.Complete(ctx, system, user, maxTokens)
	if err != nil {
		if provider.IsKind(err, provider.KindUnconfigured) {
			e.logger.Debug("suggestion model not configured, using fallback", "op", op)
		} else {
			e.logger.Warn("suggestion failed, using fallback", "op", op, "kind", provider.KindOf(err), "error", err)
		}
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

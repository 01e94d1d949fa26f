package generation

import (
	"context"

	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/project"
	"github.com/rpggio/mediastudio/internal/media/audio"
	"github.com/rpggio/mediastudio/internal/media/image"
	"github.com/rpggio/mediastudio/internal/media/video"
)

// Repository provides persistence for generations.
type Repository interface {
	Add(ctx context.Context, gen *Generation) error
	ListByProject(ctx context.Context, projectID int64) ([]Generation, error)
	Statistics(ctx context.Context, window Window) (Statistics, error)
}

// ProjectRepository looks up projects referenced by generations.
type ProjectRepository interface {
	Get(ctx context.Context, id int64) (*project.Project, error)
}

// ActivityLogger records generation activity.
type ActivityLogger interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// ImageClient produces images from prompts.
type ImageClient interface {
	EnhancePrompt(prompt string) string
	Generate(ctx context.Context, prompt string, opts image.Options) (string, error)
	Download(ctx context.Context, url, dest string) (string, error)
}

// VideoClient produces videos from prompts or local images.
type VideoClient interface {
	EnhancePrompt(prompt string) string
	Generate(ctx context.Context, prompt string, opts video.Options) (string, error)
	CreateSlideshow(ctx context.Context, images []string, dest string, opts video.SlideshowOptions) (string, error)
	AddAudio(ctx context.Context, videoPath, audioPath, dest string) (string, error)
	AddBackgroundSounds(ctx context.Context, videoPath, voicePath, backgroundPath, dest string, volume float64) (string, error)
}

// AudioClient synthesizes speech.
type AudioClient interface {
	Generate(ctx context.Context, text, dest string, opts audio.Options) (string, error)
}

package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/media/audio"
	"github.com/rpggio/mediastudio/internal/media/image"
	"github.com/rpggio/mediastudio/internal/media/video"
	"github.com/rpggio/mediastudio/internal/provider"
	"github.com/rpggio/mediastudio/internal/repository"
)

// Dependencies wires a Service. Clients that are nil make the matching
// Generate method fail with a provider error of kind unconfigured.
type Dependencies struct {
	Generations Repository
	Projects    ProjectRepository
	Activities  ActivityLogger
	Images      ImageClient
	Videos      VideoClient
	Audio       AudioClient
	OutputDir   string
	Logger      *slog.Logger
	Now         func() time.Time
}

// Service records generations and orchestrates provider calls. A generation
// is persisted only after its provider call succeeded.
type Service struct {
	generations Repository
	projects    ProjectRepository
	activities  ActivityLogger
	images      ImageClient
	videos      VideoClient
	audio       AudioClient
	outputDir   string
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new generation service.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	outputDir := deps.OutputDir
	if outputDir == "" {
		outputDir = "outputs"
	}
	return &Service{
		generations: deps.Generations,
		projects:    deps.Projects,
		activities:  deps.Activities,
		images:      deps.Images,
		videos:      deps.Videos,
		audio:       deps.Audio,
		outputDir:   outputDir,
		logger:      logger,
		now:         now,
	}
}

// RecordRequest defines the inputs for recording a generation directly.
type RecordRequest struct {
	ProjectID       int64
	Type            Type
	Prompt          string
	FilePath        string
	DurationSeconds float64
}

// Result is the outcome of a successful generation.
type Result struct {
	Generation  *Generation
	ArtifactURL string
}

// ImageRequest defines image generation inputs.
type ImageRequest struct {
	ProjectID      int64
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Enhance        bool
}

// VideoRequest defines text-to-video inputs.
type VideoRequest struct {
	ProjectID int64
	Prompt    string
	Duration  int
	FPS       int
	Enhance   bool
}

// AudioRequest defines text-to-speech inputs.
type AudioRequest struct {
	ProjectID int64
	Text      string
	Voice     string
}

// SlideshowRequest defines slideshow assembly inputs.
type SlideshowRequest struct {
	ProjectID       int64
	ImagePaths      []string
	SecondsPerImage float64
	FPS             int
}

// SoundtrackRequest replaces the audio of a local video.
type SoundtrackRequest struct {
	ProjectID int64
	VideoPath string
	AudioPath string
}

// MixRequest lays a voice track and a looped background track under a
// local video. A zero Volume uses the default background level.
type MixRequest struct {
	ProjectID      int64
	VideoPath      string
	VoicePath      string
	BackgroundPath string
	Volume         float64
}

// Record validates and stores a generation.
func (s *Service) Record(ctx context.Context, req RecordRequest) (*Generation, error) {
	if req.ProjectID <= 0 {
		return nil, ErrProjectNotFound
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return nil, ErrInvalidInput
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}
	if req.DurationSeconds < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalidInput)
	}

	gen := &Generation{
		ProjectID:       req.ProjectID,
		Type:            req.Type,
		Prompt:          req.Prompt,
		FilePath:        req.FilePath,
		DurationSeconds: req.DurationSeconds,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.generations.Add(ctx, gen); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("recording generation: %w", err)
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    gen.ProjectID,
		GenerationID: &gen.ID,
		ActivityType: activity.TypeGenerationRecorded,
		Summary:      fmt.Sprintf("recorded %s generation", gen.Type),
		Details:      gen.FilePath,
	})
	return gen, nil
}

// List returns the generations of a project. Unknown projects yield an
// empty list.
func (s *Service) List(ctx context.Context, projectID int64) ([]Generation, error) {
	gens, err := s.generations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	if gens == nil {
		gens = []Generation{}
	}
	return gens, nil
}

// Statistics aggregates generations for the given scope.
func (s *Service) Statistics(ctx context.Context, scope Scope) (Statistics, error) {
	stats, err := s.generations.Statistics(ctx, scope.Window(s.now()))
	if err != nil {
		return Statistics{}, fmt.Errorf("computing %s statistics: %w", scope, err)
	}
	return stats, nil
}

// GenerateImage generates an image, downloads it into the output directory
// and records it.
func (s *Service) GenerateImage(ctx context.Context, req ImageRequest) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, s.fail(ctx, req.ProjectID, TypeImage, provider.Unconfigured("image", "generate"))
	}

	prompt := req.Prompt
	if req.Enhance {
		prompt = s.images.EnhancePrompt(prompt)
	}

	start := time.Now()
	url, err := s.images.Generate(ctx, prompt, image.Options{
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
	})
	if err != nil {
		return nil, s.fail(ctx, req.ProjectID, TypeImage, err)
	}

	dest, err := s.artifactPath(TypeImage)
	if err != nil {
		return nil, err
	}
	path, err := s.images.Download(ctx, url, dest)
	if err != nil {
		return nil, s.fail(ctx, req.ProjectID, TypeImage, err)
	}

	return s.complete(ctx, req.ProjectID, TypeImage, req.Prompt, path, url, time.Since(start))
}

// GenerateVideo generates a video from a prompt and records its URL.
func (s *Service) GenerateVideo(ctx context.Context, req VideoRequest) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	if req.Duration < 0 || req.FPS < 0 {
		return nil, fmt.Errorf("%w: duration and fps must not be negative", ErrInvalidInput)
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if s.videos == nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, provider.Unconfigured("video", "generate"))
	}

	prompt := req.Prompt
	if req.Enhance {
		prompt = s.videos.EnhancePrompt(prompt)
	}

	start := time.Now()
	url, err := s.videos.Generate(ctx, prompt, video.Options{Duration: req.Duration, FPS: req.FPS})
	if err != nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, err)
	}

	return s.complete(ctx, req.ProjectID, TypeVideo, req.Prompt, url, url, time.Since(start))
}

// GenerateSlideshow assembles local images into a video and records it.
func (s *Service) GenerateSlideshow(ctx context.Context, req SlideshowRequest) (*Result, error) {
	if len(req.ImagePaths) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrInvalidInput)
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if s.videos == nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, provider.Unconfigured("video", "slideshow"))
	}

	dest, err := s.artifactPath(TypeVideo)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	path, err := s.videos.CreateSlideshow(ctx, req.ImagePaths, dest, video.SlideshowOptions{
		SecondsPerImage: req.SecondsPerImage,
		FPS:             req.FPS,
	})
	if err != nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, err)
	}

	prompt := fmt.Sprintf("slideshow of %d images", len(req.ImagePaths))
	return s.complete(ctx, req.ProjectID, TypeVideo, prompt, path, "", time.Since(start))
}

// AddSoundtrack sets a new audio track on a local video and records the
// result as a video generation.
func (s *Service) AddSoundtrack(ctx context.Context, req SoundtrackRequest) (*Result, error) {
	if strings.TrimSpace(req.VideoPath) == "" || strings.TrimSpace(req.AudioPath) == "" {
		return nil, fmt.Errorf("%w: video_path and audio_path are required", ErrInvalidInput)
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if s.videos == nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, provider.Unconfigured("video", "add_audio"))
	}

	dest, err := s.artifactPath(TypeVideo)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	path, err := s.videos.AddAudio(ctx, req.VideoPath, req.AudioPath, dest)
	if err != nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, err)
	}

	prompt := fmt.Sprintf("%s with audio %s", filepath.Base(req.VideoPath), filepath.Base(req.AudioPath))
	return s.complete(ctx, req.ProjectID, TypeVideo, prompt, path, "", time.Since(start))
}

// MixBackground mixes voice and background audio under a local video and
// records the result as a video generation.
func (s *Service) MixBackground(ctx context.Context, req MixRequest) (*Result, error) {
	if strings.TrimSpace(req.VideoPath) == "" || strings.TrimSpace(req.VoicePath) == "" || strings.TrimSpace(req.BackgroundPath) == "" {
		return nil, fmt.Errorf("%w: video_path, voice_path and background_path are required", ErrInvalidInput)
	}
	if req.Volume < 0 || req.Volume > 1 {
		return nil, fmt.Errorf("%w: volume must be between 0 and 1", ErrInvalidInput)
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if s.videos == nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, provider.Unconfigured("video", "mix"))
	}

	dest, err := s.artifactPath(TypeVideo)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	path, err := s.videos.AddBackgroundSounds(ctx, req.VideoPath, req.VoicePath, req.BackgroundPath, dest, req.Volume)
	if err != nil {
		return nil, s.fail(ctx, req.ProjectID, TypeVideo, err)
	}

	prompt := fmt.Sprintf("%s mixed with %s", filepath.Base(req.VideoPath), filepath.Base(req.BackgroundPath))
	return s.complete(ctx, req.ProjectID, TypeVideo, prompt, path, "", time.Since(start))
}

// GenerateAudio synthesizes speech into the output directory and records it.
func (s *Service) GenerateAudio(ctx context.Context, req AudioRequest) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if s.audio == nil {
		return nil, s.fail(ctx, req.ProjectID, TypeAudio, provider.Unconfigured("audio", "generate"))
	}

	dest, err := s.artifactPath(TypeAudio)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	path, err := s.audio.Generate(ctx, req.Text, dest, audio.Options{Voice: req.Voice})
	if err != nil {
		return nil, s.fail(ctx, req.ProjectID, TypeAudio, err)
	}

	return s.complete(ctx, req.ProjectID, TypeAudio, req.Text, path, "", time.Since(start))
}

func (s *Service) ensureProject(ctx context.Context, projectID int64) error {
	if projectID <= 0 {
		return ErrProjectNotFound
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("loading project: %w", err)
	}
	return nil
}

func (s *Service) complete(ctx context.Context, projectID int64, typ Type, prompt, path, url string, elapsed time.Duration) (*Result, error) {
	gen, err := s.Record(ctx, RecordRequest{
		ProjectID:       projectID,
		Type:            typ,
		Prompt:          prompt,
		FilePath:        path,
		DurationSeconds: elapsed.Seconds(),
	})
	if err != nil {
		if path != url && errors.Is(err, ErrProjectNotFound) {
			// The project went away while the provider was working.
			_ = os.Remove(path)
		}
		return nil, err
	}

	s.logger.Info("generation recorded",
		"project_id", projectID,
		"generation_id", gen.ID,
		"type", typ,
		"duration_seconds", gen.DurationSeconds,
	)
	return &Result{Generation: gen, ArtifactURL: url}, nil
}

func (s *Service) fail(ctx context.Context, projectID int64, typ Type, err error) error {
	s.logger.Warn("generation failed",
		"project_id", projectID,
		"type", typ,
		"kind", provider.KindOf(err),
		"error", err,
	)
	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    projectID,
		ActivityType: activity.TypeGenerationFailed,
		Summary:      fmt.Sprintf("%s generation failed", typ),
		Details:      err.Error(),
	})
	return fmt.Errorf("generating %s: %w", typ, err)
}

func (s *Service) artifactPath(typ Type) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.%s", typ, s.now().Format("20060102_150405"), uuid.NewString()[:8], typ.Extension())
	return filepath.Join(s.outputDir, name), nil
}

func (s *Service) logActivity(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	entry.CreatedAt = s.now().UTC()
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "project_id", entry.ProjectID, "type", entry.ActivityType, "error", err)
	}
}

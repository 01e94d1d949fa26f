package api

import (
	"net/http"

	"github.com/rpggio/mediastudio/internal/domain/generation"
)

type imageRequest struct {
	ProjectID      int64  `json:"project_id"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Enhance        bool   `json:"enhance"`
}

type videoRequest struct {
	ProjectID int64  `json:"project_id"`
	Prompt    string `json:"prompt"`
	Duration  int    `json:"duration"`
	FPS       int    `json:"fps"`
	Enhance   bool   `json:"enhance"`
}

type slideshowRequest struct {
	ProjectID       int64    `json:"project_id"`
	ImagePaths      []string `json:"image_paths"`
	SecondsPerImage float64  `json:"seconds_per_image"`
	FPS             int      `json:"fps"`
}

type soundtrackRequest struct {
	ProjectID int64  `json:"project_id"`
	VideoPath string `json:"video_path"`
	AudioPath string `json:"audio_path"`
}

type mixRequest struct {
	ProjectID      int64   `json:"project_id"`
	VideoPath      string  `json:"video_path"`
	VoicePath      string  `json:"voice_path"`
	BackgroundPath string  `json:"background_path"`
	Volume         float64 `json:"volume"`
}

type audioRequest struct {
	ProjectID int64  `json:"project_id"`
	Text      string `json:"text"`
	Voice     string `json:"voice"`
}

func (h *Handler) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Generations.GenerateImage(r.Context(), generation.ImageRequest{
		ProjectID:      req.ProjectID,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
		Enhance:        req.Enhance,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	env := generated("Image generated successfully", res)
	env["image_url"] = res.ArtifactURL
	writeJSON(w, http.StatusOK, env)
}

func (h *Handler) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Generations.GenerateVideo(r.Context(), generation.VideoRequest{
		ProjectID: req.ProjectID,
		Prompt:    req.Prompt,
		Duration:  req.Duration,
		FPS:       req.FPS,
		Enhance:   req.Enhance,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	env := generated("Video generated successfully", res)
	env["video_url"] = res.ArtifactURL
	writeJSON(w, http.StatusOK, env)
}

func (h *Handler) handleGenerateSlideshow(w http.ResponseWriter, r *http.Request) {
	var req slideshowRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Generations.GenerateSlideshow(r.Context(), generation.SlideshowRequest{
		ProjectID:       req.ProjectID,
		ImagePaths:      req.ImagePaths,
		SecondsPerImage: req.SecondsPerImage,
		FPS:             req.FPS,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generated("Slideshow created successfully", res))
}

func (h *Handler) handleAddSoundtrack(w http.ResponseWriter, r *http.Request) {
	var req soundtrackRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Generations.AddSoundtrack(r.Context(), generation.SoundtrackRequest{
		ProjectID: req.ProjectID,
		VideoPath: req.VideoPath,
		AudioPath: req.AudioPath,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generated("Audio added to video successfully", res))
}

func (h *Handler) handleMixBackground(w http.ResponseWriter, r *http.Request) {
	var req mixRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Generations.MixBackground(r.Context(), generation.MixRequest{
		ProjectID:      req.ProjectID,
		VideoPath:      req.VideoPath,
		VoicePath:      req.VoicePath,
		BackgroundPath: req.BackgroundPath,
		Volume:         req.Volume,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generated("Background sounds mixed successfully", res))
}

func (h *Handler) handleGenerateAudio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Generations.GenerateAudio(r.Context(), generation.AudioRequest{
		ProjectID: req.ProjectID,
		Text:      req.Text,
		Voice:     req.Voice,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generated("Audio generated successfully", res))
}

func generated(message string, res *generation.Result) envelope {
	env := success(message)
	env["file_path"] = res.Generation.FilePath
	env["generation_id"] = res.Generation.ID
	return env
}

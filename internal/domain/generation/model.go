package generation

import (
	"fmt"
	"time"
)

// Type identifies the kind of media a generation produced.
type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
	TypeAudio Type = "audio"
)

// Valid reports whether t is a known generation type.
func (t Type) Valid() bool {
	switch t {
	case TypeImage, TypeVideo, TypeAudio:
		return true
	}
	return false
}

// Extension returns the file extension used for artifacts of this type.
func (t Type) Extension() string {
	switch t {
	case TypeImage:
		return "png"
	case TypeVideo:
		return "mp4"
	case TypeAudio:
		return "mp3"
	}
	return "bin"
}

// ParseType converts s into a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Generation is one completed call to a generative provider.
type Generation struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project_id"`
	Type            Type      `json:"type"`
	Prompt          string    `json:"prompt"`
	FilePath        string    `json:"file_path"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// Statistics aggregates generation counts and durations over a window.
type Statistics struct {
	ImagesCount int64   `json:"images_count"`
	VideosCount int64   `json:"videos_count"`
	AudioCount  int64   `json:"audio_count"`
	TotalTime   float64 `json:"total_time"`
}

// Total returns the number of generations counted.
func (s Statistics) Total() int64 {
	return s.ImagesCount + s.VideosCount + s.AudioCount
}

package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rpggio/mediastudio/internal/provider"
)

const composer = "ffmpeg"

// ErrOutsideMediaRoot is returned for inputs that resolve outside the
// configured media root.
var ErrOutsideMediaRoot = errors.New("path outside media root")

// ErrInvalidPath is returned for input paths ffmpeg cannot take verbatim,
// such as names containing line breaks.
var ErrInvalidPath = errors.New("invalid media path")

// CommandRunner runs an external program and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// SlideshowOptions tunes slideshow assembly.
type SlideshowOptions struct {
	SecondsPerImage float64
	FPS             int
}

// CreateSlideshow concatenates images into an H.264 video at dest, showing
// each image for a fixed time.
func (c *Client) CreateSlideshow(ctx context.Context, images []string, dest string, opts SlideshowOptions) (string, error) {
	if len(images) == 0 {
		return "", &provider.Error{Provider: composer, Op: "slideshow", Kind: provider.KindRejected, Err: errors.New("no images")}
	}
	seconds := opts.SecondsPerImage
	if seconds <= 0 {
		seconds = DefaultSecondsPerImage
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = c.cfg.FPS
	}

	resolved := make([]string, 0, len(images))
	for _, img := range images {
		p, err := c.resolve(img)
		if err != nil {
			return "", &provider.Error{Provider: composer, Op: "slideshow", Kind: provider.KindRejected, Err: err}
		}
		resolved = append(resolved, p)
	}

	list, err := writeConcatList(filepath.Dir(dest), resolved, seconds)
	if err != nil {
		return "", err
	}
	defer os.Remove(list)

	return dest, c.ffmpeg(ctx, "slideshow",
		"-f", "concat", "-safe", "0", "-i", list,
		"-vf", fmt.Sprintf("fps=%d,scale=trunc(iw/2)*2:trunc(ih/2)*2,format=yuv420p", fps),
		"-c:v", "libx264",
		dest,
	)
}

// AddAudio replaces the audio track of videoPath with audioPath. The audio
// is looped when shorter than the video and cut when longer.
func (c *Client) AddAudio(ctx context.Context, videoPath, audioPath, dest string) (string, error) {
	inputs, err := c.resolveAll(videoPath, audioPath)
	if err != nil {
		return "", &provider.Error{Provider: composer, Op: "add_audio", Kind: provider.KindRejected, Err: err}
	}

	return dest, c.ffmpeg(ctx, "add_audio",
		"-i", inputs[0],
		"-stream_loop", "-1", "-i", inputs[1],
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "libx264", "-c:a", "aac",
		"-shortest",
		dest,
	)
}

// AddBackgroundSounds mixes voice with a looped background track played at
// volume and sets the result as the audio of videoPath.
func (c *Client) AddBackgroundSounds(ctx context.Context, videoPath, voicePath, backgroundPath, dest string, volume float64) (string, error) {
	if volume <= 0 {
		volume = DefaultBackgroundVolume
	}
	if volume > 1 {
		return "", &provider.Error{Provider: composer, Op: "mix", Kind: provider.KindRejected, Err: fmt.Errorf("volume %.2f out of range", volume)}
	}
	inputs, err := c.resolveAll(videoPath, voicePath, backgroundPath)
	if err != nil {
		return "", &provider.Error{Provider: composer, Op: "mix", Kind: provider.KindRejected, Err: err}
	}

	filter := fmt.Sprintf("[2:a]volume=%s[bg];[1:a]apad[voice];[voice][bg]amix=inputs=2:duration=longest:normalize=0[a]",
		strconv.FormatFloat(volume, 'f', -1, 64))
	return dest, c.ffmpeg(ctx, "mix",
		"-i", inputs[0],
		"-i", inputs[1],
		"-stream_loop", "-1", "-i", inputs[2],
		"-filter_complex", filter,
		"-map", "0:v:0", "-map", "[a]",
		"-c:v", "libx264", "-c:a", "aac",
		"-shortest",
		dest,
	)
}

func (c *Client) ffmpeg(ctx context.Context, op string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ComposeTimeout)
	defer cancel()

	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)
	out, err := c.cmd.Run(ctx, c.cfg.FFmpegPath, full...)
	if err == nil {
		c.logger.Debug("ffmpeg finished", "op", op, "dest", args[len(args)-1])
		return nil
	}

	_ = os.Remove(args[len(args)-1])

	kind := provider.KindRejected
	switch {
	case errors.Is(err, exec.ErrNotFound):
		kind = provider.KindUnavailable
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		kind = provider.KindTimeout
	}
	msg := strings.TrimSpace(string(out))
	if msg != "" {
		err = fmt.Errorf("%w: %s", err, msg)
	}
	c.logger.Warn("ffmpeg failed", "op", op, "kind", kind, "error", err)
	return &provider.Error{Provider: composer, Op: op, Kind: kind, Err: err}
}

func (c *Client) resolveAll(paths ...string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := c.resolve(p)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// resolve returns the absolute form of p and enforces the media root.
func (c *Client) resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsAny(p, "\r\n") {
		return "", fmt.Errorf("%w: line break in %q", ErrInvalidPath, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", p, err)
	}
	if c.cfg.MediaRoot == "" {
		return abs, nil
	}
	root, err := filepath.Abs(c.cfg.MediaRoot)
	if err != nil {
		return "", fmt.Errorf("resolving media root: %w", err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideMediaRoot, p)
	}
	return abs, nil
}

// writeConcatList writes an ffmpeg concat demuxer script. The last image is
// listed twice so its duration is honoured.
func writeConcatList(dir string, images []string, seconds float64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".slideshow-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating concat list: %w", err)
	}

	var b strings.Builder
	dur := strconv.FormatFloat(seconds, 'f', -1, 64)
	for _, img := range images {
		fmt.Fprintf(&b, "file '%s'\nduration %s\n", quote(img), dur)
	}
	fmt.Fprintf(&b, "file '%s'\n", quote(images[len(images)-1]))

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing concat list: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing concat list: %w", err)
	}
	return f.Name(), nil
}

func quote(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
	"github.com/rpggio/mediastudio/internal/media/video"
	"github.com/rpggio/mediastudio/internal/provider"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty name", project.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad type", fmt.Errorf("%w: %q", generation.ErrInvalidType, "gif"), http.StatusBadRequest, "INVALID_INPUT"},
		{"bad body", errBadRequestf("invalid JSON body"), http.StatusBadRequest, "INVALID_INPUT"},
		{"outside media root", &provider.Error{Provider: "ffmpeg", Op: "slideshow", Kind: provider.KindRejected, Err: video.ErrOutsideMediaRoot}, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid media path", &provider.Error{Provider: "ffmpeg", Op: "slideshow", Kind: provider.KindRejected, Err: video.ErrInvalidPath}, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing project", generation.ErrProjectNotFound, http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"unconfigured", fmt.Errorf("generating image: %w", provider.Unconfigured("replicate", "predict")), http.StatusServiceUnavailable, "PROVIDER_UNCONFIGURED"},
		{"rate limited", provider.FromStatus("replicate", "predict", http.StatusTooManyRequests, nil), http.StatusServiceUnavailable, "PROVIDER_RATE_LIMITED"},
		{"timeout", provider.FromStatus("elevenlabs", "text_to_speech", http.StatusGatewayTimeout, nil), http.StatusGatewayTimeout, "PROVIDER_TIMEOUT"},
		{"unauthorized", provider.FromStatus("replicate", "predict", http.StatusUnauthorized, nil), http.StatusBadGateway, "PROVIDER_UNAUTHORIZED"},
		{"rejected", provider.FromStatus("replicate", "predict", http.StatusUnprocessableEntity, nil), http.StatusBadGateway, "PROVIDER_REJECTED"},
		{"malformed", provider.Malformed("image-download", "download", errors.New("bad png")), http.StatusBadGateway, "PROVIDER_MALFORMED"},
		{"unavailable", provider.FromStatus("replicate", "predict", http.StatusInternalServerError, nil), http.StatusBadGateway, "PROVIDER_UNAVAILABLE"},
		{"storage", errors.New("disk I/O error"), http.StatusInternalServerError, "STORAGE_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err)
			require.Equal(t, tc.status, got.HTTPStatus)
			require.Equal(t, tc.code, got.Code)
			require.NotEmpty(t, got.Message)
		})
	}

	require.Nil(t, MapError(nil))
}

func TestMapError_StorageMessageHidesCause(t *testing.T) {
	got := MapError(errors.New("database is locked at /var/lib/studio.db"))
	require.NotContains(t, got.Message, "/var/lib")
}

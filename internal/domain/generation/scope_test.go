package generation_test

import (
	"testing"
	"time"

	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	for in, want := range map[string]generation.Scope{
		"":         generation.ScopeAllTime,
		"all-time": generation.ScopeAllTime,
		"history":  generation.ScopeAllTime,
		"Today":    generation.ScopeToday,
	} {
		got, err := generation.ParseScope(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := generation.ParseScope("yesterday")
	require.ErrorIs(t, err, generation.ErrInvalidInput)
}

func TestScopeWindow(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2024, 1, 31, 22, 0, 0, 0, loc)

	w := generation.ScopeToday.Window(now)
	require.Equal(t, time.Date(2024, 1, 31, 3, 0, 0, 0, time.UTC), w.Since)
	require.Equal(t, time.Date(2024, 2, 1, 3, 0, 0, 0, time.UTC), w.Until)
	require.Equal(t, time.UTC, w.Since.Location())

	require.Equal(t, generation.Window{}, generation.ScopeAllTime.Window(now))
}

func TestParseType(t *testing.T) {
	typ, err := generation.ParseType("video")
	require.NoError(t, err)
	require.Equal(t, generation.TypeVideo, typ)
	require.Equal(t, "mp4", typ.Extension())

	_, err = generation.ParseType("gif")
	require.ErrorIs(t, err, generation.ErrInvalidType)
}

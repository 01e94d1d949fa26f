package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
	"github.com/rpggio/mediastudio/internal/media/audio"
	"github.com/rpggio/mediastudio/internal/provider"
	"github.com/rpggio/mediastudio/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db          *sqlite.DB
	projectSvc  *project.Service
	genSvc      *generation.Service
	activitySvc *activity.Service
	outputDir   string
}

// speechStub writes a fixed payload or fails with err.
type speechStub struct {
	err error
}

func (s speechStub) Generate(_ context.Context, _ string, dest string, _ audio.Options) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return dest, os.WriteFile(dest, []byte("mp3"), 0o644)
}

func newTestEnv(t *testing.T, speech generation.AudioClient) *testEnv {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	projectRepo := sqlite.NewProjectRepository(db)
	generationRepo := sqlite.NewGenerationRepository(db)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	outputDir := t.TempDir()

	return &testEnv{
		db:         db,
		projectSvc: project.NewService(projectRepo, activitySvc, nil),
		genSvc: generation.NewService(generation.Dependencies{
			Generations: generationRepo,
			Projects:    projectRepo,
			Activities:  activitySvc,
			Audio:       speech,
			OutputDir:   outputDir,
		}),
		activitySvc: activitySvc,
		outputDir:   outputDir,
	}
}

func TestIntegration_ProjectRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	proj, err := env.projectSvc.Create(ctx, project.CreateRequest{Name: "Test", Description: "Desc"})
	require.NoError(t, err)
	require.Equal(t, int64(1), proj.ID)

	name := "New Name"
	_, err = env.projectSvc.Update(ctx, proj.ID, project.UpdateRequest{Name: &name})
	require.NoError(t, err)

	got, err := env.projectSvc.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", got.Name)
	require.Equal(t, "Desc", got.Description)

	other, err := env.projectSvc.Create(ctx, project.CreateRequest{Name: "Other"})
	require.NoError(t, err)
	require.NotEqual(t, proj.ID, other.ID)
}

func TestIntegration_ProjectNameStoredVerbatim(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	proj, err := env.projectSvc.Create(ctx, project.CreateRequest{Name: "  Test  ", Description: " Desc "})
	require.NoError(t, err)

	got, err := env.projectSvc.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, "  Test  ", got.Name)
	require.Equal(t, " Desc ", got.Description)

	renamed := "\tRenamed "
	_, err = env.projectSvc.Update(ctx, proj.ID, project.UpdateRequest{Name: &renamed})
	require.NoError(t, err)

	got, err = env.projectSvc.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, renamed, got.Name)
}

func TestIntegration_RecordListAndDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	proj, err := env.projectSvc.Create(ctx, project.CreateRequest{Name: "Test"})
	require.NoError(t, err)

	_, err = env.genSvc.Record(ctx, generation.RecordRequest{
		ProjectID: proj.ID, Type: generation.TypeImage, Prompt: "a cat", FilePath: "/out/a.png", DurationSeconds: 5.0,
	})
	require.NoError(t, err)

	gens, err := env.genSvc.List(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	require.Equal(t, generation.TypeImage, gens[0].Type)
	require.Equal(t, 5.0, gens[0].DurationSeconds)

	require.NoError(t, env.projectSvc.Delete(ctx, proj.ID))
	require.NoError(t, env.projectSvc.Delete(ctx, proj.ID))

	got, err := env.projectSvc.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	gens, err = env.genSvc.List(ctx, proj.ID)
	require.NoError(t, err)
	require.Empty(t, gens)

	_, err = env.genSvc.Record(ctx, generation.RecordRequest{
		ProjectID: proj.ID, Type: generation.TypeAudio, FilePath: "/out/a.mp3",
	})
	require.ErrorIs(t, err, generation.ErrProjectNotFound)

	var rows int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM generations`).Scan(&rows))
	require.Zero(t, rows)
}

func TestIntegration_StatisticsAreAdditive(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	proj, err := env.projectSvc.Create(ctx, project.CreateRequest{Name: "Stats"})
	require.NoError(t, err)

	for _, g := range []struct {
		typ generation.Type
		d   float64
	}{{generation.TypeImage, 4}, {generation.TypeImage, 5}, {generation.TypeVideo, 6}} {
		_, err := env.genSvc.Record(ctx, generation.RecordRequest{ProjectID: proj.ID, Type: g.typ, FilePath: "x", DurationSeconds: g.d})
		require.NoError(t, err)
	}

	for _, scope := range []generation.Scope{generation.ScopeToday, generation.ScopeAllTime} {
		stats, err := env.genSvc.Statistics(ctx, scope)
		require.NoError(t, err)
		require.Equal(t, generation.Statistics{ImagesCount: 2, VideosCount: 1, AudioCount: 0, TotalTime: 15}, stats, scope)
	}
}

func TestIntegration_GenerateAudio(t *testing.T) {
	env := newTestEnv(t, speechStub{})
	ctx := context.Background()

	proj, err := env.projectSvc.Create(ctx, project.CreateRequest{Name: "Voice"})
	require.NoError(t, err)

	res, err := env.genSvc.GenerateAudio(ctx, generation.AudioRequest{ProjectID: proj.ID, Text: "hello"})
	require.NoError(t, err)
	require.Equal(t, env.outputDir, filepath.Dir(res.Generation.FilePath))
	require.Equal(t, "hello", res.Generation.Prompt)

	entries, err := env.activitySvc.GetRecentActivity(ctx, activity.ListActivityOptions{ProjectID: proj.ID})
	require.NoError(t, err)
	require.Equal(t, activity.TypeGenerationRecorded, entries[0].ActivityType)
}

func TestIntegration_FailedProviderRecordsNothing(t *testing.T) {
	env := newTestEnv(t, speechStub{err: &provider.Error{Provider: "elevenlabs", Op: "text_to_speech", Kind: provider.KindTimeout}})
	ctx := context.Background()

	proj, err := env.projectSvc.Create(ctx, project.CreateRequest{Name: "Voice"})
	require.NoError(t, err)

	_, err = env.genSvc.GenerateAudio(ctx, generation.AudioRequest{ProjectID: proj.ID, Text: "hello"})
	require.True(t, provider.IsKind(err, provider.KindTimeout))

	gens, err := env.genSvc.List(ctx, proj.ID)
	require.NoError(t, err)
	require.Empty(t, gens)
}

package mocks

import (
	"context"

	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, id int64, name, description *string) error {
	args := m.Called(ctx, id, name, description)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// GenerationRepository is a mock for generation.Repository.
type GenerationRepository struct {
	mock.Mock
}

func (m *GenerationRepository) Add(ctx context.Context, gen *generation.Generation) error {
	args := m.Called(ctx, gen)
	return args.Error(0)
}

func (m *GenerationRepository) ListByProject(ctx context.Context, projectID int64) ([]generation.Generation, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]generation.Generation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GenerationRepository) Statistics(ctx context.Context, window generation.Window) (generation.Statistics, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(generation.Statistics), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

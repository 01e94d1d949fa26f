package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo       Repository
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new project service. activities may be nil.
func NewService(repo Repository, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, activities: activities, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
}

// UpdateRequest defines a partial project update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
}

// Create creates a new project and returns it with its assigned ID.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	proj := &Project{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "name", proj.Name)
	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      fmt.Sprintf("created project %q", proj.Name),
	})

	return proj, nil
}

// Get fetches a project by ID. It returns nil and no error when the project
// does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns all projects in creation order.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// Update applies a partial update and returns the updated project.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Project, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrInvalidInput
	}

	if err := s.repo.Update(ctx, id, req.Name, req.Description); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted between the update and the read.
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectUpdated,
		Summary:      fmt.Sprintf("updated project %q", proj.Name),
	})

	return proj, nil
}

// Delete removes a project together with its generations. Deleting a
// project that does not exist is a no-op.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if deleted {
		s.logger.Info("project deleted", "project_id", id)
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	entry.CreatedAt = time.Now().UTC()
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "project_id", entry.ProjectID, "type", entry.ActivityType, "error", err)
	}
}

package sqlite

import (
	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
)

var (
	_ project.Repository    = (*ProjectRepository)(nil)
	_ generation.Repository = (*GenerationRepository)(nil)
	_ activity.Repository   = (*ActivityRepository)(nil)
)

package project

import (
	"context"

	"github.com/rpggio/mediastudio/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id int64, name, description *string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ActivityLogger records project activities.
type ActivityLogger interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/repository"
)

// GenerationRepository implements generation.Repository for SQLite
type GenerationRepository struct {
	db *DB
}

// NewGenerationRepository creates a new GenerationRepository
func NewGenerationRepository(db *DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Add inserts a generation. The project check and the insert share one
// transaction so a concurrent project delete either precedes the insert,
// which then fails with repository.ErrNotFound, or cascades to it.
func (r *GenerationRepository) Add(ctx context.Context, gen *generation.Generation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, gen.ProjectID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}

	query := `
		INSERT INTO generations (project_id, type, prompt, file_path, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		gen.ProjectID,
		string(gen.Type),
		gen.Prompt,
		gen.FilePath,
		gen.DurationSeconds,
		formatTime(gen.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to add generation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read generation id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generation: %w", err)
	}
	gen.ID = id

	return nil
}

// ListByProject returns a project's generations in insertion order.
func (r *GenerationRepository) ListByProject(ctx context.Context, projectID int64) ([]generation.Generation, error) {
	query := `
		SELECT id, project_id, type, prompt, file_path, duration_seconds, created_at
		FROM generations
		WHERE project_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	gens := []generation.Generation{}
	for rows.Next() {
		var gen generation.Generation
		var typ, createdAt string
		if err := rows.Scan(&gen.ID, &gen.ProjectID, &typ, &gen.Prompt, &gen.FilePath, &gen.DurationSeconds, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		gen.Type = generation.Type(typ)
		if gen.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		gens = append(gens, gen)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generations: %w", err)
	}

	return gens, nil
}

// Statistics aggregates generations created within window in a single
// statement.
func (r *GenerationRepository) Statistics(ctx context.Context, window generation.Window) (generation.Statistics, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'image' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'video' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'audio' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(duration_seconds), 0.0)
		FROM generations
		WHERE (? IS NULL OR created_at >= ?)
		  AND (? IS NULL OR created_at < ?)
	`

	var since, until any
	if !window.Since.IsZero() {
		since = formatTime(window.Since)
	}
	if !window.Until.IsZero() {
		until = formatTime(window.Until)
	}

	var stats generation.Statistics
	err := r.db.QueryRowContext(ctx, query, since, since, until, until).Scan(
		&stats.ImagesCount,
		&stats.VideosCount,
		&stats.AudioCount,
		&stats.TotalTime,
	)
	if err != nil {
		return generation.Statistics{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	return stats, nil
}

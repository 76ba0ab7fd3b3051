// Package analyses stores analysis results in PostgreSQL. The feedback is
// kept as a JSONB document.
package analyses

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/resumeai/internal/dbx"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Analysis) (*models.Analysis, error) {
	feedback, err := json.Marshal(a.Feedback)
	if err != nil {
		return nil, fmt.Errorf("encode feedback: %w", err)
	}

	query :=
		`INSERT INTO analyses (id, user_id, source, role_target, resume_excerpt, archive_key, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, string(a.Source), a.RoleTarget, a.ResumeExcerpt, a.ArchiveKey, feedback).
		Scan(&a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Analysis, error) {
	query :=
		`SELECT id, user_id, source, role_target, resume_excerpt, archive_key, feedback, created_at
		 FROM analyses
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []*models.Analysis{}
	for rows.Next() {
		var (
			a        models.Analysis
			source   string
			feedback []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &source, &a.RoleTarget, &a.ResumeExcerpt, &a.ArchiveKey, &feedback, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.Source = models.Source(source)
		if err := json.Unmarshal(feedback, &a.Feedback); err != nil {
			return nil, fmt.Errorf("decode feedback of %s: %w", a.ID, err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

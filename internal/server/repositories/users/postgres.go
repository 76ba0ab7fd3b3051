// Package users stores accounts and usage counters in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/dbx"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetOrCreate(ctx context.Context, email string, limit int) (*models.User, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	query :=
		`INSERT INTO users (email, usage_limit)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id, email, usage_count, usage_limit, created_at
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email, limit).
		Scan(&user.ID, &user.Email, &user.UsageCount, &user.UsageLimit, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, usage_count, usage_limit, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.UsageCount, &user.UsageLimit, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) IncrementUsage(ctx context.Context, id string) (*models.User, error) {
	query :=
		`UPDATE users SET usage_count = usage_count + 1
		 WHERE id = $1 AND usage_count < usage_limit
		 RETURNING id, email, usage_count, usage_limit, created_at
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.UsageCount, &user.UsageLimit, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrQuotaExceeded
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

package resources

import (
	"context"
	"fmt"

	"github.com/Dr-Stone27/Researchub/internal/dbx"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, res *models.Resource) (*models.Resource, error) {

	query :=
		`INSERT INTO resources (title, description, type, content_url, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		res.Title, res.Description, res.Type, res.ContentURL, res.CreatedBy).
		Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Resource, error) {
	query :=
		`SELECT id, title, description, type, content_url, created_by, created_at FROM resources
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Resource
	for rows.Next() {
		res := &models.Resource{}
		if err := rows.Scan(&res.ID, &res.Title, &res.Description, &res.Type,
			&res.ContentURL, &res.CreatedBy, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

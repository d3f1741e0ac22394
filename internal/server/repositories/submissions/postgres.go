package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/Dr-Stone27/Researchub/internal/dbx"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

const submissionColumns = `id, account_id, title, abstract, supervisor, year, storage_key, status, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	s := &models.Submission{}
	err := row.Scan(&s.ID, &s.AccountID, &s.Title, &s.Abstract, &s.Supervisor,
		&s.Year, &s.StorageKey, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {

	query :=
		`INSERT INTO research_submissions (account_id, title, abstract, supervisor, year, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, status, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		s.AccountID, s.Title, s.Abstract, s.Supervisor, s.Year, s.StorageKey).
		Scan(&s.ID, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM research_submissions WHERE id = $1`

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM research_submissions
		 WHERE account_id = $1
		 ORDER BY created_at DESC`

	return r.list(ctx, query, accountID)
}

// ListApproved returns approved submissions for the library view. Filters
// are plain SQL comparisons; the title match is a case-insensitive substring.
func (r *PostgresRepository) ListApproved(ctx context.Context, filter LibraryFilter) ([]*models.Submission, error) {
	query := `SELECT s.id, s.account_id, s.title, s.abstract, s.supervisor, s.year, s.storage_key, s.status, s.created_at, s.updated_at
		 FROM research_submissions s
		 JOIN accounts a ON a.id = s.account_id
		 WHERE s.status = 'approved'`

	args := []any{}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += ` AND s.year = $` + strconv.Itoa(len(args))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		query += ` AND a.department = $` + strconv.Itoa(len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += ` AND s.title ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY s.created_at DESC`

	return r.list(ctx, query, args...)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE research_submissions SET status = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes a submission only when it belongs to accountID.
func (r *PostgresRepository) Delete(ctx context.Context, id string, accountID string) error {
	query := `DELETE FROM research_submissions WHERE id = $1 AND account_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, accountID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

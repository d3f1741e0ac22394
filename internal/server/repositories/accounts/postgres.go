package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/Dr-Stone27/Researchub/internal/dbx"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

// DuplicateAccountError reports a unique-constraint collision on Create.
// Field names the colliding attribute ("email" or "matric_or_faculty_id").
type DuplicateAccountError struct {
	Field string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("account already exists: duplicate %s", e.Field)
}

const accountColumns = `id, name, email, matric_or_faculty_id, department, password_hash, role,
       is_active, is_verified, account_status,
       verification_token, verification_token_expiry,
       password_reset_token, password_reset_token_expiry,
       first_login, last_login, token_version, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.MatricOrFacultyID, &a.Department, &a.PasswordHash, &a.Role,
		&a.IsActive, &a.IsVerified, &a.Status,
		&a.VerificationToken, &a.VerificationTokenExpiry,
		&a.PasswordResetToken, &a.PasswordResetTokenExpiry,
		&a.FirstLogin, &a.LastLogin, &a.TokenVersion, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (name, email, matric_or_faculty_id, department, password_hash, role,
		                       verification_token, verification_token_expiry)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, account_status, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Name, account.Email, account.MatricOrFacultyID, account.Department,
		account.PasswordHash, account.Role,
		account.VerificationToken, account.VerificationTokenExpiry).
		Scan(&account.ID, &account.Status, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, &DuplicateAccountError{Field: duplicateField(pgErr.ConstraintName)}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// duplicateField maps a unique-constraint name to the user-facing field.
func duplicateField(constraint string) string {
	switch {
	case strings.Contains(constraint, "matric"):
		return "matric_or_faculty_id"
	default:
		return "email"
	}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, "email = $1", email)
}

// GetByIdentifier looks an account up by email or matric/faculty number,
// whichever matches.
func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Account, error) {
	return r.getOne(ctx, "(email = $1 OR matric_or_faculty_id = $1)", identifier)
}

func (r *PostgresRepository) GetByVerificationToken(ctx context.Context, token string) (*models.Account, error) {
	return r.getOne(ctx, "verification_token = $1", token)
}

func (r *PostgresRepository) GetByResetToken(ctx context.Context, token string) (*models.Account, error) {
	return r.getOne(ctx, "password_reset_token = $1", token)
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// SetVerificationToken replaces the outstanding verification token, if any.
func (r *PostgresRepository) SetVerificationToken(ctx context.Context, id string, token string, expiry time.Time) error {
	query :=
		`UPDATE accounts SET verification_token = $2, verification_token_expiry = $3, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, token, expiry)
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

// MarkVerified activates the account and consumes the verification token in
// one statement. The token comparison in WHERE makes consumption atomic:
// a concurrent request that lost the race sees zero rows.
func (r *PostgresRepository) MarkVerified(ctx context.Context, id string, token string) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET is_verified = TRUE, account_status = 'active',
		     verification_token = NULL, verification_token_expiry = NULL, updated_at = now()
		 WHERE id = $1 AND verification_token = $2
		 RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// SetResetToken replaces the outstanding password-reset token, if any.
func (r *PostgresRepository) SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error {
	query :=
		`UPDATE accounts SET password_reset_token = $2, password_reset_token_expiry = $3, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, token, expiry)
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

// ResetPassword installs the new digest, consumes the reset token, and bumps
// token_version so outstanding session credentials stop validating. Token
// consumption is atomic via the WHERE comparison.
func (r *PostgresRepository) ResetPassword(ctx context.Context, id string, token string, passwordHash string) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET password_hash = $3, token_version = token_version + 1,
		     password_reset_token = NULL, password_reset_token_expiry = NULL, updated_at = now()
		 WHERE id = $1 AND password_reset_token = $2
		 RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, token, passwordHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// RecordLogin stamps last_login and, exactly once, first_login.
func (r *PostgresRepository) RecordLogin(ctx context.Context, id string, at time.Time) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET first_login = COALESCE(first_login, $2), last_login = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

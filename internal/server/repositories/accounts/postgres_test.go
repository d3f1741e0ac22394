package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var accountCols = []string{
	"id", "name", "email", "matric_or_faculty_id", "department", "password_hash", "role",
	"is_active", "is_verified", "account_status",
	"verification_token", "verification_token_expiry",
	"password_reset_token", "password_reset_token_expiry",
	"first_login", "last_login", "token_version", "created_at", "updated_at",
}

func accountRow(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountCols).AddRow(
		id, "Ada Lovelace", "ada@unilag.edu.ng", "180404001", "Computer Engineering",
		"$argon2id$...", "student",
		true, true, "active",
		nil, nil,
		nil, nil,
		nil, nil, 0, now, now,
	)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(.+\)\s*VALUES\s*\(\$1,.+\$8\)\s*RETURNING\s+id,\s*account_status,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "account_status", "created_at", "updated_at"}).
		AddRow("a-1", "pending", now, now)
	mock.ExpectQuery(q).WillReturnRows(rows)

	token := "tok"
	expiry := now.Add(24 * time.Hour)
	a := &models.Account{
		Name: "Ada Lovelace", Email: "ada@unilag.edu.ng",
		MatricOrFacultyID: "180404001", Department: "Computer Engineering",
		PasswordHash: "$argon2id$...", Role: "student",
		VerificationToken: &token, VerificationTokenExpiry: &expiry,
	}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "a-1" || got.Status != models.AccountPending {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), &models.Account{})
	var dup *DuplicateAccountError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateAccountError, got %v", err)
	}
	if dup.Field != "email" {
		t.Fatalf("unexpected field: %s", dup.Field)
	}
}

func TestCreate_DuplicateMatric(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_matric_or_faculty_id_key"})

	_, err := repo.Create(context.Background(), &models.Account{})
	var dup *DuplicateAccountError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateAccountError, got %v", err)
	}
	if dup.Field != "matric_or_faculty_id" {
		t.Fatalf("unexpected field: %s", dup.Field)
	}
}

func TestGetByIdentifier_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+accounts\s+WHERE\s+\(email\s*=\s*\$1\s+OR\s+matric_or_faculty_id\s*=\s*\$1\)\s*$`
	mock.ExpectQuery(q).WithArgs("180404001").WillReturnRows(accountRow("a-1"))

	got, err := repo.GetByIdentifier(context.Background(), "180404001")
	if err != nil {
		t.Fatalf("GetByIdentifier error: %v", err)
	}
	if got.ID != "a-1" || got.Email != "ada@unilag.edu.ng" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByIdentifier_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+accounts`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByIdentifier(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+accounts`).
		WithArgs("ada@unilag.edu.ng").
		WillReturnError(errors.New("db down"))

	_, err := repo.GetByEmail(context.Background(), "ada@unilag.edu.ng")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestMarkVerified_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+is_verified\s*=\s*TRUE.+WHERE\s+id\s*=\s*\$1\s+AND\s+verification_token\s*=\s*\$2\s+RETURNING`
	mock.ExpectQuery(q).WithArgs("a-1", "tok").WillReturnRows(accountRow("a-1"))

	got, err := repo.MarkVerified(context.Background(), "a-1", "tok")
	if err != nil {
		t.Fatalf("MarkVerified error: %v", err)
	}
	if !got.IsVerified || got.Status != models.AccountActive {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestMarkVerified_TokenAlreadyConsumed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+accounts\s+SET\s+is_verified`).
		WithArgs("a-1", "tok").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkVerified(context.Background(), "a-1", "tok")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestSetResetToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+accounts\s+SET\s+password_reset_token`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetResetToken(context.Background(), "ghost", "tok", time.Now())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestResetPassword_ConsumesToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+password_hash\s*=\s*\$3,\s*token_version\s*=\s*token_version\s*\+\s*1.+WHERE\s+id\s*=\s*\$1\s+AND\s+password_reset_token\s*=\s*\$2\s+RETURNING`
	mock.ExpectQuery(q).WithArgs("a-1", "tok", "$argon2id$new").WillReturnRows(accountRow("a-1"))

	if _, err := repo.ResetPassword(context.Background(), "a-1", "tok", "$argon2id$new"); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}

	mock.ExpectQuery(q).WithArgs("a-1", "tok", "$argon2id$new").WillReturnError(sql.ErrNoRows)
	_, err := repo.ResetPassword(context.Background(), "a-1", "tok", "$argon2id$new")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken on consumed token, got %v", err)
	}
}

func TestRecordLogin_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+first_login\s*=\s*COALESCE\(first_login,\s*\$2\),\s*last_login\s*=\s*\$2.+RETURNING`
	now := time.Now()

	rows := accountRow("a-1")
	mock.ExpectQuery(q).WithArgs("a-1", now).WillReturnRows(rows)

	got, err := repo.RecordLogin(context.Background(), "a-1", now)
	if err != nil {
		t.Fatalf("RecordLogin error: %v", err)
	}
	if got.ID != "a-1" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

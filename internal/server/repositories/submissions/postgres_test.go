package submissions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

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

var submissionCols = []string{
	"id", "account_id", "title", "abstract", "supervisor", "year",
	"storage_key", "status", "created_at", "updated_at",
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+research_submissions\s*\(.+\)\s*VALUES\s*\(\$1,.+\$6\)\s*RETURNING\s+id,\s*status,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
		AddRow("s-1", "pending", now, now)
	mock.ExpectQuery(q).
		WithArgs("a-1", "Adaptive Dampers", "abstract", "Prof. X", 2025, "research/2025/08/30/abc").
		WillReturnRows(rows)

	s := &models.Submission{
		AccountID: "a-1", Title: "Adaptive Dampers", Abstract: "abstract",
		Supervisor: "Prof. X", Year: 2025, StorageKey: "research/2025/08/30/abc",
	}
	got, err := repo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "s-1" || got.Status != models.SubmissionPending {
		t.Fatalf("unexpected submission: %+v", got)
	}
}

func TestListApproved_Filters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(submissionCols).
		AddRow("s-1", "a-1", "Adaptive Dampers", "ab", "Prof. X", 2025, "k", "approved", now, now)

	q := `(?s)^SELECT\s+.+\s+FROM\s+research_submissions\s+s\s+JOIN\s+accounts\s+a.+WHERE\s+s\.status\s*=\s*'approved'\s+AND\s+s\.year\s*=\s*\$1\s+AND\s+a\.department\s*=\s*\$2\s+AND\s+s\.title\s+ILIKE\s+\$3\s+ORDER\s+BY`
	mock.ExpectQuery(q).
		WithArgs(2025, "Computer Engineering", "%damper%").
		WillReturnRows(rows)

	got, err := repo.ListApproved(context.Background(), LibraryFilter{
		Year: 2025, Department: "Computer Engineering", Query: "damper",
	})
	if err != nil {
		t.Fatalf("ListApproved error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestListApproved_NoFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+research_submissions\s+s\s+JOIN\s+accounts\s+a.+WHERE\s+s\.status\s*=\s*'approved'\s+ORDER\s+BY`
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(submissionCols))

	got, err := repo.ListApproved(context.Background(), LibraryFilter{})
	if err != nil {
		t.Fatalf("ListApproved error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestDelete_WrongOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+research_submissions\s+WHERE\s+id\s*=\s*\$1\s+AND\s+account_id\s*=\s*\$2\s*$`).
		WithArgs("s-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "s-1", "intruder")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

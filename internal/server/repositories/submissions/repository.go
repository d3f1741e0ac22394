// Package submissions persists research submission metadata. Documents
// themselves live in object storage and are addressed by StorageKey.
package submissions

import (
	"context"

	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

// LibraryFilter narrows the approved-submissions listing. Zero values mean
// no constraint.
type LibraryFilter struct {
	Year       int
	Department string
	Query      string
}

type Repository interface {
	Create(ctx context.Context, s *models.Submission) (*models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Submission, error)
	ListApproved(ctx context.Context, filter LibraryFilter) ([]*models.Submission, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string, accountID string) error
}

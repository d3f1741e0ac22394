// Package tags persists the tag catalog. Core tags are seeded by faculty;
// student suggestions land as pending until approved.
package tags

import (
	"context"

	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	ListApproved(ctx context.Context) ([]*models.Tag, error)
}

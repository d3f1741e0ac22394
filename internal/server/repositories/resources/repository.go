// Package resources persists the catalog of guides, templates, and similar
// reference materials.
package resources

import (
	"context"

	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, res *models.Resource) (*models.Resource, error)
	List(ctx context.Context) ([]*models.Resource, error)
}

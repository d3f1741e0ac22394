// Package notifications persists per-account notification records.
// Delivery channels are out of scope; records are created by other services
// and read back over the API.
package notifications

import (
	"context"

	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string, accountID string) error
}

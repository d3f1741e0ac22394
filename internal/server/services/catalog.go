package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dr-Stone27/Researchub/internal/server/models"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/repomanager"
)

// CatalogService covers the small read-mostly surfaces around submissions:
// the tag list, per-account notifications, and the resource catalog.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, repomanager repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: repomanager}
}

// ListTags returns the approved tag catalog.
func (s *CatalogService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.repomanager.Tags(s.db).ListApproved(ctx)
}

// SuggestTag records a student-suggested tag in pending state. Moderation is
// administrative and happens outside this API.
func (s *CatalogService) SuggestTag(ctx context.Context, accountID, name, category string) (*models.Tag, error) {
	tag := &models.Tag{
		Name:      name,
		Category:  category,
		Type:      "suggested",
		Status:    "pending",
		CreatedBy: &accountID,
	}
	tag, err := s.repomanager.Tags(s.db).Create(ctx, tag)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// ListNotifications returns the account's notifications, newest first.
func (s *CatalogService) ListNotifications(ctx context.Context, accountID string) ([]*models.Notification, error) {
	return s.repomanager.Notifications(s.db).ListByAccount(ctx, accountID)
}

// MarkNotificationRead flags one of the account's notifications as read.
func (s *CatalogService) MarkNotificationRead(ctx context.Context, id, accountID string) error {
	return s.repomanager.Notifications(s.db).MarkRead(ctx, id, accountID)
}

// ListResources returns the resource catalog.
func (s *CatalogService) ListResources(ctx context.Context) ([]*models.Resource, error) {
	return s.repomanager.Resources(s.db).List(ctx)
}

// CreateResource adds a catalog record.
func (s *CatalogService) CreateResource(ctx context.Context, accountID string, res *models.Resource) (*models.Resource, error) {
	res.CreatedBy = accountID
	res, err := s.repomanager.Resources(s.db).Create(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("error creating resource: %v", err)
	}
	return res, nil
}

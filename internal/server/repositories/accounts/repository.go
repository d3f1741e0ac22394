// Package accounts persists registrant accounts and the single-use token
// state driving the verification and password-reset flows.
package accounts

import (
	"context"
	"time"

	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.Account, error)
	GetByResetToken(ctx context.Context, token string) (*models.Account, error)

	SetVerificationToken(ctx context.Context, id string, token string, expiry time.Time) error
	MarkVerified(ctx context.Context, id string, token string) (*models.Account, error)
	SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error
	ResetPassword(ctx context.Context, id string, token string, passwordHash string) (*models.Account, error)

	RecordLogin(ctx context.Context, id string, at time.Time) (*models.Account, error)
}

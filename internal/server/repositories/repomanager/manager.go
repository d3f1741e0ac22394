package repomanager

import (
	"context"
	"database/sql"

	"github.com/Dr-Stone27/Researchub/internal/dbx"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/accounts"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/notifications"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/resources"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/submissions"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/tags"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Submissions(db dbx.DBTX) submissions.Repository
	Tags(db dbx.DBTX) tags.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	Resources(db dbx.DBTX) resources.Repository
}

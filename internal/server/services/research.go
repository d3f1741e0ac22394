package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Dr-Stone27/Researchub/internal/common"
	sc "github.com/Dr-Stone27/Researchub/internal/server/config"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/repomanager"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/submissions"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// SubmissionInput carries the metadata for a new research submission.
type SubmissionInput struct {
	Title      string
	Abstract   string
	Supervisor string
	Year       int
}

// ResearchService manages research submissions: metadata rows in Postgres
// and documents in S3-compatible object storage, accessed only through
// presigned URLs so the server never proxies file bytes.
type ResearchService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewResearchService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ResearchService {
	return &ResearchService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetRandomStorageKey returns a fresh object key partitioned by date.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("research/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ResearchService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *ResearchService) getPresignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *ResearchService) getPresignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Create stores submission metadata in pending state and returns it together
// with a presigned PUT URL the client uploads the document to. It also drops
// a notification for the submitting account.
func (s *ResearchService) Create(ctx context.Context, accountID string, in SubmissionInput) (*models.Submission, string, error) {
	key := GetRandomStorageKey()

	uploadURL, err := s.getPresignedPutURL(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %v", err)
	}

	submission := &models.Submission{
		AccountID:  accountID,
		Title:      in.Title,
		Abstract:   in.Abstract,
		Supervisor: in.Supervisor,
		Year:       in.Year,
		StorageKey: key,
	}

	repo := s.repomanager.Submissions(s.db)
	submission, err = repo.Create(ctx, submission)
	if err != nil {
		return nil, "", fmt.Errorf("error creating submission: %v", err)
	}

	notifRepo := s.repomanager.Notifications(s.db)
	_, err = notifRepo.Create(ctx, &models.Notification{
		AccountID: accountID,
		Type:      "submission_received",
		Message:   fmt.Sprintf("Your submission %q was received and is awaiting review.", submission.Title),
	})
	if err != nil {
		return nil, "", fmt.Errorf("error creating notification: %v", err)
	}

	return submission, uploadURL, nil
}

// ListMine returns the account's own submissions, any status.
func (s *ResearchService) ListMine(ctx context.Context, accountID string) ([]*models.Submission, error) {
	return s.repomanager.Submissions(s.db).ListByAccount(ctx, accountID)
}

// Get returns one submission. Pending submissions are visible only to their
// owner.
func (s *ResearchService) Get(ctx context.Context, id, accountID string) (*models.Submission, error) {
	submission, err := s.repomanager.Submissions(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.SubmissionApproved && submission.AccountID != accountID {
		return nil, common.ErrorNotFound
	}
	return submission, nil
}

// GetDownloadURL presigns a GET for the submission's document, with the same
// visibility rule as Get.
func (s *ResearchService) GetDownloadURL(ctx context.Context, id, accountID string) (string, error) {
	submission, err := s.Get(ctx, id, accountID)
	if err != nil {
		return "", err
	}
	url, err := s.getPresignedGetURL(ctx, submission.StorageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %v", err)
	}
	return url, nil
}

// BrowseLibrary lists approved submissions with optional filters.
func (s *ResearchService) BrowseLibrary(ctx context.Context, filter submissions.LibraryFilter) ([]*models.Submission, error) {
	return s.repomanager.Submissions(s.db).ListApproved(ctx, filter)
}

// Delete removes the account's own submission.
func (s *ResearchService) Delete(ctx context.Context, id, accountID string) error {
	err := s.repomanager.Submissions(s.db).Delete(ctx, id, accountID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error deleting submission: %v", err)
	}
	return err
}

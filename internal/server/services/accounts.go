// Package services contains server-side business logic. This file implements
// AccountService, which drives the account lifecycle: registration, email
// verification, login, and password reset.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/Dr-Stone27/Researchub/internal/logging"
	"github.com/Dr-Stone27/Researchub/internal/server/auth"
	"github.com/Dr-Stone27/Researchub/internal/server/config"
	"github.com/Dr-Stone27/Researchub/internal/server/mailer"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
	"github.com/Dr-Stone27/Researchub/internal/server/password"
	"github.com/Dr-Stone27/Researchub/internal/server/rate"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/repomanager"
	"github.com/Dr-Stone27/Researchub/internal/server/tokens"
)

// ValidationError reports per-field problems with a registration or reset
// request. Keys are request field names; values are human-readable reasons.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Name              string
	Email             string
	MatricOrFacultyID string
	Department        string
	Password          string
	ConfirmPassword   string
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	Account     *models.Account
}

// MailEnqueuer hands messages to the asynchronous delivery worker.
type MailEnqueuer interface {
	Enqueue(msg mailer.Message) bool
}

var (
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	matricPattern = regexp.MustCompile(`^\d{9}$`)
)

// AccountService implements the account state machine. An account starts
// pending, becomes active on email verification, and may be disabled
// administratively. Login is allowed only for active, verified accounts.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *password.Hasher
	codec       *tokens.Codec
	limiter     *rate.Limiter
	mail        MailEnqueuer
	log         logging.Logger

	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	publicBaseURL               string

	// dummyHash is verified against when no account matches a login
	// identifier, to keep the miss path doing the same argon2 work as a hit.
	dummyHash string

	// now is a seam for tests.
	now func() time.Time
}

// NewAccountService constructs an AccountService using repositories,
// collaborators, and server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, limiter *rate.Limiter,
	mail MailEnqueuer, log logging.Logger, cfg *config.Config) (*AccountService, error) {

	hasher := password.NewHasher(password.DefaultParams())
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %v", err)
	}

	return &AccountService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		codec:                       tokens.NewCodec(cfg.VerificationTokenTTL, cfg.ResetTokenTTL),
		limiter:                     limiter,
		mail:                        mail,
		log:                         log,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		publicBaseURL:               cfg.PublicBaseURL,
		dummyHash:                   dummyHash,
		now:                         time.Now,
	}, nil
}

// Register validates the input, creates a pending account with a fresh
// verification token, and queues the verification email. Duplicate email or
// matric number surfaces as *accounts.DuplicateAccountError.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	if err := s.validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	token, expiry, err := s.codec.Issue(tokens.PurposeEmailVerification)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		Name:                    in.Name,
		Email:                   in.Email,
		MatricOrFacultyID:       in.MatricOrFacultyID,
		Department:              in.Department,
		PasswordHash:            hash,
		Role:                    "student",
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}

	repo := s.repomanager.Accounts(s.db)
	account, err = repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.mail.Enqueue(mailer.VerificationMessage(account.Email, account.Name, s.verifyURL(token)))

	s.log.Info(ctx, "account registered", "account_id", account.ID, "department", account.Department)
	return account, nil
}

func (s *AccountService) validateRegistration(in RegisterInput) error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if !emailPattern.MatchString(in.Email) {
		fields["email"] = "invalid email address"
	}
	if !matricPattern.MatchString(in.MatricOrFacultyID) {
		fields["matric_or_faculty_id"] = "must be exactly 9 digits"
	}
	if !models.ValidDepartment(in.Department) {
		fields["department"] = "unknown department"
	}
	if err := password.CheckPolicy(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	if in.ConfirmPassword != in.Password {
		fields["confirm_password"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// VerifyEmail consumes a verification token and activates the account.
// A token that matches no account, or was already consumed, yields
// ErrInvalidToken; a matching but stale token yields ErrTokenExpired.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	if err := s.codec.Check(account.VerificationToken, account.VerificationTokenExpiry, token); err != nil {
		return nil, err
	}

	account, err = repo.MarkVerified(ctx, account.ID, token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "account verified", "account_id", account.ID)
	return account, nil
}

// ResendVerification issues a replacement verification token. An unknown
// email returns success without sending anything, so the endpoint cannot be
// used to probe for registered addresses. An already verified account yields
// ErrAlreadyVerified.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	if account.IsVerified {
		return common.ErrAlreadyVerified
	}

	token, expiry, err := s.codec.Issue(tokens.PurposeEmailVerification)
	if err != nil {
		return common.ErrorInternal
	}
	if err := repo.SetVerificationToken(ctx, account.ID, token, expiry); err != nil {
		return common.ErrorInternal
	}

	s.mail.Enqueue(mailer.VerificationMessage(account.Email, account.Name, s.verifyURL(token)))
	return nil
}

// Login authenticates by email or matric/faculty number. The rate limiter
// records the attempt before any credential work, so rejected attempts count
// toward the window; the limit error passes through untouched. Credential
// failures, unverified accounts, and disabled accounts all collapse into
// ErrInvalidCredentials so responses do not reveal which condition held.
func (s *AccountService) Login(ctx context.Context, identifier, plaintext, address string) (*Session, error) {
	if err := s.limiter.CheckAndRecord(ctx, address); err != nil {
		var limitErr *rate.LimitError
		if errors.As(err, &limitErr) {
			return nil, err
		}
		s.log.Error(ctx, "rate limiter unavailable", "error", err)
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn the same hashing work as the found path.
			_, _ = s.hasher.Verify(plaintext, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Verify(plaintext, account.PasswordHash)
	if err != nil || !ok {
		return nil, common.ErrInvalidCredentials
	}
	if !account.IsVerified || !account.IsActive || account.Status != models.AccountActive {
		return nil, common.ErrInvalidCredentials
	}

	account, err = repo.RecordLogin(ctx, account.ID, s.now().UTC())
	if err != nil {
		return nil, common.ErrorInternal
	}

	access, err := auth.GenerateToken(account.ID, account.Role, account.TokenVersion,
		s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "login", "account_id", account.ID)
	return &Session{AccessToken: access, Account: account}, nil
}

// ForgotPassword issues a reset token and queues the reset email. Like
// ResendVerification, unknown emails return success.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	token, expiry, err := s.codec.Issue(tokens.PurposePasswordReset)
	if err != nil {
		return common.ErrorInternal
	}
	if err := repo.SetResetToken(ctx, account.ID, token, expiry); err != nil {
		return common.ErrorInternal
	}

	s.mail.Enqueue(mailer.ResetMessage(account.Email, account.Name, s.resetURL(token)))
	return nil
}

// ResetPassword installs a new password for the account holding the reset
// token. Checks run in a fixed order: confirmation mismatch, then password
// policy, then token validity. Success consumes the token and bumps the
// account's token version, revoking outstanding sessions.
func (s *AccountService) ResetPassword(ctx context.Context, token, plaintext, confirm string) error {
	if plaintext != confirm {
		return common.ErrPasswordMismatch
	}
	if err := password.CheckPolicy(plaintext); err != nil {
		return err
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return common.ErrorInternal
	}

	if err := s.codec.Check(account.PasswordResetToken, account.PasswordResetTokenExpiry, token); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return common.ErrorInternal
	}

	if _, err := repo.ResetPassword(ctx, account.ID, token, hash); err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return err
		}
		return common.ErrorInternal
	}

	s.log.Info(ctx, "password reset", "account_id", account.ID)
	return nil
}

// GetByID loads one account. Used by the session middleware to revalidate
// token version and status on every request.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, id)
}

func (s *AccountService) verifyURL(token string) string {
	return fmt.Sprintf("%s/api/auth/verify-email?token=%s", s.publicBaseURL, token)
}

func (s *AccountService) resetURL(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.publicBaseURL, token)
}

package managers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"blog-server/internal/config"
	"blog-server/internal/repositories"
	"blog-server/internal/schemas"
	"blog-server/internal/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// VerificationMgr owns signup, email verification and credential checks.
type VerificationMgr interface {
	Register(ctx context.Context, name, email, password string) (*schemas.User, error)
	Verify(ctx context.Context, token string) (*schemas.User, error)
	Resend(ctx context.Context, email string) error
	Authenticate(ctx context.Context, email, password string) (*schemas.User, error)
	Login(ctx context.Context, email, password string) (*schemas.User, error)
}

// VerificationManager implements VerificationMgr.
//
// A user is created unverified with a single-use token. Verify moves the user to verified
// exactly once, Resend replaces the pending token.
type VerificationManager struct {
	DatabaseManager DatabaseMgr
	MailManager     MailMgr
	EmailVerifier   EmailVerifier
	frontendURL     string
	tokenTTL        time.Duration
	bcryptCost      int
	now             func() time.Time
}

// NewVerificationManager wires the verification flow.
func NewVerificationManager(cfg *config.Config, databaseMgr DatabaseMgr, mailMgr MailMgr, emailVerifier EmailVerifier) *VerificationManager {
	return &VerificationManager{
		DatabaseManager: databaseMgr,
		MailManager:     mailMgr,
		EmailVerifier:   emailVerifier,
		frontendURL:     cfg.FrontendURL,
		tokenTTL:        cfg.VerificationTTL,
		bcryptCost:      bcrypt.DefaultCost,
		now:             time.Now,
	}
}

func (vm *VerificationManager) users() repositories.UserRepository {
	return repositories.NewUserRepository(vm.DatabaseManager.GetPool())
}

func (vm *VerificationManager) timestamp() time.Time {
	return vm.now().UTC().Truncate(time.Microsecond)
}

// Register creates an unverified user and mails the verification link.
// Nothing is stored when the address is taken or undeliverable. When the mail cannot be
// sent the user stays stored and ErrMailNotSent is returned.
func (vm *VerificationManager) Register(ctx context.Context, name, email, password string) (*schemas.User, error) {
	if len(password) > utils.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	users := vm.users()

	_, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	verdict, err := vm.EmailVerifier.Verify(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmailVerificationFailed, err)
	}
	switch verdict {
	case VerdictUndeliverable:
		return nil, ErrEmailUndeliverable
	case VerdictUnknown:
		return nil, ErrEmailVerificationFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), vm.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return nil, err
	}

	now := vm.timestamp()
	expiresAt := now.Add(vm.tokenTTL)
	user := &schemas.User{
		ID:                    uuid.New(),
		Email:                 email,
		Name:                  name,
		Password:              string(hash),
		Role:                  schemas.RoleUser,
		VerificationToken:     &token,
		VerificationExpiresAt: &expiresAt,
		PostIDs:               []uuid.UUID{},
		CreatedAt:             now,
	}

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	utils.LogMessageWithFields(ctx, "info", "Registered user "+user.ID.String())

	if err := vm.MailManager.SendVerificationMail(ctx, email, name, vm.verificationLink(token)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMailNotSent, err)
	}

	return user, nil
}

// Verify consumes a verification token. Lookup, expiry check and state change happen in one
// transaction holding the user row lock. An expired token is cleared as well.
func (vm *VerificationManager) Verify(ctx context.Context, token string) (*schemas.User, error) {
	tx, transactionCtx, cancel, err := utils.BeginTransaction(ctx, vm.DatabaseManager.GetPool())
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			utils.RollbackTransaction(transactionCtx, tx)
		}
		cancel()
	}()

	users := repositories.NewUserRepository(tx)
	user, err := users.FindByVerificationToken(transactionCtx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrVerificationTokenNotFound
		}
		return nil, err
	}

	if user.VerificationExpiresAt == nil || !vm.now().Before(*user.VerificationExpiresAt) {
		if err := users.ClearVerificationToken(transactionCtx, user.ID); err != nil {
			return nil, err
		}
		if err := utils.CommitTransaction(transactionCtx, tx, cancel); err != nil {
			return nil, err
		}
		committed = true
		return nil, ErrVerificationTokenExpired
	}

	if err := users.SetVerified(transactionCtx, user.ID); err != nil {
		return nil, err
	}
	if err := users.ClearVerificationToken(transactionCtx, user.ID); err != nil {
		return nil, err
	}
	if err := utils.CommitTransaction(transactionCtx, tx, cancel); err != nil {
		return nil, err
	}
	committed = true

	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationExpiresAt = nil

	if err := vm.MailManager.SendConfirmationMail(ctx, user.Email, user.Name); err != nil {
		log.Warn("Confirmation mail not sent: ", err)
	}

	return user, nil
}

// Resend issues a new verification token, discarding the previous one, and mails it.
func (vm *VerificationManager) Resend(ctx context.Context, email string) error {
	users := vm.users()

	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return err
	}
	if err := users.SetVerificationToken(ctx, user.ID, token, vm.timestamp().Add(vm.tokenTTL)); err != nil {
		return err
	}

	if err := vm.MailManager.SendVerificationMail(ctx, user.Email, user.Name, vm.verificationLink(token)); err != nil {
		return fmt.Errorf("%w: %w", ErrMailNotSent, err)
	}
	return nil
}

// Authenticate checks email and password only.
func (vm *VerificationManager) Authenticate(ctx context.Context, email, password string) (*schemas.User, error) {
	user, err := vm.users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and additionally requires a verified email address.
func (vm *VerificationManager) Login(ctx context.Context, email, password string) (*schemas.User, error) {
	user, err := vm.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, ErrUserNotVerified
	}
	return user, nil
}

func (vm *VerificationManager) verificationLink(token string) string {
	return vm.frontendURL + "/verify-email?token=" + url.QueryEscape(token)
}

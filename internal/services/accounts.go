package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/identity/internal/audit"
	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/database/accounts"
	"github.com/mrlokans/identity/internal/database/verifications"
	"github.com/mrlokans/identity/internal/entities"
	"github.com/mrlokans/identity/internal/logging"
)

// AccountServiceConfig holds the collaborators of an AccountService.
// Notifier and Audit are optional.
type AccountServiceConfig struct {
	DB            *gorm.DB
	Accounts      *accounts.Repository
	Verifications *verifications.Repository
	Tokens        *auth.TokenService
	Notifier      VerificationNotifier
	Audit         AuditRecorder
	Logger        logging.Logger
}

// AccountService implements registration, login, profile editing and email
// verification on top of the account directory.
type AccountService struct {
	db            *gorm.DB
	accounts      *accounts.Repository
	verifications *verifications.Repository
	tokens        *auth.TokenService
	notifier      VerificationNotifier
	audit         AuditRecorder
	logger        logging.Logger
}

func NewAccountService(cfg AccountServiceConfig) *AccountService {
	s := &AccountService{
		db:            cfg.DB,
		accounts:      cfg.Accounts,
		verifications: cfg.Verifications,
		tokens:        cfg.Tokens,
		notifier:      cfg.Notifier,
		audit:         cfg.Audit,
		logger:        cfg.Logger,
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	if s.audit == nil {
		s.audit = noopAuditor{}
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// Register creates an account and its first verification ticket.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) Output {
	if err := in.Validate(); err != nil {
		return failure(err.Error(), CodeInvalidInput)
	}
	if in.Role == "" {
		in.Role = entities.AccountRoleClient
	}

	exists, err := s.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return s.fail(ctx, "register", err)
	}
	if exists {
		s.audit.LogAccount(ctx, 0, audit.ActionRegister, in.Email, errors.New(MsgDuplicateEmail))
		return failure(MsgDuplicateEmail, CodeDuplicateAccount)
	}

	account := &entities.Account{Email: in.Email, Password: in.Password, Role: in.Role}
	var ticket *entities.Verification

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.accounts.WithTx(tx).Insert(ctx, account); err != nil {
			return err
		}
		issued, err := s.verifications.WithTx(tx).Issue(ctx, account.ID)
		if err != nil {
			return err
		}
		ticket = issued
		return nil
	})
	if err != nil {
		return s.fail(ctx, "register", err)
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID, "role", account.Role)
	s.audit.LogAccount(ctx, account.ID, audit.ActionRegister, account.Email, nil)
	s.notify(ctx, account.Email, ticket)

	return success()
}

// Login checks the credentials and issues a session token.
func (s *AccountService) Login(ctx context.Context, in LoginInput) LoginOutput {
	if err := in.Validate(); err != nil {
		return LoginOutput{Output: failure(err.Error(), CodeInvalidInput)}
	}

	account, err := s.accounts.FindByEmail(ctx, in.Email, "id", "password")
	if errors.Is(err, auth.ErrNotFound) {
		s.audit.LogAuth(ctx, 0, audit.ActionLogin, errors.New(MsgUserNotFound))
		return LoginOutput{Output: failure(MsgUserNotFound, CodeInvalidCredentials)}
	}
	if err != nil {
		return LoginOutput{Output: s.fail(ctx, "login", err)}
	}

	ok, err := auth.CheckPassword(in.Password, account.PasswordDigest)
	if err != nil {
		return LoginOutput{Output: s.fail(ctx, "login", err)}
	}
	if !ok {
		s.audit.LogAuth(ctx, account.ID, audit.ActionLogin, errors.New(MsgWrongPassword))
		return LoginOutput{Output: failure(MsgWrongPassword, CodeInvalidCredentials)}
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return LoginOutput{Output: s.fail(ctx, "login", err)}
	}

	s.audit.LogAuth(ctx, account.ID, audit.ActionLogin, nil)
	return LoginOutput{Output: success(), Token: token}
}

// EditProfile applies the supplied fields to the account. Changing the email
// resets verification and issues a new ticket; the ticket is written before
// the account in the same transaction.
func (s *AccountService) EditProfile(ctx context.Context, accountID uint, in EditProfileInput) Output {
	if err := in.Validate(); err != nil {
		return failure(err.Error(), CodeInvalidInput)
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if errors.Is(err, auth.ErrNotFound) {
		return failure(MsgUserNotFound, CodeNotFound)
	}
	if err != nil {
		return s.fail(ctx, "edit profile", err)
	}

	emailChanged := in.Email != nil && *in.Email != account.Email
	if in.Password != nil && *in.Password != "" {
		account.Password = *in.Password
	}

	var ticket *entities.Verification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accountsTx := s.accounts.WithTx(tx)

		if emailChanged {
			taken, err := accountsTx.ExistsByEmail(ctx, *in.Email)
			if err != nil {
				return err
			}
			if taken {
				return auth.ErrDuplicateAccount
			}

			account.Email = *in.Email
			account.Verified = false

			issued, err := s.verifications.WithTx(tx).Issue(ctx, account.ID)
			if err != nil {
				return err
			}
			ticket = issued
		}

		return accountsTx.Save(ctx, account)
	})
	if err != nil {
		s.audit.LogAccount(ctx, accountID, audit.ActionEditProfile, "", err)
		return s.fail(ctx, "edit profile", err)
	}

	description := "profile updated"
	if emailChanged {
		description = "email changed"
	}
	s.audit.LogAccount(ctx, accountID, audit.ActionEditProfile, description, nil)
	if ticket != nil {
		s.notify(ctx, account.Email, ticket)
	}

	return success()
}

// VerifyEmail redeems a ticket and marks its account verified. Redeeming the
// same ticket again is harmless.
func (s *AccountService) VerifyEmail(ctx context.Context, in VerifyEmailInput) Output {
	if err := in.Validate(); err != nil {
		return failure(err.Error(), CodeInvalidInput)
	}

	ticket, err := s.verifications.FindByCode(ctx, in.Code)
	if errors.Is(err, auth.ErrNotFound) {
		return failure(MsgVerificationNotFound, CodeNotFound)
	}
	if err != nil {
		return s.fail(ctx, "verify email", err)
	}

	account := ticket.Account
	account.Verified = true
	if err := s.accounts.Save(ctx, &account); err != nil {
		return s.fail(ctx, "verify email", err)
	}

	s.audit.LogAccount(ctx, account.ID, audit.ActionVerifyEmail, account.Email, nil)
	return success()
}

// Profile returns another account's public profile.
func (s *AccountService) Profile(ctx context.Context, accountID uint) AccountOutput {
	account, err := s.accounts.FindByID(ctx, accountID)
	if errors.Is(err, auth.ErrNotFound) {
		return AccountOutput{Output: failure(MsgProfileNotFound, CodeNotFound)}
	}
	if err != nil {
		return AccountOutput{Output: s.fail(ctx, "profile", err)}
	}
	return AccountOutput{Output: success(), Account: account}
}

// Me returns the account attached to ctx by the authentication middleware.
func (s *AccountService) Me(ctx context.Context) AccountOutput {
	account := auth.AccountFromContext(ctx)
	if account == nil {
		return AccountOutput{Output: failure(MsgForbidden, CodeForbidden)}
	}
	return AccountOutput{Output: success(), Account: account}
}

// DeleteAccount removes the account and its verification tickets.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID uint) Output {
	err := s.accounts.Delete(ctx, accountID)
	if errors.Is(err, auth.ErrNotFound) {
		return failure(MsgUserNotFound, CodeNotFound)
	}
	if err != nil {
		return s.fail(ctx, "delete account", err)
	}

	s.audit.LogAccount(ctx, accountID, audit.ActionDelete, "", nil)
	return success()
}

// notify hands the ticket to the notifier. Delivery problems do not undo
// the committed change; the account can request a new ticket by editing
// its email.
func (s *AccountService) notify(ctx context.Context, email string, ticket *entities.Verification) {
	if err := s.notifier.NotifyVerification(ctx, email, ticket); err != nil {
		s.logger.Warn(ctx, "failed to dispatch verification", "account_id", ticket.AccountID, "error", err)
	}
}

// fail maps an error to an Output. Anything not caused by the caller is
// logged and reported as an internal error.
func (s *AccountService) fail(ctx context.Context, op string, err error) Output {
	switch {
	case errors.Is(err, auth.ErrDuplicateAccount):
		return failure(MsgDuplicateEmail, CodeDuplicateAccount)
	case isInvalidInput(err):
		return failure(err.Error(), CodeInvalidInput)
	}

	var hashErr *auth.HashingError
	if errors.As(err, &hashErr) {
		s.logger.Error(ctx, "password hashing failed", "op", op, "error", err)
	} else {
		s.logger.Error(ctx, "account operation failed", "op", op, "error", err)
	}
	return internalFailure()
}

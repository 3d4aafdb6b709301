package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/identity/internal/config"
	"github.com/mrlokans/identity/internal/database"
	"github.com/mrlokans/identity/internal/database/accounts"
	"github.com/mrlokans/identity/internal/database/verifications"
	"github.com/mrlokans/identity/internal/entities"
	"github.com/mrlokans/identity/internal/logging"
	"github.com/mrlokans/identity/internal/services"
)

// CreateAccountCommand registers an account from the command line. Useful
// for bootstrapping the first owner before mail delivery is configured.
type CreateAccountCommand struct {
	Email        string
	Password     string
	Role         string
	DatabasePath string
	Verified     bool

	cfg *config.Config
	out io.Writer
}

func NewCreateAccountCommand(cfg *config.Config) *CreateAccountCommand {
	return &CreateAccountCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *CreateAccountCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-account", flag.ContinueOnError)

	fs.StringVar(&cmd.Email, "email", "", "Email address of the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password of the new account (required)")
	fs.StringVar(&cmd.Role, "role", string(entities.AccountRoleClient), "Role: client, owner or delivery")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the SQLite database (ignored for postgres)")
	fs.BoolVar(&cmd.Verified, "verified", false, "Mark the email as verified immediately")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-account [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-account -email admin@example.com -password secret -role owner -verified\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	return nil
}

func (cmd *CreateAccountCommand) Run() error {
	ctx := context.Background()

	dbCfg := cmd.cfg.Database
	if cmd.DatabasePath != "" {
		dbCfg.Path = cmd.DatabasePath
	}
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	notifier := &codeCapture{}
	service := services.NewAccountService(services.AccountServiceConfig{
		DB:            db.DB,
		Accounts:      accounts.NewRepository(db.DB, cmd.cfg.Auth.BcryptCost),
		Verifications: verifications.NewRepository(db.DB),
		Notifier:      notifier,
		Logger:        logging.Discard(),
	})

	out := service.Register(ctx, services.RegisterInput{
		Email:    cmd.Email,
		Password: cmd.Password,
		Role:     entities.AccountRole(cmd.Role),
	})
	if !out.OK {
		return fmt.Errorf("create account: %s", out.Error)
	}
	fmt.Fprintf(cmd.out, "Created account %s (%s)\n", cmd.Email, cmd.Role)

	if !cmd.Verified {
		fmt.Fprintf(cmd.out, "Verification code: %s\n", notifier.code)
		return nil
	}

	if out := service.VerifyEmail(ctx, services.VerifyEmailInput{Code: notifier.code}); !out.OK {
		return fmt.Errorf("verify account: %s", out.Error)
	}
	fmt.Fprintf(cmd.out, "Email marked as verified\n")
	return nil
}

// codeCapture keeps the issued ticket instead of mailing it.
type codeCapture struct {
	code string
}

func (c *codeCapture) NotifyVerification(_ context.Context, _ string, ticket *entities.Verification) error {
	c.code = ticket.Code
	return nil
}

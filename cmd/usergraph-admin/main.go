// Command usergraph-admin performs operator tasks against the usergraph
// database: applying migrations, seeding accounts and fetching tokens.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/msomdec/usergraph/internal/config"
	"github.com/msomdec/usergraph/internal/credential"
	"github.com/msomdec/usergraph/internal/repository"
	"github.com/msomdec/usergraph/internal/service"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

const usage = `usage: usergraph-admin <command> [flags]

commands:
  migrate                                  apply database migrations
  create-user -username U -first F -last L create an account (password read from the terminal)
  token -username U                        log in and print a bearer token
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one command. Results go to out; usage text and prompts go to
// errOut so the output of token can be captured by a shell.
func run(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(errOut, usage)
		return errors.New("missing command")
	}

	db, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	passwords, err := credential.NewPasswords(cfg.SaltRounds)
	if err != nil {
		return err
	}
	tokens, err := credential.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		return err
	}
	social := service.NewSocialService(db.Users(), db.Follows(), passwords, tokens, nil)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "migrate":
		fmt.Fprintln(out, "migrations applied")
		return nil
	case "create-user":
		return createUser(ctx, social, rest, out, errOut)
	case "token":
		return issueToken(ctx, social, rest, out, errOut)
	default:
		fmt.Fprint(errOut, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func createUser(ctx context.Context, social *service.SocialService, args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(errOut)
	username := fs.String("username", "", "account username")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := promptPassword(errOut)
	if err != nil {
		return err
	}

	user, err := social.CreateAccount(ctx, service.CreateAccountInput{
		Username:  *username,
		Password:  string(pw),
		FirstName: *first,
		LastName:  *last,
	})
	clear(pw)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(out, "created %s (%s)\n", user.Username, user.ID)
	return nil
}

func issueToken(ctx context.Context, social *service.SocialService, args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(errOut)
	username := fs.String("username", "", "account username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" {
		return errors.New("token: -username is required")
	}

	pw, err := promptPassword(errOut)
	if err != nil {
		return err
	}
	tok, err := social.Login(ctx, *username, string(pw))
	clear(pw)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Fprintln(out, tok)
	return nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

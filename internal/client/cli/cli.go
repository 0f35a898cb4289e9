// Package cli реализует команды администрирования учетных записей.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/akarpov/usersvc/internal/client/api"
	"github.com/akarpov/usersvc/internal/client/session"
	apischema "github.com/akarpov/usersvc/pkg/api"
)

// Cli связывает API клиент и локальное хранилище сессии.
type Cli struct {
	client   *api.Client
	sessions *session.Store
}

// New создает CLI.
func New(client *api.Client, sessions *session.Store) *Cli {
	return &Cli{
		client:   client,
		sessions: sessions,
	}
}

// Run выполняет одну команду.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx, args)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout()
	case "list":
		return c.runList(ctx)
	case "get":
		return c.runGet(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "passwd":
		return c.runPasswd(ctx)
	case "delete":
		return c.runDelete(ctx, args)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage печатает справку по командам.
func PrintUsage() {
	fmt.Fprintln(os.Stderr, `Usage: usersvc-cli <command> [arguments]

Commands:
  register <name> <username> <email>   create a new account
  login <username-or-email>            authenticate and store session token
  logout                               remove stored session
  list                                 list all users
  get <id>                             show a user
  update <name> <username> <email>     update own account (requires login)
  passwd                               change own password (requires login)
  delete <id>                          delete a user`)
}

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: register <name> <username> <email>")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := c.client.Register(ctx, apischema.CreateUserRequest{
		Name:     args[0],
		Username: args[1],
		Email:    args[2],
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User %q created with id %d\n", resp.Username, resp.ID)
	return nil
}

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <username-or-email>")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := c.client.Authenticate(ctx, apischema.AuthenticateRequest{
		UsernameOrEmail: args[0],
		Password:        password,
	})
	if err != nil {
		return err
	}

	sess := &session.Session{
		UsernameOrEmail: args[0],
		Token:           resp.Token,
		SavedAt:         time.Now().Unix(),
	}
	if err := c.sessions.Save(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println("Logged in")
	return nil
}

func (c *Cli) runLogout() error {
	if err := c.sessions.Delete(); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			fmt.Println("Not logged in")
			return nil
		}
		return err
	}

	fmt.Println("Logged out")
	return nil
}

func (c *Cli) runList(ctx context.Context) error {
	users, err := c.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users")
		return nil
	}

	for _, u := range users {
		fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Name, u.Email)
	}
	return nil
}

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <id>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %q", args[0])
	}

	user, err := c.client.GetUser(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("ID:       %d\n", user.ID)
	fmt.Printf("Name:     %s\n", user.Name)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: update <name> <username> <email>")
	}

	if err := c.loadSession(); err != nil {
		return err
	}

	err := c.client.UpdateUser(ctx, apischema.UpdateUserRequest{
		Name:     args[0],
		Username: args[1],
		Email:    args[2],
	})
	if err != nil {
		return err
	}

	fmt.Println("User updated")
	return nil
}

func (c *Cli) runPasswd(ctx context.Context) error {
	if err := c.loadSession(); err != nil {
		return err
	}

	password, err := readPassword("New password: ")
	if err != nil {
		return err
	}

	confirm, err := readPassword("Repeat new password: ")
	if err != nil {
		return err
	}

	if password != confirm {
		return errors.New("passwords do not match")
	}

	if err := c.client.UpdatePassword(ctx, apischema.UpdatePasswordRequest{Password: password}); err != nil {
		return err
	}

	fmt.Println("Password updated")
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %q", args[0])
	}

	if err := c.client.DeleteUser(ctx, id); err != nil {
		return err
	}

	fmt.Println("User deleted")
	return nil
}

// loadSession подставляет сохраненный токен в API клиент.
func (c *Cli) loadSession() error {
	sess, err := c.sessions.Get()
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return errors.New("not logged in, run 'login' first")
		}
		return err
	}

	c.client.SetToken(sess.Token)
	return nil
}

// readPassword читает пароль без эха в терминал.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}

	return string(password), nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akarpov/usersvc/internal/client/api"
	"github.com/akarpov/usersvc/internal/client/cli"
	"github.com/akarpov/usersvc/internal/client/session"
)

func main() {
	if len(os.Args) < 2 {
		cli.PrintUsage()
		os.Exit(1)
	}

	serverURL := os.Getenv("USERSVC_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	sessionPath, err := defaultSessionPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sessions, err := session.Open(sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sessions.Close()

	client := api.NewClient(serverURL)
	app := cli.New(client, sessions)

	if err := app.Run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// defaultSessionPath возвращает путь к файлу сессии в домашнем каталоге.
func defaultSessionPath() (string, error) {
	if path := os.Getenv("USERSVC_SESSION_FILE"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	dir := filepath.Join(home, ".usersvc")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	return filepath.Join(dir, "session.db"), nil
}
